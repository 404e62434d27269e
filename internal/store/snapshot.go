package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nateso/toy-dash-application/internal/model"
)

const tsLayout = "2006-01-02"

// ErrReadOnly 只读快照不可写
var ErrReadOnly = errors.New("snapshot opened read-only")

// SaveDataset 用数据集整体替换快照内容
func (s *Store) SaveDataset(ds *Dataset, source string) (err error) {
	if s.readOnly {
		return ErrReadOnly
	}

	logID, err := s.CreateSnapshotLog(source)
	if err != nil {
		return err
	}
	defer func() {
		status, msg := "done", ""
		if err != nil {
			status, msg = "error", err.Error()
		}
		if ferr := s.FinishSnapshotLog(logID, ds.Stats(), status, msg); ferr != nil && err == nil {
			err = ferr
		}
	}()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"projects", "regions", "indicator_observations", "testimonials", "images"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertProjects(tx, ds.Projects); err != nil {
		return err
	}
	if err := insertRegions(tx, ds.Regions); err != nil {
		return err
	}
	if err := insertObservations(tx, ds.Observations); err != nil {
		return err
	}
	if err := insertTestimonials(tx, ds.Testimonials); err != nil {
		return err
	}
	if err := insertImages(tx, ds.Images); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.SetMeta(metaCountryCode, ds.CountryCode); err != nil {
		return err
	}
	return s.SetMeta(metaSource, source)
}

func insertProjects(tx *sql.Tx, projects []model.Project) error {
	stmt, err := tx.Prepare(`
		INSERT INTO projects (
			seq, project_id, name, location, country, topic, funding,
			start_date, end_date, lat, lon, description, before_after_narrative
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, p := range projects {
		_, err := stmt.Exec(
			i, p.ID, p.Name, p.Location, p.Country, p.Topic, p.FundingAmount,
			p.StartDate, p.EndDate, p.Lat, p.Lon, p.Description, p.BeforeAfterNarrative,
		)
		if err != nil {
			return fmt.Errorf("failed to insert project %s: %w", p.ID, err)
		}
	}
	return nil
}

func insertRegions(tx *sql.Tx, regions []model.Region) error {
	stmt, err := tx.Prepare(`
		INSERT INTO regions (
			seq, region_id, subnational_name, country_code,
			mpi_region, hr_poor, hr_severe_poverty, geometry_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range regions {
		geom, err := json.Marshal(r.Geometry)
		if err != nil {
			return fmt.Errorf("failed to encode geometry of %s: %w", r.ID, err)
		}
		_, err = stmt.Exec(
			i, r.ID, r.SubnationalName, r.CountryCode,
			r.MPIScore, r.PovertyHeadcountRatio, r.SeverePovertyRatio, string(geom),
		)
		if err != nil {
			return fmt.Errorf("failed to insert region %s: %w", r.ID, err)
		}
	}
	return nil
}

func insertObservations(tx *sql.Tx, observations []model.IndicatorObservation) error {
	stmt, err := tx.Prepare(`
		INSERT INTO indicator_observations (
			project_id, ts, disbursement, indicator_1, indicator_2,
			indicator_name_1, indicator_name_2
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range observations {
		_, err := stmt.Exec(
			o.ProjectID, o.Timestamp.Format(tsLayout), o.DisbursementValue, o.Indicator1Value, o.Indicator2Value,
			o.Indicator1Label, o.Indicator2Label,
		)
		if err != nil {
			return fmt.Errorf("failed to insert observation of %s: %w", o.ProjectID, err)
		}
	}
	return nil
}

func insertTestimonials(tx *sql.Tx, testimonials []model.Testimonial) error {
	stmt, err := tx.Prepare(`INSERT INTO testimonials (testimonial_id, testimonial) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range testimonials {
		if _, err := stmt.Exec(t.ID, t.Text); err != nil {
			return fmt.Errorf("failed to insert testimonial %s: %w", t.ID, err)
		}
	}
	return nil
}

func insertImages(tx *sql.Tx, images []model.ImageAsset) error {
	stmt, err := tx.Prepare(`INSERT INTO images (asset_id, content_type, data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, img := range images {
		if _, err := stmt.Exec(img.ID, img.ContentType, img.Data); err != nil {
			return fmt.Errorf("failed to insert image %s: %w", img.ID, err)
		}
	}
	return nil
}

// LoadDataset 从快照读取完整数据集
func (s *Store) LoadDataset() (*Dataset, error) {
	ds := &Dataset{}

	country, err := s.GetMeta(metaCountryCode)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	ds.CountryCode = country

	if ds.Projects, err = s.loadProjects(); err != nil {
		return nil, err
	}
	if ds.Regions, err = s.loadRegions(); err != nil {
		return nil, err
	}
	if ds.Observations, err = s.loadObservations(); err != nil {
		return nil, err
	}
	if ds.Testimonials, err = s.loadTestimonials(); err != nil {
		return nil, err
	}
	if ds.Images, err = s.loadImages(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *Store) loadProjects() ([]model.Project, error) {
	rows, err := s.db.Query(`
		SELECT project_id, name, location, country, topic, funding,
			start_date, end_date, lat, lon, description, before_after_narrative
		FROM projects ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query projects failed: %w", err)
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Location, &p.Country, &p.Topic, &p.FundingAmount,
			&p.StartDate, &p.EndDate, &p.Lat, &p.Lon, &p.Description, &p.BeforeAfterNarrative); err != nil {
			return nil, fmt.Errorf("scan project failed: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) loadRegions() ([]model.Region, error) {
	rows, err := s.db.Query(`
		SELECT region_id, subnational_name, country_code, mpi_region, hr_poor, hr_severe_poverty, geometry_json
		FROM regions ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query regions failed: %w", err)
	}
	defer rows.Close()

	var out []model.Region
	for rows.Next() {
		var r model.Region
		var geom string
		if err := rows.Scan(&r.ID, &r.SubnationalName, &r.CountryCode,
			&r.MPIScore, &r.PovertyHeadcountRatio, &r.SeverePovertyRatio, &geom); err != nil {
			return nil, fmt.Errorf("scan region failed: %w", err)
		}
		if err := json.Unmarshal([]byte(geom), &r.Geometry); err != nil {
			return nil, fmt.Errorf("decode geometry of %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadObservations() ([]model.IndicatorObservation, error) {
	rows, err := s.db.Query(`
		SELECT project_id, ts, disbursement, indicator_1, indicator_2, indicator_name_1, indicator_name_2
		FROM indicator_observations ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query observations failed: %w", err)
	}
	defer rows.Close()

	var out []model.IndicatorObservation
	for rows.Next() {
		var o model.IndicatorObservation
		var ts string
		if err := rows.Scan(&o.ProjectID, &ts, &o.DisbursementValue, &o.Indicator1Value, &o.Indicator2Value,
			&o.Indicator1Label, &o.Indicator2Label); err != nil {
			return nil, fmt.Errorf("scan observation failed: %w", err)
		}
		if o.Timestamp, err = time.Parse(tsLayout, ts); err != nil {
			return nil, fmt.Errorf("parse observation date %q: %w", ts, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) loadTestimonials() ([]model.Testimonial, error) {
	rows, err := s.db.Query(`SELECT testimonial_id, testimonial FROM testimonials ORDER BY testimonial_id`)
	if err != nil {
		return nil, fmt.Errorf("query testimonials failed: %w", err)
	}
	defer rows.Close()

	var out []model.Testimonial
	for rows.Next() {
		var t model.Testimonial
		if err := rows.Scan(&t.ID, &t.Text); err != nil {
			return nil, fmt.Errorf("scan testimonial failed: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) loadImages() ([]model.ImageAsset, error) {
	rows, err := s.db.Query(`SELECT asset_id, content_type, data FROM images ORDER BY asset_id`)
	if err != nil {
		return nil, fmt.Errorf("query images failed: %w", err)
	}
	defer rows.Close()

	var out []model.ImageAsset
	for rows.Next() {
		var img model.ImageAsset
		if err := rows.Scan(&img.ID, &img.ContentType, &img.Data); err != nil {
			return nil, fmt.Errorf("scan image failed: %w", err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}
