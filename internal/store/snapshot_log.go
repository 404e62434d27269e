package store

import "fmt"

// CreateSnapshotLog 创建快照日志，返回 snapshot_log_id
func (s *Store) CreateSnapshotLog(source string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO snapshot_logs (source, status) VALUES (?, 'processing')
	`, source)
	if err != nil {
		return 0, fmt.Errorf("failed to create snapshot log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot log id: %w", err)
	}
	return id, nil
}

// FinishSnapshotLog 完成快照日志更新
func (s *Store) FinishSnapshotLog(id int64, stats Stats, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE snapshot_logs SET
			projects = ?,
			regions = ?,
			observations = ?,
			testimonials = ?,
			images = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, stats.Projects, stats.Regions, stats.Observations, stats.Testimonials, stats.Images, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update snapshot log: %w", err)
	}
	return nil
}

// SnapshotLog 快照日志
type SnapshotLog struct {
	ID           int64  `json:"id"`
	Source       string `json:"source"`
	Status       string `json:"status"`
	Stats        Stats  `json:"stats"`
	ErrorMessage string `json:"errorMessage"`
	StartedAt    string `json:"startedAt"`
}

// LatestSnapshotLog 最近一次快照日志
func (s *Store) LatestSnapshotLog() (*SnapshotLog, error) {
	var l SnapshotLog
	err := s.db.QueryRow(`
		SELECT id, source, status, projects, regions, observations, testimonials, images,
			error_message, COALESCE(started_at, '')
		FROM snapshot_logs ORDER BY id DESC LIMIT 1
	`).Scan(&l.ID, &l.Source, &l.Status, &l.Stats.Projects, &l.Stats.Regions, &l.Stats.Observations,
		&l.Stats.Testimonials, &l.Stats.Images, &l.ErrorMessage, &l.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot log: %w", err)
	}
	return &l, nil
}
