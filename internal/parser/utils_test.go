package parser

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" Indicator Name 1":  "indicator_name_1",
		"\ufeffproject_id":   "project_id",
		"before-after  text": "before_after_text",
		"GID_0":              "gid_0",
	}
	for in, want := range cases {
		if got := NormalizeColumnName(in); got != want {
			t.Fatalf("NormalizeColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFloat(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"":          0,
		"nan":       0,
		"12.5":      12.5,
		"1,500,000": 1500000,
		" -3 ":      -3,
	}
	for in, want := range cases {
		got, err := ParseFloat(in)
		if err != nil {
			t.Fatalf("ParseFloat(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFloat(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseFloat("ten"); err == nil {
		t.Fatalf("expected error for non-numeric input")
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate("2021-03-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got.Year() != 2021 || got.Month() != 3 || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestFieldMapper_Aliases(t *testing.T) {
	t.Parallel()

	m := NewFieldMapper(TableIndicators).Map([]string{"project_id", "date", "disbursement", "indicator_1", "indicator_2", "indicator_name_1", "Indicator 2 Label"})
	if m[FieldIndicatorName2].ColumnIndex != 6 {
		t.Fatalf("indicator_name_2 mapped to %+v", m[FieldIndicatorName2])
	}
	if m[FieldIndicator1].ColumnIndex != 3 {
		t.Fatalf("indicator_1 mapped to %+v", m[FieldIndicator1])
	}
}

func TestFieldMapper_MissingRequired(t *testing.T) {
	t.Parallel()

	_, err := NewFieldMapper(TableProjects).MapRequired([]string{"project_id", "name"})
	if err == nil || !strings.Contains(err.Error(), "lat, lon") {
		t.Fatalf("expected missing lat/lon error, got %v", err)
	}
}

func TestSheetRecognizer(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer()
	cases := []struct {
		sheet   string
		columns []string
		want    TableKind
	}{
		{"projects", []string{"project_id", "name", "location", "country", "topic", "funding", "start", "end", "lat", "lon"}, TableProjects},
		{"Sheet2", []string{"project_id", "date", "disbursement", "indicator_1", "indicator_2", "indicator_name_1", "indicator_name_2"}, TableIndicators},
		{"Sheet3", []string{"testimonial_id", "testimonial"}, TableTestimonials},
		{"mpi", []string{"iso_country_code", "subnational_region", "mpi_region", "hr_poor", "hr_severe_poverty"}, TablePoverty},
		{"texts", []string{"project_id", "description", "before_after"}, TableDescriptions},
		{"notes", []string{"foo", "bar"}, TableUnknown},
	}
	for _, c := range cases {
		if got := r.Recognize(c.sheet, c.columns); got.Kind != c.want {
			t.Fatalf("Recognize(%s) = %s, want %s", c.sheet, got.Kind, c.want)
		}
	}
}

func TestReadSheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"testimonial_id", "testimonial"},
		{"P1_testimonial_01", "It helped."},
		{nil, nil},
		{"P1_testimonial_02", "Thank you."},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	table, err := ReadSheet(f, "Sheet1")
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	testimonials, err := ParseTestimonials(table)
	if err != nil {
		t.Fatalf("ParseTestimonials: %v", err)
	}
	if len(testimonials) != 2 || testimonials[1].Text != "Thank you." {
		t.Fatalf("unexpected testimonials: %+v", testimonials)
	}
}
