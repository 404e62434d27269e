package parser

import "fmt"

// TableKind 数据表类型
type TableKind string

const (
	TableProjects     TableKind = "projects"
	TableIndicators   TableKind = "indicators"
	TableTestimonials TableKind = "testimonials"
	TablePoverty      TableKind = "poverty"
	TableDescriptions TableKind = "descriptions"
	TableUnknown      TableKind = "unknown"
)

// Table 原始表格（首行为表头）
type Table struct {
	Name   string     // 文件名或 Sheet 名
	Header []string   // 原始列名
	Rows   [][]string // 数据行，不含表头
}

// RecognitionResult 表格识别结果
type RecognitionResult struct {
	Name       string    `json:"name"`
	Kind       TableKind `json:"kind"`
	Confidence float64   `json:"confidence"` // 置信度 0-1
}

// FieldMapping 字段映射结果
type FieldMapping struct {
	ColumnIndex int    `json:"columnIndex"` // 列索引
	ColumnName  string `json:"columnName"`  // 原始列名
	Field       string `json:"field"`       // 目标字段
}

// RowError 行级解析错误
type RowError struct {
	Table string
	Row   int // 1 起始，含表头
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Table, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
