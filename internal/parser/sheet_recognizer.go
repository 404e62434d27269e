package parser

import (
	"strings"
)

// SheetRecognizer 表格类型识别器（用于工作簿中的各个 Sheet）
type SheetRecognizer struct{}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{}
}

// 识别时尝试的顺序；descriptions 的列是 projects 的子集，放在最后
var recognitionOrder = []TableKind{TableIndicators, TablePoverty, TableTestimonials, TableProjects, TableDescriptions}

// sheetNameHints Sheet 名中的关键词
var sheetNameHints = map[TableKind][]string{
	TableProjects:     {"project"},
	TableIndicators:   {"indicator", "progress"},
	TableTestimonials: {"testimonial"},
	TablePoverty:      {"poverty", "mpi", "wealth"},
	TableDescriptions: {"description"},
}

// Recognize 识别表格类型：必需字段全部命中才算识别成功，Sheet 名关键词加权
func (r *SheetRecognizer) Recognize(sheetName string, columnNames []string) RecognitionResult {
	best := RecognitionResult{Name: sheetName, Kind: TableUnknown}
	lowerName := strings.ToLower(sheetName)

	for _, kind := range recognitionOrder {
		if kind == TableDescriptions && best.Kind == TableProjects {
			continue
		}
		mapper := NewFieldMapper(kind)
		if _, err := mapper.MapRequired(columnNames); err != nil {
			continue
		}
		matched := len(mapper.Map(columnNames))
		confidence := float64(matched) / float64(len(fieldPatterns[kind]))
		if ContainsAny(lowerName, sheetNameHints[kind]) {
			confidence += 0.2
		}
		if confidence > 1 {
			confidence = 1
		}
		if confidence > best.Confidence {
			best = RecognitionResult{Name: sheetName, Kind: kind, Confidence: confidence}
		}
	}

	return best
}
