// Package xlsx renders bilingual review workbooks for reviewers working
// outside the API.
package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Nandhu1302/MLR-Content-Orchestrator-sub000/internal/core/domain"
)

const (
	reviewSheet  = "Review"
	summarySheet = "Summary"
)

var reviewHeader = []string{
	"Segment", "Title", "Type", "Source", "Translation", "Status",
	"TM Score", "Exact Words", "Fuzzy Words", "New Words", "Needs Review", "Review Flags",
}

type ReviewBuilder struct{}

func NewReviewBuilder() *ReviewBuilder {
	return &ReviewBuilder{}
}

// Build writes one row per segment in document order plus a summary sheet
// with the leverage analytics.
func (b *ReviewBuilder) Build(record domain.DocumentRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reviewSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeReviewSheet(f, record.Segments); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, record); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeReviewSheet(f *excelize.File, segments []domain.Segment) error {
	if err := setRow(f, reviewSheet, 1, toCells(reviewHeader)); err != nil {
		return err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(reviewHeader))
	if err := f.SetCellStyle(reviewSheet, "A1", lastCol+"1", header); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return fmt.Errorf("wrap style: %w", err)
	}

	for i, seg := range segments {
		row := i + 2
		if err := setRow(f, reviewSheet, row, segmentCells(seg)); err != nil {
			return err
		}
		if err := f.SetCellStyle(reviewSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("E%d", row), wrap); err != nil {
			return fmt.Errorf("apply wrap style: %w", err)
		}
	}

	for col, width := range map[string]float64{"A": 10, "B": 22, "C": 12, "D": 60, "E": 60, "F": 12, "L": 40} {
		if err := f.SetColWidth(reviewSheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetPanes(reviewSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if err := f.AutoFilter(reviewSheet, fmt.Sprintf("A1:%s%d", lastCol, len(segments)+1), nil); err != nil {
		return fmt.Errorf("auto filter: %w", err)
	}
	return nil
}

func segmentCells(seg domain.Segment) []any {
	var score any = ""
	if seg.TMMatchScore != nil {
		score = *seg.TMMatchScore
	}
	var exact, fuzzy, fresh any = "", "", ""
	if seg.TMLeverageData != nil {
		exact = seg.TMLeverageData.ExactMatchWords
		fuzzy = seg.TMLeverageData.FuzzyMatchWords
		fresh = seg.TMLeverageData.NewWords
	}
	review := "no"
	if seg.NeedsReview {
		review = "yes"
	}
	return []any{
		seg.ID, seg.Title, string(seg.Type), seg.Content, seg.TranslatedText, string(seg.TranslationStatus),
		score, exact, fuzzy, fresh, review, strings.Join(seg.ReviewFlags, "; "),
	}
}

func writeSummarySheet(f *excelize.File, record domain.DocumentRecord) error {
	a := record.LeverageAnalytics
	rows := [][]any{
		{"Document", record.Document.Title},
		{"Source language", record.Document.SourceLanguage},
		{"Target language", record.Document.TargetLanguage},
		{"Therapeutic area", record.Document.Domain},
		{"Total segments", a.TotalSegments},
		{"Exact matches", a.ExactMatches},
		{"Fuzzy matches", a.FuzzyMatches},
		{"No matches", a.NoMatches},
		{"Average match score", a.AvgMatchScore},
		{"Leverage rate (%)", a.LeverageRate},
		{"Cost savings", a.TotalCostSavings},
		{"Cultural adaptations", a.CulturalAdaptations},
		{"Therapeutic area matches", a.TherapeuticAreaMatches},
	}
	for i, r := range rows {
		if err := setRow(f, summarySheet, i+1, r); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
