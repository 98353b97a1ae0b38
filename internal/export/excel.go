// Package export renders an analyzed report as an Excel workbook for HR
// record keeping.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jylim/leadership-coach/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportToExcel generates an Excel file with the analyzed diagnostic report.
func ExportToExcel(report *models.Report, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	// Clean the path for cross-platform compatibility (Windows paths)
	outputPath = filepath.Clean(outputPath)

	summarySheet := "Summary"
	competencySheet := "Competency Scores"
	gapSheet := "Perception Gaps"
	commentSheet := "Comments"

	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(competencySheet)
	f.NewSheet(gapSheet)
	f.NewSheet(commentSheet)

	if err := createSummarySheet(f, summarySheet, report); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := createCompetencySheet(f, competencySheet, report); err != nil {
		return fmt.Errorf("failed to create competency sheet: %w", err)
	}
	if err := createGapSheet(f, gapSheet, report); err != nil {
		return fmt.Errorf("failed to create gap sheet: %w", err)
	}
	if err := createCommentSheet(f, commentSheet, report); err != nil {
		return fmt.Errorf("failed to create comment sheet: %w", err)
	}

	if len(report.Trends) > 0 {
		trendSheet := "Trends"
		f.NewSheet(trendSheet)
		if err := createTrendSheet(f, trendSheet, report); err != nil {
			return fmt.Errorf("failed to create trend sheet: %w", err)
		}
	}

	// Try to save the file directly
	if err := f.SaveAs(outputPath); err != nil {
		// If direct save fails, try buffer write fallback
		var buf bytes.Buffer
		if writeErr := f.Write(&buf); writeErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), buffer write also failed: %w", err, writeErr)
		}

		if fileErr := os.WriteFile(outputPath, buf.Bytes(), 0644); fileErr != nil {
			return fmt.Errorf("failed to save Excel file: direct save failed (%v), file write failed: %w", err, fileErr)
		}
	}

	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
}

// createSummarySheet writes the headline figures of the diagnosis.
func createSummarySheet(f *excelize.File, sheetName string, report *models.Report) error {
	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 50)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	row := 1

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "리더십 진단 분석 리포트")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), titleStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	if report.LeaderName != "" {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "대상 리더:")
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), report.LeaderName)
		row++
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Generated:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), time.Now().Format("2006-01-02 15:04:05"))
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "리더십 종합 점수:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", report.LeadershipSummary))
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "조직효과성 종합 점수:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", report.OrgSummary))
	row++

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "인식 차이 항목 수:")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), len(report.Gaps))
	row++

	for _, stage := range report.Stages {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s 단계:", stage.Stage))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", stage.Score))
		row++
	}

	if report.Fallback {
		row++
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Note:")
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row),
			"업로드된 보고서에서 점수를 추출하지 못해 데모 데이터가 표시되었습니다. 원본 PDF의 텍스트 레이어를 확인해주세요.")
	}

	return nil
}

// createCompetencySheet lists the self and group scores per competency item.
func createCompetencySheet(f *excelize.File, sheetName string, report *models.Report) error {
	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "D", 15)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"역량 항목", "본인", "구성원", "연도"}
	for col, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, header)
	}

	for i, score := range report.CompetencyScores {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), score.Category)
		if score.Self != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), *score.Self)
		}
		if score.Group != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), *score.Group)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), score.Year)
	}

	if len(report.CompetencyScores) > 0 {
		f.AutoFilter(sheetName, fmt.Sprintf("A1:D%d", len(report.CompetencyScores)+1), []excelize.AutoFilterOptions{})
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

// createGapSheet lists the surfaced perception gaps with color-coding:
// green for underestimation (hidden strength), pink for overestimation
// (blind spot).
func createGapSheet(f *excelize.File, sheetName string, report *models.Report) error {
	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 20)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	underStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: border,
	})
	overStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Border: border,
	})

	headers := []string{"항목", "본인", "타인", "차이", "유형"}
	for col, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, header)
	}

	for i, gap := range report.Gaps {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), gap.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), gap.Self)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), gap.Other)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("%+.1f", gap.Other-gap.Self))

		var label string
		style := underStyle
		switch gap.Type {
		case models.Underestimation:
			label = "본인이 낮게 평가"
		case models.Overestimation:
			label = "본인이 높게 평가"
			style = overStyle
		default:
			label = "일치"
		}
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), style)
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

// createCommentSheet writes the free-text comment lines per section.
func createCommentSheet(f *excelize.File, sheetName string, report *models.Report) error {
	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 70)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	headers := []string{"구분", "내용"}
	for col, h := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+col)))
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, header)
	}

	sectionLabels := []struct {
		section models.CommentSection
		label   string
	}{
		{models.SectionBoss, "상사 응답"},
		{models.SectionMembers, "구성원 응답"},
		{models.SectionStrength, "강점"},
		{models.SectionWeakness, "보완점"},
	}

	row := 2
	for _, s := range sectionLabels {
		block, ok := report.Comments[s.section]
		if !ok {
			continue
		}
		for _, line := range block.Lines {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.label)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line)
			f.SetCellStyle(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), wrapStyle)
			row++
		}
	}

	return nil
}

// createTrendSheet writes the per-year averages and deltas of multi-year
// survey mode.
func createTrendSheet(f *excelize.File, sheetName string, report *models.Report) error {
	f.SetColWidth(sheetName, "A", "A", 25)

	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	// Year columns in chronological order.
	f.SetCellValue(sheetName, "A1", "항목")
	f.SetCellStyle(sheetName, "A1", "A1", header)
	for i, trend := range report.Trends {
		cell := fmt.Sprintf("%s1", string(rune('B'+i)))
		f.SetCellValue(sheetName, cell, trend.Year)
		f.SetCellStyle(sheetName, cell, cell, header)
		f.SetColWidth(sheetName, string(rune('B'+i)), string(rune('B'+i)), 12)
	}

	// Collect the label set across years, keeping a stable order.
	var labels []string
	seen := map[string]bool{}
	for _, trend := range report.Trends {
		for label := range trend.ByCompetency {
			if !seen[label] {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}

	row := 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "종합")
	for i, trend := range report.Trends {
		if trend.OverallValid {
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", string(rune('B'+i)), row), fmt.Sprintf("%.2f", trend.Overall))
		}
	}
	row++

	for _, label := range labels {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), label)
		for i, trend := range report.Trends {
			if v, ok := trend.ByCompetency[label]; ok && v > 0 {
				f.SetCellValue(sheetName, fmt.Sprintf("%s%d", string(rune('B'+i)), row), fmt.Sprintf("%.2f", v))
			}
		}
		row++
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}
