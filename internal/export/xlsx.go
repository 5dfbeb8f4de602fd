package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/goldsilver/internal/model"
)

// Sheet names used by ExportXLSX.
const (
	SolutionSheet = "Solution"
	SummarySheet  = "Summary"
)

// ExportXLSX writes a workbook with a Solution sheet holding one spreadsheet
// cell per grid cell ("S", "G" or ".", color filled) and a Summary sheet.
// Grid cell (r, c) is spreadsheet cell (column c+1, row r+1).
func ExportXLSX(path string, result model.Result) error {
	if result.Grid().Size() == 0 {
		return ErrNothingToRender
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SolutionSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSolutionSheet(f, result); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func fillStyle(f *excelize.File, hex string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "808080", Style: 1},
			{Type: "top", Color: "808080", Style: 1},
			{Type: "right", Color: "808080", Style: 1},
			{Type: "bottom", Color: "808080", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true},
	})
}

func writeSolutionSheet(f *excelize.File, result model.Result) error {
	styles := make(map[byte]int, 3)
	for mark, hex := range map[byte]string{'G': "FFCC00", 'S': "C0C0C0", '.': "FFFFFF"} {
		id, err := fillStyle(f, hex)
		if err != nil {
			return fmt.Errorf("failed to create cell style: %w", err)
		}
		styles[mark] = id
	}

	for r, row := range result.Marking() {
		for c, mark := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SolutionSheet, name, string(mark)); err != nil {
				return err
			}
			if err := f.SetCellStyle(SolutionSheet, name, name, styles[mark]); err != nil {
				return err
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(result.Cols)
	if err != nil {
		return err
	}
	return f.SetColWidth(SolutionSheet, "A", lastCol, 4)
}

func writeSummarySheet(f *excelize.File, result model.Result) error {
	rows := [][2]interface{}{
		{"Run ID", result.RunID},
		{"Rows", result.Rows},
		{"Columns", result.Cols},
		{"k", result.K},
		{"Status", result.Status.String()},
		{"Proven optimal", result.Proven()},
		{"Backend", result.Backend},
		{"Gold cells", result.GoldCount()},
		{"Silver cells", result.SilverCount()},
		{"Objective", result.Objective},
		{"Elapsed (s)", result.Elapsed.Seconds()},
	}
	for i, kv := range rows {
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", i+1), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", i+1), kv[1]); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 20)
}
