// Package importer reads gold/silver markings back from CSV, Excel, plain
// text and DXF files so that they can be verified or re-rendered.
//
// Tabular formats hold one grid cell per field: "S" for silver, "G" for gold
// and "." or an empty field for an unmarked cell. Marks are case-insensitive.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/goldsilver/internal/export"
	"github.com/piwi3910/goldsilver/internal/model"
)

// Marking is a grid with its silver and gold cells, in row-major order.
type Marking struct {
	Rows   int
	Cols   int
	Silver []model.Cell
	Gold   []model.Cell
}

// Grid returns the marking's grid.
func (m Marking) Grid() model.Grid {
	return model.Grid{Rows: m.Rows, Cols: m.Cols}
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Marking  Marking
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced no errors.
func (r ImportResult) OK() bool { return len(r.Errors) == 0 }

// ImportFile imports a marking, choosing the reader by file extension:
// .csv, .xlsx, .dxf, or anything else as plain text.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ImportCSV(path)
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".dxf":
		return ImportDXF(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
		}
		defer f.Close()
		return ImportText(f)
	}
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// ImportCSV imports a marking from a CSV file with one grid row per line.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	imported := ImportCSVFromReader(bytes.NewReader(data), delimiter)
	imported.Warnings = append(result.Warnings, imported.Warnings...)
	return imported
}

// ImportCSVFromReader imports a marking from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return markingFromRows(records, "Line")
}

// ImportExcel imports a marking from an Excel file. It reads the Solution
// sheet written by the xlsx renderer when present, otherwise the first sheet.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if s == export.SolutionSheet {
			sheet = s
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	return markingFromRows(rows, "Row")
}

// ImportText imports a marking drawn as text, one grid row per line and one
// character per cell, as printed by model.Result.String. Blank lines are
// ignored.
func ImportText(r io.Reader) ImportResult {
	var rows [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		row := make([]string, 0, len(line))
		for _, ch := range line {
			row = append(row, string(ch))
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read text: %v", err)}}
	}
	return markingFromRows(rows, "Line")
}

// markingFromRows is the shared import logic for all tabular formats.
// Trailing rows without any field are dropped; short rows are padded with
// unmarked cells.
func markingFromRows(rows [][]string, rowPrefix string) ImportResult {
	result := ImportResult{}

	for len(rows) > 0 && isEmptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}

	m := Marking{Rows: len(rows), Cols: cols, Silver: []model.Cell{}, Gold: []model.Cell{}}
	for r, row := range rows {
		if len(row) < cols {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s %d has %d cells, treating the missing %d as unmarked", rowPrefix, r+1, len(row), cols-len(row)))
		}
		for c, field := range row {
			cell := model.Cell{Row: r, Col: c}
			switch strings.ToUpper(strings.TrimSpace(field)) {
			case "S":
				m.Silver = append(m.Silver, cell)
			case "G":
				m.Gold = append(m.Gold, cell)
			case ".", "":
			default:
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s %d, column %d: unknown mark %q", rowPrefix, r+1, c+1, field))
			}
		}
	}

	result.Marking = m
	return result
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
