// Package export renders gold/silver solve results to PDF, XLSX and DXF files.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/goldsilver/internal/model"
)

var (
	ErrNothingToRender    = errors.New("export: result has no grid")
	ErrUnsupportedFormat  = errors.New("export: unsupported output format")
	ErrEmptyOutputFormats = errors.New("export: no output formats given")
)

// Formats lists the supported file extensions, without the dot.
var Formats = []string{"pdf", "xlsx", "dxf"}

// Summary is the compact description of a result encoded into the PDF's QR code.
type Summary struct {
	RunID  string `json:"run_id"`
	Rows   int    `json:"rows"`
	Cols   int    `json:"cols"`
	K      int    `json:"k"`
	Status string `json:"status"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
}

// Summarize builds the Summary of result.
func Summarize(result model.Result) Summary {
	return Summary{
		RunID:  result.RunID,
		Rows:   result.Rows,
		Cols:   result.Cols,
		K:      result.K,
		Status: result.Status.String(),
		Gold:   result.GoldCount(),
		Silver: result.SilverCount(),
	}
}

// Render writes result to path in the format given by the path's extension.
// A result without an incumbent still renders its empty grid.
func Render(path string, result model.Result) error {
	if result.Grid().Size() == 0 {
		return ErrNothingToRender
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ExportPDF(path, result)
	case ".xlsx":
		return ExportXLSX(path, result)
	case ".dxf":
		return ExportDXF(path, result)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// RenderAll renders result once per format into dir as <base>.<format> and
// returns the written paths.
func RenderAll(dir, base string, result model.Result, formats []string) ([]string, error) {
	if len(formats) == 0 {
		return nil, ErrEmptyOutputFormats
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := filepath.Join(dir, base+"."+strings.TrimPrefix(strings.ToLower(f), "."))
		if err := Render(path, result); err != nil {
			return paths, fmt.Errorf("failed to render %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
