package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/goldsilver/internal/model"
)

// ArchiveVersion is written into every result archive.
const ArchiveVersion = "1.0.0"

// ResultArchive is the on-disk form of a solve: the result plus the settings
// it was produced with.
type ResultArchive struct {
	Version   string         `json:"version"`
	CreatedAt string         `json:"created_at"`
	Settings  model.Settings `json:"settings"`
	Result    model.Result   `json:"result"`
}

// SaveResult writes result and the settings used to produce it to path as JSON.
func SaveResult(path string, result model.Result, settings model.Settings) error {
	archive := ResultArchive{
		Version:   ArchiveVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Settings:  settings,
		Result:    result,
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}

// LoadResult reads a result archive written by SaveResult.
func LoadResult(path string) (ResultArchive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultArchive{}, fmt.Errorf("failed to read result file: %w", err)
	}
	var archive ResultArchive
	if err := json.Unmarshal(data, &archive); err != nil {
		return ResultArchive{}, fmt.Errorf("failed to parse result file: %w", err)
	}
	if archive.Version == "" {
		return ResultArchive{}, fmt.Errorf("invalid result file: missing version field")
	}
	// Ensure the cell lists are never nil
	if archive.Result.Silver == nil {
		archive.Result.Silver = []model.Cell{}
	}
	if archive.Result.Gold == nil {
		archive.Result.Gold = []model.Cell{}
	}
	return archive, nil
}

// ResultFileName returns a file name for result inside dir, e.g.
// "9x9-k3-1a2b3c4d.json".
func ResultFileName(dir string, result model.Result) string {
	id := result.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return filepath.Join(dir, fmt.Sprintf("%dx%d-k%d-%s.json", result.Rows, result.Cols, result.K, id))
}
