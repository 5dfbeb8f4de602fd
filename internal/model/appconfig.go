package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Solver defaults applied to every run
	Settings Settings `json:"settings" yaml:"settings"`

	// Output preferences
	OutputDir     string   `json:"output_dir" yaml:"output_dir"`         // Where renders and result archives go
	RenderFormats []string `json:"render_formats" yaml:"render_formats"` // File extensions rendered after a solve: "pdf", "xlsx", "dxf"
	SweepParallel int      `json:"sweep_parallel" yaml:"sweep_parallel"` // Concurrent solves in a k sweep, 0 = one per CPU
	RecentResults []string `json:"recent_results" yaml:"recent_results"` // Most recent result archive paths, newest first
}

// maxRecentResults caps AppConfig.RecentResults.
const maxRecentResults = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Settings:      DefaultSettings(),
		OutputDir:     "output",
		RenderFormats: []string{"pdf"},
		SweepParallel: 0,
		RecentResults: []string{},
	}
}

// AddRecentResult records path as the most recent result archive, removing
// older duplicates and trimming the list.
func (c *AppConfig) AddRecentResult(path string) {
	out := []string{path}
	for _, p := range c.RecentResults {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > maxRecentResults {
		out = out[:maxRecentResults]
	}
	c.RecentResults = out
}
