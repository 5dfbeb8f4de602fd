package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidBigM             = errors.New("model: big-M must be at least the maximum neighbor count")
	ErrInvalidThreshold        = errors.New("model: threshold must lie strictly between 0.5 and 1")
	ErrInvalidTimeLimit        = errors.New("model: time limit must be positive")
	ErrUnknownBackend          = errors.New("model: unknown solver backend")
	ErrUnknownFeasibilityCheck = errors.New("model: unknown feasibility check")
)

// DefaultTimeLimitSeconds is the wall-clock budget handed to the solver.
const DefaultTimeLimitSeconds = 4 * 60 * 60

// Backend names a MILP backend implementation.
type Backend string

const (
	BackendCBC         Backend = "cbc"          // External COIN-OR CBC executable
	BackendBranchBound Backend = "branch-bound" // Built-in 0-1 branch and bound (small grids)
)

// FeasibilityCheck selects the pre-solve guard.
type FeasibilityCheck string

const (
	CheckStructural FeasibilityCheck = "structural" // Reject k above a full neighborhood
	CheckNone       FeasibilityCheck = "none"       // Always hand the model to the solver
)

// Settings holds solver configuration.
type Settings struct {
	// Model settings
	BigM      int     `json:"big_m" yaml:"big_m"`         // Relaxation constant; must be >= MaxNeighbors
	Threshold float64 `json:"threshold" yaml:"threshold"` // Value above which a binary reads as 1

	// Solver settings
	Backend          Backend          `json:"backend" yaml:"backend"`
	TimeLimitSeconds int              `json:"time_limit_seconds" yaml:"time_limit_seconds"`
	FeasibilityCheck FeasibilityCheck `json:"feasibility_check" yaml:"feasibility_check"`

	// CBC process settings
	CBCPath       string `json:"cbc_path" yaml:"cbc_path"`             // Executable name or path
	WorkDir       string `json:"work_dir" yaml:"work_dir"`             // Parent of per-solve artifact dirs; "" = os.TempDir()
	KeepArtifacts bool   `json:"keep_artifacts" yaml:"keep_artifacts"` // Leave LP/solution files behind for debugging
}

func DefaultSettings() Settings {
	return Settings{
		BigM:             MaxNeighbors,
		Threshold:        0.9,
		Backend:          BackendCBC,
		TimeLimitSeconds: DefaultTimeLimitSeconds,
		FeasibilityCheck: CheckStructural,
		CBCPath:          "cbc",
		WorkDir:          "",
		KeepArtifacts:    false,
	}
}

// Validate checks that the settings keep the big-M relaxation sound and the
// remaining knobs within range.
func (s Settings) Validate() error {
	if s.BigM < MaxNeighbors {
		return fmt.Errorf("%w: got %d, need >= %d", ErrInvalidBigM, s.BigM, MaxNeighbors)
	}
	if s.Threshold <= 0.5 || s.Threshold >= 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidThreshold, s.Threshold)
	}
	if s.TimeLimitSeconds <= 0 {
		return fmt.Errorf("%w: got %ds", ErrInvalidTimeLimit, s.TimeLimitSeconds)
	}
	switch s.Backend {
	case BackendCBC, BackendBranchBound:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
	switch s.FeasibilityCheck {
	case CheckStructural, CheckNone:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFeasibilityCheck, s.FeasibilityCheck)
	}
	return nil
}

// WithDefaults fills zero-valued fields from DefaultSettings. It is applied
// after loading partial configuration files.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.BigM == 0 {
		s.BigM = d.BigM
	}
	if s.Threshold == 0 {
		s.Threshold = d.Threshold
	}
	if s.Backend == "" {
		s.Backend = d.Backend
	}
	if s.TimeLimitSeconds == 0 {
		s.TimeLimitSeconds = d.TimeLimitSeconds
	}
	if s.FeasibilityCheck == "" {
		s.FeasibilityCheck = d.FeasibilityCheck
	}
	if s.CBCPath == "" {
		s.CBCPath = d.CBCPath
	}
	return s
}

// TimeLimit returns the configured budget as a duration.
func (s Settings) TimeLimit() time.Duration {
	return time.Duration(s.TimeLimitSeconds) * time.Second
}
