package milp

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSolverUnavailable means the backend could not be started at all.
	ErrSolverUnavailable = errors.New("milp: solver unavailable")
	// ErrSolverFailed means the backend started but crashed or misbehaved.
	ErrSolverFailed = errors.New("milp: solver failed")
	// ErrMalformedSolution means the backend's output could not be parsed.
	ErrMalformedSolution = errors.New("milp: malformed solution")
	// ErrUnsupportedStatus means the backend reported a status outside the
	// four termination outcomes (e.g. unbounded).
	ErrUnsupportedStatus = errors.New("milp: unsupported solver status")
)

// Status is a backend's termination verdict.
type Status int

const (
	StatusOptimal              Status = iota // Proven optimal
	StatusTimeLimitFeasible                  // Time limit hit, incumbent available
	StatusInfeasible                         // Proven infeasible
	StatusTimeLimitNoIncumbent               // Time limit hit, nothing found
)

var statusNames = [...]string{
	StatusOptimal:              "optimal",
	StatusTimeLimitFeasible:    "time-limit-with-incumbent",
	StatusInfeasible:           "infeasible",
	StatusTimeLimitNoIncumbent: "time-limit-no-incumbent",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// HasIncumbent reports whether a solution accompanies this status.
func (s Status) HasIncumbent() bool {
	return s == StatusOptimal || s == StatusTimeLimitFeasible
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedStatus, int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedStatus, text)
}

// Solution is what a backend returns. Values is indexed by VarID and is nil
// when the status carries no incumbent.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Value returns the value of id, or 0 when there is no incumbent.
func (s *Solution) Value(id VarID) float64 {
	if int(id) >= len(s.Values) || id < 0 {
		return 0
	}
	return s.Values[id]
}

// Options tune a single Solve call.
type Options struct {
	// TimeLimit bounds the wall-clock time of the call. Zero means no limit.
	TimeLimit time.Duration
	// WorkDir is where file-based backends create their per-call directory.
	WorkDir string
	// KeepArtifacts leaves file-based backends' artifacts on disk.
	KeepArtifacts bool
}

// Backend solves a Problem. Implementations must be safe for concurrent use:
// every call owns its own state.
type Backend interface {
	Name() string
	Solve(ctx context.Context, p *Problem, opts Options) (*Solution, error)
}
