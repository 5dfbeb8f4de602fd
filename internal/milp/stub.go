package milp

import (
	"context"
	"sync/atomic"
)

// Stub is an in-memory Backend that never solves anything. It returns a
// canned status, values looked up by variable name, or an error.
type Stub struct {
	Status Status
	// Values maps variable names to returned values; missing names read as 0.
	Values map[string]float64
	// Err, when set, is returned instead of a solution.
	Err error

	calls atomic.Int32
}

func (s *Stub) Name() string { return "stub" }

// Calls reports how many times Solve has been invoked.
func (s *Stub) Calls() int { return int(s.calls.Load()) }

// Solve implements Backend.
func (s *Stub) Solve(_ context.Context, p *Problem, _ Options) (*Solution, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	sol := &Solution{Status: s.Status}
	if !s.Status.HasIncumbent() {
		return sol, nil
	}
	values := make([]float64, p.NumVars())
	for name, v := range s.Values {
		if id, ok := p.Lookup(name); ok {
			values[id] = v
		}
	}
	sol.Values = values
	sol.Objective = p.ObjectiveValue(values)
	return sol, nil
}
