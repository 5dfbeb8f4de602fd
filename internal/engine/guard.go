package engine

import (
	"fmt"

	"github.com/piwi3910/goldsilver/internal/model"
)

// Verdict is a FeasibilityGuard's answer.
type Verdict struct {
	Feasible bool
	Reason   string
}

// FeasibilityGuard runs before the solver and may declare a request
// infeasible without paying solver cost.
type FeasibilityGuard interface {
	Check(g model.Grid, k int) Verdict
}

// PermissiveGuard lets every request through.
type PermissiveGuard struct{}

func (PermissiveGuard) Check(model.Grid, int) Verdict {
	return Verdict{Feasible: true}
}

// StructuralGuard rejects k above model.MaxNeighbors. No cell of any grid can
// then be gold, and with k > M the big-M rows bind even for non-gold cells,
// so the request is reported infeasible up front.
//
// A k that is merely too large for a particular grid (say k=4 on 2x2) is left
// to the solver: "feasible, zero gold is optimal" is a distinct outcome.
type StructuralGuard struct{}

func (StructuralGuard) Check(g model.Grid, k int) Verdict {
	if k > model.MaxNeighbors {
		return Verdict{
			Feasible: false,
			Reason:   fmt.Sprintf("k=%d exceeds the %d cells of a full neighborhood", k, model.MaxNeighbors),
		}
	}
	return Verdict{Feasible: true}
}

// GuardFor returns the guard selected by check.
func GuardFor(check model.FeasibilityCheck) FeasibilityGuard {
	if check == model.CheckNone {
		return PermissiveGuard{}
	}
	return StructuralGuard{}
}
