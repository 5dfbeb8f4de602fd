package milp

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// feasTol absorbs floating point noise in constraint activities.
	feasTol = 1e-9
	// ctxCheckInterval is how many nodes are explored between deadline checks.
	ctxCheckInterval = 1024
)

// BranchAndBound is an exact depth-first 0-1 solver for small problems. It
// keeps the minimum and maximum achievable activity of every constraint under
// the current partial assignment and backtracks as soon as a constraint can
// no longer be satisfied or the objective bound cannot beat the incumbent.
type BranchAndBound struct {
	logger *zap.Logger
}

// NewBranchAndBound returns the built-in backend. A nil logger disables logging.
func NewBranchAndBound(logger *zap.Logger) *BranchAndBound {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BranchAndBound{logger: logger}
}

func (b *BranchAndBound) Name() string { return "branch-bound" }

// occurrence records that a variable appears in constraint ci with coef.
type occurrence struct {
	ci   int
	coef float64
}

// bbSearch is the per-call search state.
type bbSearch struct {
	ctx  context.Context
	cons []Constraint

	objCoef []float64      // objective coefficients, negated for Minimize
	occurs  [][]occurrence // per variable
	minAct  []float64      // per constraint
	maxAct  []float64      // per constraint
	assign  []int8         // -1 unassigned, 0, 1

	objFixed float64 // objective contribution of assigned variables
	objFree  float64 // best possible contribution of unassigned variables

	best       float64
	bestValues []float64
	found      bool

	nodes   int
	stopped bool
}

// Solve implements Backend.
func (b *BranchAndBound) Solve(ctx context.Context, p *Problem, opts Options) (*Solution, error) {
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}

	s := newSearch(ctx, p)
	start := time.Now()
	if s.rootFeasible() {
		s.branch(0)
	}

	sol := &Solution{}
	switch {
	case s.found && !s.stopped:
		sol.Status = StatusOptimal
	case s.found:
		sol.Status = StatusTimeLimitFeasible
	case s.stopped:
		sol.Status = StatusTimeLimitNoIncumbent
	default:
		sol.Status = StatusInfeasible
	}
	if s.found {
		sol.Values = s.bestValues
		sol.Objective = p.ObjectiveValue(s.bestValues)
	}

	b.logger.Debug("branch and bound finished",
		zap.Stringer("status", sol.Status),
		zap.Int("nodes", s.nodes),
		zap.Float64("objective", sol.Objective),
		zap.Duration("elapsed", time.Since(start)))
	return sol, nil
}

func newSearch(ctx context.Context, p *Problem) *bbSearch {
	n := p.NumVars()
	s := &bbSearch{
		ctx:     ctx,
		cons:    p.constraints,
		objCoef: make([]float64, n),
		occurs:  make([][]occurrence, n),
		minAct:  make([]float64, len(p.constraints)),
		maxAct:  make([]float64, len(p.constraints)),
		assign:  make([]int8, n),
	}
	sign := 1.0
	if p.objective.Sense == Minimize {
		sign = -1
	}
	for _, t := range p.objective.Terms {
		s.objCoef[t.Var] = sign * t.Coef
	}
	for i := range s.assign {
		s.assign[i] = -1
		if s.objCoef[i] > 0 {
			s.objFree += s.objCoef[i]
		}
	}
	for ci, c := range p.constraints {
		for _, t := range c.Terms {
			s.occurs[t.Var] = append(s.occurs[t.Var], occurrence{ci: ci, coef: t.Coef})
			s.minAct[ci] += min(0, t.Coef)
			s.maxAct[ci] += max(0, t.Coef)
		}
	}
	return s
}

// rootFeasible checks every constraint before any variable is fixed. This
// catches rows whose terms cannot reach the right-hand side at all.
func (s *bbSearch) rootFeasible() bool {
	for ci := range s.cons {
		if !s.satisfiable(ci) {
			return false
		}
	}
	return true
}

func (s *bbSearch) satisfiable(ci int) bool {
	c := s.cons[ci]
	switch c.Rel {
	case LessEq:
		return s.minAct[ci] <= c.RHS+feasTol
	case GreaterEq:
		return s.maxAct[ci] >= c.RHS-feasTol
	default:
		return s.minAct[ci] <= c.RHS+feasTol && s.maxAct[ci] >= c.RHS-feasTol
	}
}

func (s *bbSearch) branch(v int) {
	if s.stopped {
		return
	}
	if s.nodes%ctxCheckInterval == 0 && s.ctx.Err() != nil {
		s.stopped = true
		return
	}
	s.nodes++

	if s.found && s.objFixed+s.objFree <= s.best+feasTol {
		return
	}
	if v == len(s.assign) {
		s.record()
		return
	}

	first, second := int8(0), int8(1)
	if s.objCoef[v] > 0 {
		first, second = 1, 0
	}
	for _, val := range [2]int8{first, second} {
		if s.fix(v, val) {
			s.branch(v + 1)
		}
		s.unfix(v, val)
		if s.stopped {
			return
		}
	}
}

// fix assigns v and reports whether every touched constraint stays satisfiable.
func (s *bbSearch) fix(v int, val int8) bool {
	s.assign[v] = val
	if c := s.objCoef[v]; c > 0 {
		s.objFree -= c
	}
	s.objFixed += s.objCoef[v] * float64(val)

	ok := true
	for _, o := range s.occurs[v] {
		s.minAct[o.ci] += o.coef*float64(val) - min(0, o.coef)
		s.maxAct[o.ci] += o.coef*float64(val) - max(0, o.coef)
		if ok && !s.satisfiable(o.ci) {
			ok = false
		}
	}
	return ok
}

func (s *bbSearch) unfix(v int, val int8) {
	for _, o := range s.occurs[v] {
		s.minAct[o.ci] -= o.coef*float64(val) - min(0, o.coef)
		s.maxAct[o.ci] -= o.coef*float64(val) - max(0, o.coef)
	}
	s.objFixed -= s.objCoef[v] * float64(val)
	if c := s.objCoef[v]; c > 0 {
		s.objFree += c
	}
	s.assign[v] = -1
}

func (s *bbSearch) record() {
	if s.found && s.objFixed <= s.best+feasTol {
		return
	}
	values := make([]float64, len(s.assign))
	for i, a := range s.assign {
		values[i] = float64(a)
	}
	s.best = s.objFixed
	s.bestValues = values
	s.found = true
}
