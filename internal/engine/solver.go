package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/goldsilver/internal/milp"
	"github.com/piwi3910/goldsilver/internal/model"
)

// guardBackendName is recorded as Result.Backend when the feasibility guard
// answered without calling a solver.
const guardBackendName = "feasibility-guard"

// Solver runs the gold/silver pipeline: topology, variables, constraints and
// objective, feasibility guard, backend, extraction.
type Solver struct {
	Settings model.Settings
	backend  milp.Backend
	guard    FeasibilityGuard
	logger   *zap.Logger
}

// Option customizes a Solver.
type Option func(*Solver)

// WithBackend overrides the backend selected by Settings.Backend.
func WithBackend(b milp.Backend) Option {
	return func(s *Solver) { s.backend = b }
}

// WithGuard overrides the guard selected by Settings.FeasibilityCheck.
func WithGuard(g FeasibilityGuard) Option {
	return func(s *Solver) { s.guard = g }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) { s.logger = l }
}

// New validates settings and returns a Solver.
func New(settings model.Settings, opts ...Option) (*Solver, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{Settings: settings, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.backend == nil {
		s.backend = BackendFor(settings, s.logger)
	}
	if s.guard == nil {
		s.guard = GuardFor(settings.FeasibilityCheck)
	}
	return s, nil
}

// BackendFor returns the backend named by settings.
func BackendFor(settings model.Settings, logger *zap.Logger) milp.Backend {
	if settings.Backend == model.BackendBranchBound {
		return milp.NewBranchAndBound(logger)
	}
	return milp.NewCBC(settings.CBCPath, logger)
}

// Backend returns the backend in use.
func (s *Solver) Backend() milp.Backend { return s.backend }

// Solve runs one request. Invalid input and backend failures are returned as
// errors; infeasibility and time limits are reported through Result.Status.
func (s *Solver) Solve(ctx context.Context, req model.Request) (model.Result, error) {
	if err := req.Validate(); err != nil {
		return model.Result{}, err
	}
	grid, err := req.Grid()
	if err != nil {
		return model.Result{}, err
	}

	result := model.Result{
		RunID:  uuid.New().String(),
		Rows:   req.Rows,
		Cols:   req.Cols,
		K:      req.K,
		Silver: []model.Cell{},
		Gold:   []model.Cell{},
	}
	log := s.logger.With(
		zap.String("run_id", result.RunID),
		zap.Int("rows", req.Rows),
		zap.Int("cols", req.Cols),
		zap.Int("k", req.K))
	start := time.Now()

	f, err := Formulate(grid, req.K, s.Settings.BigM)
	if err != nil {
		return model.Result{}, fmt.Errorf("failed to build model: %w", err)
	}
	log.Debug("model built",
		zap.Int("vars", f.Problem.NumVars()),
		zap.Int("constraints", f.Problem.NumConstraints()))

	if v := s.guard.Check(grid, req.K); !v.Feasible {
		log.Info("request rejected before solving", zap.String("reason", v.Reason))
		result.Status = milp.StatusInfeasible
		result.Backend = guardBackendName
		result.Elapsed = time.Since(start)
		return result, nil
	}
	if deg := grid.MaxDegree(); req.K > deg {
		log.Info("k exceeds every neighborhood of this grid, zero gold is the best possible",
			zap.Int("max_degree", deg))
	}

	opts := milp.Options{
		TimeLimit:     s.Settings.TimeLimit(),
		WorkDir:       s.Settings.WorkDir,
		KeepArtifacts: s.Settings.KeepArtifacts,
	}
	sol, err := s.backend.Solve(ctx, f.Problem, opts)
	if err != nil {
		log.Error("solver call failed", zap.String("backend", s.backend.Name()), zap.Error(err))
		return model.Result{}, fmt.Errorf("solve %dx%d k=%d with %s: %w", req.Rows, req.Cols, req.K, s.backend.Name(), err)
	}

	result.Status = sol.Status
	result.Backend = s.backend.Name()
	result.Silver, result.Gold = Extract(f.Vars, sol, s.Settings.Threshold)
	if sol.Status.HasIncumbent() {
		result.Objective = sol.Objective
	}
	result.Elapsed = time.Since(start)

	if violations := Verify(grid, req.K, result.Silver, result.Gold); len(violations) > 0 {
		log.Warn("solution violates the gold rule after thresholding",
			zap.Int("violations", len(violations)),
			zap.Stringer("first", violations[0]))
	}
	if sol.Status == milp.StatusTimeLimitFeasible {
		log.Warn("time limit reached, solution not proven optimal", zap.Int("gold", result.GoldCount()))
	}
	log.Info("solve finished",
		zap.Stringer("status", result.Status),
		zap.String("backend", result.Backend),
		zap.Int("gold", result.GoldCount()),
		zap.Int("silver", result.SilverCount()),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}
