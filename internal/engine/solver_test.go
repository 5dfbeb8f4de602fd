package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/piwi3910/goldsilver/internal/milp"
	"github.com/piwi3910/goldsilver/internal/model"
)

// recordingBackend remembers the options it was called with and answers
// with an optimal, all-zero solution.
type recordingBackend struct {
	opts milp.Options
}

func (r *recordingBackend) Name() string { return "recording" }

func (r *recordingBackend) Solve(_ context.Context, p *milp.Problem, opts milp.Options) (*milp.Solution, error) {
	r.opts = opts
	return &milp.Solution{Status: milp.StatusOptimal, Values: make([]float64, p.NumVars())}, nil
}

func bbSettings() model.Settings {
	s := model.DefaultSettings()
	s.Backend = model.BackendBranchBound
	s.TimeLimitSeconds = 60
	return s
}

func newSolver(t *testing.T, settings model.Settings, opts ...Option) *Solver {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	s, err := New(settings, opts...)
	require.NoError(t, err)
	return s
}

// bruteForceMaxGold enumerates every marking of g and returns the largest
// number of gold cells among the valid ones.
func bruteForceMaxGold(g model.Grid, k int) int {
	all := g.Cells()
	total := 1
	for range all {
		total *= 3
	}
	best := 0
	for code := 0; code < total; code++ {
		var silver, gold []model.Cell
		x := code
		for _, c := range all {
			switch x % 3 {
			case 1:
				silver = append(silver, c)
			case 2:
				gold = append(gold, c)
			}
			x /= 3
		}
		if len(gold) > best && len(Verify(g, k, silver, gold)) == 0 {
			best = len(gold)
		}
	}
	return best
}

func TestNewValidatesSettings(t *testing.T) {
	s := model.DefaultSettings()
	s.BigM = 7
	_, err := New(s)
	assert.ErrorIs(t, err, model.ErrInvalidBigM)

	s = model.DefaultSettings()
	s.Threshold = 0.5
	_, err = New(s)
	assert.ErrorIs(t, err, model.ErrInvalidThreshold)
}

func TestBackendFor(t *testing.T) {
	s := model.DefaultSettings()
	assert.Equal(t, "cbc", BackendFor(s, nil).Name())

	s.Backend = model.BackendBranchBound
	assert.Equal(t, "branch-bound", BackendFor(s, nil).Name())

	solver := newSolver(t, s)
	assert.Equal(t, "branch-bound", solver.Backend().Name())
}

func TestSolveRejectsInvalidRequests(t *testing.T) {
	stub := &milp.Stub{Status: milp.StatusOptimal}
	solver := newSolver(t, model.DefaultSettings(), WithBackend(stub))

	_, err := solver.Solve(context.Background(), model.Request{Rows: 0, Cols: 3, K: 1})
	assert.ErrorIs(t, err, model.ErrInvalidDimensions)

	_, err = solver.Solve(context.Background(), model.Request{Rows: 3, Cols: -1, K: 1})
	assert.ErrorIs(t, err, model.ErrInvalidDimensions)

	_, err = solver.Solve(context.Background(), model.Request{Rows: 3, Cols: 3, K: -1})
	assert.ErrorIs(t, err, model.ErrNegativeK)

	assert.Zero(t, stub.Calls())
}

func TestSolveExtractsStubSolution(t *testing.T) {
	stub := &milp.Stub{
		Status: milp.StatusOptimal,
		Values: map[string]float64{
			"silver_0_1": 0.999,
			"gold_0_0":   1,
			"gold_0_2":   0.4,
			"silver_1_1": 1,
			"gold_1_1":   1,
		},
	}
	solver := newSolver(t, model.DefaultSettings(), WithBackend(stub))

	res, err := solver.Solve(context.Background(), model.Request{Rows: 3, Cols: 3, K: 1})
	require.NoError(t, err)

	assert.Equal(t, milp.StatusOptimal, res.Status)
	assert.Equal(t, "stub", res.Backend)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 1, res.K)
	if diff := cmp.Diff(cells(0, 1, 1, 1), res.Silver); diff != "" {
		t.Errorf("silver mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(cells(0, 0), res.Gold); diff != "" {
		t.Errorf("gold mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, stub.Calls())
}

func TestSolveStatusWithoutIncumbent(t *testing.T) {
	for _, status := range []milp.Status{milp.StatusInfeasible, milp.StatusTimeLimitNoIncumbent} {
		stub := &milp.Stub{Status: status}
		solver := newSolver(t, model.DefaultSettings(), WithBackend(stub))

		res, err := solver.Solve(context.Background(), model.Request{Rows: 2, Cols: 2, K: 1})
		require.NoError(t, err)
		assert.Equal(t, status, res.Status)
		assert.NotNil(t, res.Silver)
		assert.NotNil(t, res.Gold)
		assert.Empty(t, res.Silver)
		assert.Empty(t, res.Gold)
		assert.False(t, res.HasIncumbent())
	}
}

func TestSolveBackendErrorsPropagate(t *testing.T) {
	for _, sentinel := range []error{milp.ErrSolverFailed, milp.ErrSolverUnavailable} {
		stub := &milp.Stub{Err: sentinel}
		solver := newSolver(t, model.DefaultSettings(), WithBackend(stub))

		_, err := solver.Solve(context.Background(), model.Request{Rows: 2, Cols: 2, K: 1})
		assert.True(t, errors.Is(err, sentinel), "expected %v, got %v", sentinel, err)
	}
}

func TestSolvePassesSettingsToBackend(t *testing.T) {
	settings := model.DefaultSettings()
	settings.TimeLimitSeconds = 90
	settings.WorkDir = "/scratch"
	settings.KeepArtifacts = true
	backend := &recordingBackend{}
	solver := newSolver(t, settings, WithBackend(backend))

	_, err := solver.Solve(context.Background(), model.Request{Rows: 2, Cols: 2, K: 0})
	require.NoError(t, err)

	assert.Equal(t, milp.Options{TimeLimit: 90 * time.Second, WorkDir: "/scratch", KeepArtifacts: true}, backend.opts)
}

func TestSolveStructuralGuardSkipsBackend(t *testing.T) {
	stub := &milp.Stub{Status: milp.StatusOptimal}
	solver := newSolver(t, model.DefaultSettings(), WithBackend(stub))

	for _, k := range []int{9, 12, 100} {
		res, err := solver.Solve(context.Background(), model.Request{Rows: 5, Cols: 5, K: k})
		require.NoError(t, err)
		assert.Equal(t, milp.StatusInfeasible, res.Status)
		assert.Equal(t, guardBackendName, res.Backend)
		assert.Empty(t, res.Silver)
		assert.Empty(t, res.Gold)
	}
	assert.Zero(t, stub.Calls())
}

func TestSolvePermissiveGuardCallsBackend(t *testing.T) {
	settings := model.DefaultSettings()
	settings.FeasibilityCheck = model.CheckNone
	stub := &milp.Stub{Status: milp.StatusInfeasible}
	solver := newSolver(t, settings, WithBackend(stub))

	res, err := solver.Solve(context.Background(), model.Request{Rows: 5, Cols: 5, K: 9})
	require.NoError(t, err)
	assert.Equal(t, milp.StatusInfeasible, res.Status)
	assert.Equal(t, 1, stub.Calls())
}

func TestSolveBranchAndBoundMatchesBruteForce(t *testing.T) {
	solver := newSolver(t, bbSettings())

	for _, dims := range [][2]int{{1, 1}, {1, 4}, {2, 2}, {2, 3}, {3, 2}, {3, 3}} {
		g := mustGrid(t, dims[0], dims[1])
		for k := 0; k <= 3; k++ {
			res, err := solver.Solve(context.Background(), model.Request{Rows: dims[0], Cols: dims[1], K: k})
			require.NoError(t, err)

			assert.Equal(t, milp.StatusOptimal, res.Status, "%v k=%d", dims, k)
			assert.Empty(t, Verify(g, k, res.Silver, res.Gold), "%v k=%d", dims, k)
			assert.Equal(t, bruteForceMaxGold(g, k), res.GoldCount(), "%v k=%d", dims, k)
			assert.InDelta(t, float64(res.GoldCount()), res.Objective, 1e-9, "%v k=%d", dims, k)
		}
	}
}

func TestSolveSingleCell(t *testing.T) {
	solver := newSolver(t, bbSettings())

	res, err := solver.Solve(context.Background(), model.Request{Rows: 1, Cols: 1, K: 0})
	require.NoError(t, err)
	assert.Equal(t, cells(0, 0), res.Gold)
	assert.Empty(t, res.Silver)

	// No neighbors, so k=1 cannot be met: feasible with zero gold.
	res, err = solver.Solve(context.Background(), model.Request{Rows: 1, Cols: 1, K: 1})
	require.NoError(t, err)
	assert.Equal(t, milp.StatusOptimal, res.Status)
	assert.Empty(t, res.Gold)
}

func TestSolveZeroGoldIsNotInfeasible(t *testing.T) {
	solver := newSolver(t, bbSettings())

	res, err := solver.Solve(context.Background(), model.Request{Rows: 2, Cols: 2, K: 4})
	require.NoError(t, err)
	assert.Equal(t, milp.StatusOptimal, res.Status)
	assert.True(t, res.Proven())
	assert.Zero(t, res.GoldCount())
}

func TestSolveKZeroMakesEveryCellGold(t *testing.T) {
	solver := newSolver(t, bbSettings())

	res, err := solver.Solve(context.Background(), model.Request{Rows: 3, Cols: 4, K: 0})
	require.NoError(t, err)
	assert.Equal(t, 12, res.GoldCount())
	assert.Empty(t, res.Silver)
}

func TestSolveThreeByThreeKSix(t *testing.T) {
	solver := newSolver(t, bbSettings())

	res, err := solver.Solve(context.Background(), model.Request{Rows: 3, Cols: 3, K: 6})
	require.NoError(t, err)
	assert.Equal(t, milp.StatusOptimal, res.Status)
	// Only the center has six or more neighbors.
	assert.Equal(t, cells(1, 1), res.Gold)
	assert.Len(t, res.Silver, 6)
}

func TestSolveIsDeterministic(t *testing.T) {
	solver := newSolver(t, bbSettings())
	req := model.Request{Rows: 3, Cols: 3, K: 2}

	first, err := solver.Solve(context.Background(), req)
	require.NoError(t, err)
	second, err := solver.Solve(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.GoldCount(), second.GoldCount())
	assert.Equal(t, first.Gold, second.Gold)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSolvePermissiveModelInfeasibleForLargeK(t *testing.T) {
	settings := bbSettings()
	settings.FeasibilityCheck = model.CheckNone
	solver := newSolver(t, settings)

	// With k > M the lower rows force a silver neighbor even for non-gold
	// cells, which a lone cell cannot have.
	res, err := solver.Solve(context.Background(), model.Request{Rows: 1, Cols: 1, K: 9})
	require.NoError(t, err)
	assert.Equal(t, milp.StatusInfeasible, res.Status)
	assert.Equal(t, "branch-bound", res.Backend)
}

func TestSolveTimeLimitStatusIsCarried(t *testing.T) {
	settings := bbSettings()
	settings.TimeLimitSeconds = 1
	solver := newSolver(t, settings)

	res, err := solver.Solve(context.Background(), model.Request{Rows: 10, Cols: 10, K: 3})
	require.NoError(t, err)

	assert.NotEqual(t, milp.StatusInfeasible, res.Status)
	if res.HasIncumbent() {
		assert.Empty(t, Verify(res.Grid(), 3, res.Silver, res.Gold))
	} else {
		assert.Empty(t, res.Gold)
		assert.Empty(t, res.Silver)
	}
}
