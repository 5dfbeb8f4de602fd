package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/goldsilver/internal/milp"
	"github.com/piwi3910/goldsilver/internal/model"
)

// SweepResult is one row of a k sweep.
type SweepResult struct {
	K      int
	Result model.Result
}

// Sweep solves the same grid for every k in ks and returns results in the
// order of ks. Up to parallel solves run at once (0 means one per CPU). Each
// solve builds its own model; the first error cancels the remaining ones.
func Sweep(ctx context.Context, s *Solver, rows, cols int, ks []int, parallel int) ([]SweepResult, error) {
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	results := make([]SweepResult, len(ks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, k := range ks {
		g.Go(func() error {
			res, err := s.Solve(ctx, model.Request{Rows: rows, Cols: cols, K: k})
			if err != nil {
				return err
			}
			results[i] = SweepResult{K: k, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BestK returns the sweep row with the most gold cells among those that have
// an incumbent, preferring proven optima and then smaller k on ties.
func BestK(results []SweepResult) (SweepResult, bool) {
	var best SweepResult
	found := false
	for _, r := range results {
		if !r.Result.HasIncumbent() {
			continue
		}
		switch {
		case !found:
		case r.Result.GoldCount() > best.Result.GoldCount():
		case r.Result.GoldCount() == best.Result.GoldCount() &&
			r.Result.Status == milp.StatusOptimal && best.Result.Status != milp.StatusOptimal:
		default:
			continue
		}
		best = r
		found = true
	}
	return best, found
}
