package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/goldsilver/internal/engine"
)

var (
	sweepKs       []int
	sweepParallel int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Solve one grid for several values of k",
	Long: `Solves the same grid for every k in --ks, running up to --parallel solves
at once, and prints one row per k followed by the k with the most gold cells.

Example:
  goldsilver sweep --rows 6 --cols 6 --ks 0,1,2,3,4,5,6,7,8 --parallel 4`,
	RunE: runSweep,
}

func init() {
	addSolverFlags(sweepCmd)
	sweepCmd.Flags().IntSliceVar(&sweepKs, "ks", []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, "Values of k to solve")
	sweepCmd.Flags().IntVarP(&sweepParallel, "parallel", "p", 0, "Concurrent solves, 0 = one per CPU (default from config)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	settings, err := solverSettings(cmd)
	if err != nil {
		return err
	}
	solver, err := engine.New(settings, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	parallel := appConfig.SweepParallel
	if cmd.Flags().Changed("parallel") {
		parallel = sweepParallel
	}
	logger.Info("sweeping",
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Ints("ks", sweepKs),
		zap.Int("parallel", parallel))

	results, err := engine.Sweep(cmd.Context(), solver, rows, cols, sweepKs, parallel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "K\tSTATUS\tGOLD\tSILVER\tELAPSED")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%v\n",
			r.K, r.Result.Status, r.Result.GoldCount(), r.Result.SilverCount(),
			r.Result.Elapsed.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	best, ok := engine.BestK(results)
	if !ok {
		fmt.Fprintln(out, "No k produced a solution")
		return nil
	}
	fmt.Fprintf(out, "Best: k=%d with %d gold (%s)\n", best.K, best.Result.GoldCount(), best.Result.Status)
	return nil
}
