package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/goldsilver/internal/engine"
	"github.com/piwi3910/goldsilver/internal/export"
	"github.com/piwi3910/goldsilver/internal/model"
	"github.com/piwi3910/goldsilver/internal/project"
)

// Solver flags shared by solve and sweep
var (
	rows         int
	cols         int
	backendName  string
	timeLimit    time.Duration
	bigM         int
	noGuard      bool
	keepArtifact bool
)

// solve flags
var (
	k         int
	outputDir string
	formats   []string
	noSave    bool
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one grid for one k",
	Long: `Builds the gold/silver model for a grid, solves it and prints the marking
(S silver, G gold, . unmarked). Unless --no-save is given, the result is
archived as JSON in the output directory and rendered in every --format.

Example:
  goldsilver solve --rows 9 --cols 9 -k 3 --format pdf,dxf`,
	RunE: runSolve,
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rows, "rows", 0, "Grid rows (required)")
	cmd.Flags().IntVar(&cols, "cols", 0, "Grid columns (required)")
	cmd.Flags().StringVar(&backendName, "backend", "", "Solver backend: cbc or branch-bound (default from config)")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "Solver wall-clock limit, e.g. 90s (default from config)")
	cmd.Flags().IntVar(&bigM, "big-m", 0, "Big-M relaxation constant, at least 8 (default from config)")
	cmd.Flags().BoolVar(&noGuard, "no-guard", false, "Hand every k to the solver, skipping the pre-solve check")
	cmd.Flags().BoolVar(&keepArtifact, "keep-artifacts", false, "Keep CBC model and solution files")
	_ = cmd.MarkFlagRequired("rows")
	_ = cmd.MarkFlagRequired("cols")
}

func init() {
	addSolverFlags(solveCmd)
	solveCmd.Flags().IntVarP(&k, "k", "k", 0, "Required silver neighbors of every gold cell")
	solveCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default from config)")
	solveCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Render formats: pdf, xlsx, dxf (default from config)")
	solveCmd.Flags().BoolVar(&noSave, "no-save", false, "Print the result without writing any files")
}

// solverSettings applies the solver flags that were set on cmd over the
// configured settings.
func solverSettings(cmd *cobra.Command) (model.Settings, error) {
	s := appConfig.Settings
	if cmd.Flags().Changed("backend") {
		s.Backend = model.Backend(backendName)
	}
	if cmd.Flags().Changed("time-limit") {
		s.TimeLimitSeconds = int(timeLimit.Round(time.Second) / time.Second)
	}
	if cmd.Flags().Changed("big-m") {
		s.BigM = bigM
	}
	if noGuard {
		s.FeasibilityCheck = model.CheckNone
	}
	if keepArtifact {
		s.KeepArtifacts = true
	}
	if err := s.Validate(); err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	settings, err := solverSettings(cmd)
	if err != nil {
		return err
	}
	solver, err := engine.New(settings, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("solving",
		zap.Int("rows", rows),
		zap.Int("cols", cols),
		zap.Int("k", k),
		zap.String("backend", solver.Backend().Name()))
	result, err := solver.Solve(cmd.Context(), model.Request{Rows: rows, Cols: cols, K: k})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult(out, result)
	if noSave {
		return nil
	}

	dir := appConfig.OutputDir
	if cmd.Flags().Changed("output") {
		dir = outputDir
	}
	archivePath := project.ResultFileName(dir, result)
	if err := project.SaveResult(archivePath, result, settings); err != nil {
		return err
	}
	fmt.Fprintf(out, "Result saved to %s\n", archivePath)

	renderFormats := appConfig.RenderFormats
	if cmd.Flags().Changed("format") {
		renderFormats = formats
	}
	if result.HasIncumbent() && len(renderFormats) > 0 {
		base := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
		paths, err := export.RenderAll(dir, base, result, renderFormats)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(out, "Rendered %s\n", p)
		}
	}

	appConfig.AddRecentResult(archivePath)
	if err := project.SaveAppConfig(configPath, appConfig); err != nil {
		logger.Warn("failed to record recent result", zap.String("config", configPath), zap.Error(err))
	}
	return nil
}

// printResult writes a summary line followed by the marking when there is one.
func printResult(w io.Writer, result model.Result) {
	fmt.Fprintf(w, "%dx%d k=%d: %s (%s), %d gold, %d silver, %v\n",
		result.Rows, result.Cols, result.K, result.Status, result.Backend,
		result.GoldCount(), result.SilverCount(), result.Elapsed.Round(time.Millisecond))
	if result.HasIncumbent() {
		fmt.Fprint(w, result.String())
	}
}
