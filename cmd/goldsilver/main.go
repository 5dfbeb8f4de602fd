// goldsilver finds the largest set of gold cells on a rows x cols grid, where
// a gold cell is one with exactly k silver cells among its Moore neighbors.
//
// Build:
//
//	go build -o goldsilver ./cmd/goldsilver
//
// Examples:
//
//	goldsilver solve --rows 9 --cols 9 -k 3 --format pdf,xlsx
//	goldsilver sweep --rows 6 --cols 6 --ks 0,1,2,3,4
//	goldsilver verify -k 3 output/9x9-k3-1a2b3c4d.xlsx
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/piwi3910/goldsilver/internal/model"
	"github.com/piwi3910/goldsilver/internal/project"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger    *zap.Logger
	appConfig model.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "goldsilver",
	Short: "Maximize gold cells on a grid with an exact MILP model",
	Long: `goldsilver marks cells of a grid silver or gold. A gold cell must have
exactly k silver cells among its (up to eight) neighbors, and the number of
gold cells is maximized. The problem is solved as a 0-1 integer program with
the CBC solver or the built-in branch and bound.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		appConfig, err = project.LoadAppConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Debug("config loaded", zap.String("path", configPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", project.DefaultConfigPath(), "Config file (.yaml or .json)")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
