package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/goldsilver/internal/engine"
	"github.com/piwi3910/goldsilver/internal/export"
	"github.com/piwi3910/goldsilver/internal/importer"
	"github.com/piwi3910/goldsilver/internal/project"
)

var (
	errInvalidMarking = errors.New("marking violates the gold rule")
	errImportFailed   = errors.New("import failed")
)

var (
	verifyK      int
	renderFormat []string
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Check a marking read from CSV, XLSX, DXF or text",
	Long: `Reads a marking and checks that every gold cell has exactly k silver
neighbors and that no cell is both colors.

CSV and text files hold one mark per cell: S silver, G gold, and '.' or
blank for unmarked. XLSX files are read from the Solution sheet
when present, DXF files from the drawing written by 'solve --format dxf'.

Example:
  goldsilver verify -k 3 marking.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var showCmd = &cobra.Command{
	Use:   "show [result.json]",
	Short: "Print an archived result and optionally render it again",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	verifyCmd.Flags().IntVarP(&verifyK, "k", "k", 0, "Required silver neighbors of every gold cell")
	_ = verifyCmd.MarkFlagRequired("k")

	showCmd.Flags().StringSliceVarP(&renderFormat, "format", "f", nil, "Render the result next to the archive in these formats")
}

func runVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	res := importer.ImportFile(args[0])
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			fmt.Fprintf(out, "error: %s\n", e)
		}
		return fmt.Errorf("%w: %s", errImportFailed, args[0])
	}

	m := res.Marking
	violations := engine.Verify(m.Grid(), verifyK, m.Silver, m.Gold)
	logger.Debug("marking checked",
		zap.String("file", args[0]),
		zap.Int("rows", m.Rows),
		zap.Int("cols", m.Cols),
		zap.Int("violations", len(violations)))
	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintln(out, v)
		}
		return fmt.Errorf("%w: %d violations", errInvalidMarking, len(violations))
	}
	fmt.Fprintf(out, "%dx%d k=%d: valid, %d gold, %d silver\n", m.Rows, m.Cols, verifyK, len(m.Gold), len(m.Silver))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	archive, err := project.LoadResult(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s, saved %s\n", archive.Result.RunID, archive.CreatedAt)
	printResult(out, archive.Result)

	if len(renderFormat) == 0 {
		return nil
	}
	base := strings.TrimSuffix(args[0], ".json")
	for _, f := range renderFormat {
		path := base + "." + strings.ToLower(f)
		if err := export.Render(path, archive.Result); err != nil {
			return err
		}
		fmt.Fprintf(out, "Rendered %s\n", path)
	}
	return nil
}
