package milp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// killGrace is how long CBC may overrun its own -sec limit before the
	// process is killed.
	killGrace = 30 * time.Second
	// waitDelay bounds output draining after the process is killed.
	waitDelay = 5 * time.Second
	// outputTail is how much CBC output is quoted in failure errors.
	outputTail = 2048

	lpFileName       = "model.lp"
	solutionFileName = "solution.txt"
)

// CBC runs the COIN-OR CBC executable. Each Solve call writes the problem to
// its own temporary directory, which is removed on every exit path unless
// Options.KeepArtifacts is set.
type CBC struct {
	path   string
	logger *zap.Logger
}

// NewCBC returns a backend that runs the executable at path (looked up in
// PATH when it has no separator). A nil logger disables logging.
func NewCBC(path string, logger *zap.Logger) *CBC {
	if path == "" {
		path = "cbc"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CBC{path: path, logger: logger}
}

func (c *CBC) Name() string { return "cbc" }

// Solve implements Backend.
func (c *CBC) Solve(ctx context.Context, p *Problem, opts Options) (*Solution, error) {
	exe, err := exec.LookPath(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}

	runID := uuid.New().String()
	dir, err := os.MkdirTemp(opts.WorkDir, "goldsilver-"+runID[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	log := c.logger.With(zap.String("run_id", runID), zap.String("dir", dir))
	if opts.KeepArtifacts {
		log.Info("keeping solver artifacts")
	} else {
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				log.Warn("failed to remove solver artifacts", zap.Error(err))
			}
		}()
	}

	lpPath := filepath.Join(dir, lpFileName)
	solPath := filepath.Join(dir, solutionFileName)
	if err := WriteLPFile(lpPath, p); err != nil {
		return nil, fmt.Errorf("failed to write LP file: %w", err)
	}

	args := []string{lpPath}
	if opts.TimeLimit > 0 {
		args = append(args, "-sec", strconv.Itoa(limitSeconds(opts.TimeLimit)), "-timeMode", "elapsed")
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit+killGrace)
		defer cancel()
	}
	args = append(args, "-branch", "-printingOptions", "all", "-solution", solPath)

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = dir
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = waitDelay

	log.Debug("starting cbc",
		zap.String("exe", exe),
		zap.Int("vars", p.NumVars()),
		zap.Int("constraints", p.NumConstraints()),
		zap.Duration("time_limit", opts.TimeLimit))

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: cbc killed after %s: %v", ErrSolverFailed, elapsed.Round(time.Millisecond), ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("%w: cbc exited with code %d: %s", ErrSolverFailed, exitErr.ExitCode(), tail(output.Bytes()))
		}
		return nil, fmt.Errorf("%w: %v", ErrSolverFailed, runErr)
	}

	f, err := os.Open(solPath)
	if err != nil {
		return nil, fmt.Errorf("%w: no solution file: %v: %s", ErrSolverFailed, err, tail(output.Bytes()))
	}
	defer f.Close()

	sol, err := ParseCBCSolution(f, p)
	if err != nil {
		return nil, err
	}
	log.Debug("cbc finished",
		zap.Stringer("status", sol.Status),
		zap.Float64("objective", sol.Objective),
		zap.Duration("elapsed", elapsed))
	return sol, nil
}

// limitSeconds rounds a duration up to whole seconds, at least 1.
func limitSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

func tail(b []byte) string {
	if len(b) > outputTail {
		b = b[len(b)-outputTail:]
	}
	return string(bytes.TrimSpace(b))
}
