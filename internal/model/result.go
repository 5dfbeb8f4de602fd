package model

import (
	"time"

	"github.com/piwi3910/goldsilver/internal/milp"
)

// Result holds the outcome of one solve.
type Result struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Rows      int           `json:"rows" yaml:"rows"`
	Cols      int           `json:"cols" yaml:"cols"`
	K         int           `json:"k" yaml:"k"`
	Status    milp.Status   `json:"status" yaml:"status"`
	Backend   string        `json:"backend" yaml:"backend"`
	Objective float64       `json:"objective" yaml:"objective"`
	Silver    []Cell        `json:"silver_cells" yaml:"silver_cells"`
	Gold      []Cell        `json:"gold_cells" yaml:"gold_cells"`
	Elapsed   time.Duration `json:"elapsed_ns" yaml:"elapsed_ns"`
}

// Grid returns the grid the result was computed for.
func (r Result) Grid() Grid {
	return Grid{Rows: r.Rows, Cols: r.Cols}
}

// GoldCount returns the number of gold cells.
func (r Result) GoldCount() int { return len(r.Gold) }

// SilverCount returns the number of silver cells.
func (r Result) SilverCount() int { return len(r.Silver) }

// Proven reports whether the solver proved the gold count optimal.
func (r Result) Proven() bool { return r.Status == milp.StatusOptimal }

// HasIncumbent reports whether the cell lists come from a solution.
func (r Result) HasIncumbent() bool { return r.Status.HasIncumbent() }

// Marking returns a rows x cols character map: 'S' silver, 'G' gold, '.' unmarked.
func (r Result) Marking() [][]byte {
	m := make([][]byte, r.Rows)
	for i := range m {
		m[i] = make([]byte, r.Cols)
		for j := range m[i] {
			m[i][j] = '.'
		}
	}
	g := r.Grid()
	for _, c := range r.Silver {
		if g.InBounds(c) {
			m[c.Row][c.Col] = 'S'
		}
	}
	for _, c := range r.Gold {
		if g.InBounds(c) {
			m[c.Row][c.Col] = 'G'
		}
	}
	return m
}

// String renders the marking one grid row per line.
func (r Result) String() string {
	m := r.Marking()
	out := make([]byte, 0, r.Rows*(r.Cols+1))
	for _, row := range m {
		out = append(out, row...)
		out = append(out, '\n')
	}
	return string(out)
}
