// Package engine turns a gold/silver request into a 0-1 program, runs it on a
// milp.Backend and reads the answer back as two cell lists.
package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/goldsilver/internal/milp"
	"github.com/piwi3910/goldsilver/internal/model"
)

// ErrEmptyGrid is returned when a model is requested for a grid with no cells.
var ErrEmptyGrid = errors.New("engine: grid has no cells")

const problemName = "GoldSilverCells"

// VariableSet holds the silver and gold variable of every cell, indexed by
// the cell's row-major index.
type VariableSet struct {
	Grid   model.Grid
	Silver []milp.VarID
	Gold   []milp.VarID
}

// SilverOf returns the silver variable of c.
func (vs VariableSet) SilverOf(c model.Cell) milp.VarID { return vs.Silver[vs.Grid.Index(c)] }

// GoldOf returns the gold variable of c.
func (vs VariableSet) GoldOf(c model.Cell) milp.VarID { return vs.Gold[vs.Grid.Index(c)] }

func silverName(c model.Cell) string { return fmt.Sprintf("silver_%d_%d", c.Row, c.Col) }
func goldName(c model.Cell) string   { return fmt.Sprintf("gold_%d_%d", c.Row, c.Col) }

// DeclareVariables declares a silver and a gold binary for every cell.
func DeclareVariables(b *milp.Builder, g model.Grid) (VariableSet, error) {
	if g.Size() == 0 {
		return VariableSet{}, ErrEmptyGrid
	}
	vs := VariableSet{
		Grid:   g,
		Silver: make([]milp.VarID, g.Size()),
		Gold:   make([]milp.VarID, g.Size()),
	}
	for _, c := range g.Cells() {
		i := g.Index(c)
		var err error
		if vs.Silver[i], err = b.AddBinary(silverName(c)); err != nil {
			return VariableSet{}, err
		}
		if vs.Gold[i], err = b.AddBinary(goldName(c)); err != nil {
			return VariableSet{}, err
		}
	}
	return vs, nil
}

// AddConstraints adds, for every cell c with neighbors N(c):
//
//	exclusive: silver(c) + gold(c) <= 1
//	lower:     sum silver(N(c)) >= k + M*(gold(c) - 1)
//	upper:     sum silver(N(c)) <= k + M*(1 - gold(c))
//
// With gold(c)=1 the pair pins the neighbor sum to exactly k. With gold(c)=0
// the bounds become k-M and k+M, which never bind as long as M >= 8 >= k.
func AddConstraints(b *milp.Builder, vs VariableSet, nm model.NeighborMap, k, bigM int) error {
	kk, m := float64(k), float64(bigM)
	for _, c := range vs.Grid.Cells() {
		silver, gold := milp.V(vs.SilverOf(c)), milp.V(vs.GoldOf(c))

		neighbors := nm[c]
		ids := make([]milp.VarID, len(neighbors))
		for i, n := range neighbors {
			ids[i] = vs.SilverOf(n)
		}
		neighborSum := milp.Sum(ids...)

		suffix := fmt.Sprintf("%d_%d", c.Row, c.Col)
		if err := b.Constrain("exclusive_"+suffix, silver.Plus(gold), milp.LessEq, milp.Const(1)); err != nil {
			return err
		}
		lower := milp.Const(kk).Plus(gold.Minus(milp.Const(1)).Scale(m))
		if err := b.Constrain("lower_"+suffix, neighborSum, milp.GreaterEq, lower); err != nil {
			return err
		}
		upper := milp.Const(kk).Plus(milp.Const(1).Minus(gold).Scale(m))
		if err := b.Constrain("upper_"+suffix, neighborSum, milp.LessEq, upper); err != nil {
			return err
		}
	}
	return nil
}

// SetObjective maximizes the number of gold cells.
func SetObjective(b *milp.Builder, vs VariableSet) error {
	return b.SetObjective(milp.Maximize, milp.Sum(vs.Gold...))
}

// Formulation is a fully built model together with its variable layout.
type Formulation struct {
	Grid    model.Grid
	K       int
	BigM    int
	Vars    VariableSet
	Problem *milp.Problem
}

// Formulate builds the complete 0-1 program for grid g and target k.
func Formulate(g model.Grid, k, bigM int) (*Formulation, error) {
	b := milp.NewBuilder(problemName)

	vs, err := DeclareVariables(b, g)
	if err != nil {
		return nil, err
	}
	if err := AddConstraints(b, vs, g.NeighborMap(), k, bigM); err != nil {
		return nil, fmt.Errorf("failed to add constraints: %w", err)
	}
	if err := SetObjective(b, vs); err != nil {
		return nil, fmt.Errorf("failed to set objective: %w", err)
	}
	p, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Formulation{Grid: g, K: k, BigM: bigM, Vars: vs, Problem: p}, nil
}
