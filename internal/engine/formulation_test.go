package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/piwi3910/goldsilver/internal/milp"
	"github.com/piwi3910/goldsilver/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustGrid(t *testing.T, rows, cols int) model.Grid {
	t.Helper()
	g, err := model.NewGrid(rows, cols)
	require.NoError(t, err)
	return g
}

func constraintByName(t *testing.T, p *milp.Problem, name string) milp.Constraint {
	t.Helper()
	for _, c := range p.Constraints() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("constraint %q not found", name)
	return milp.Constraint{}
}

func lookup(t *testing.T, p *milp.Problem, name string) milp.VarID {
	t.Helper()
	id, ok := p.Lookup(name)
	require.True(t, ok, "variable %q not declared", name)
	return id
}

func TestFormulateSizes(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {1, 5}, {4, 1}, {3, 3}, {9, 9}} {
		f, err := Formulate(mustGrid(t, dims[0], dims[1]), 3, model.MaxNeighbors)
		require.NoError(t, err)

		n := dims[0] * dims[1]
		assert.Equal(t, 2*n, f.Problem.NumVars(), "vars for %v", dims)
		assert.Equal(t, 3*n, f.Problem.NumConstraints(), "constraints for %v", dims)
		assert.Len(t, f.Vars.Silver, n)
		assert.Len(t, f.Vars.Gold, n)
	}
}

func TestFormulateVariableNames(t *testing.T) {
	f, err := Formulate(mustGrid(t, 2, 3), 1, model.MaxNeighbors)
	require.NoError(t, err)

	for _, c := range f.Grid.Cells() {
		assert.Equal(t, fmt.Sprintf("silver_%d_%d", c.Row, c.Col), f.Problem.Variable(f.Vars.SilverOf(c)).Name)
		assert.Equal(t, fmt.Sprintf("gold_%d_%d", c.Row, c.Col), f.Problem.Variable(f.Vars.GoldOf(c)).Name)
	}
}

func TestFormulateCornerConstraints(t *testing.T) {
	f, err := Formulate(mustGrid(t, 3, 3), 2, 8)
	require.NoError(t, err)
	p := f.Problem

	gold := lookup(t, p, "gold_0_0")
	neighbors := []milp.VarID{
		lookup(t, p, "silver_0_1"),
		lookup(t, p, "silver_1_0"),
		lookup(t, p, "silver_1_1"),
	}
	want := []milp.Term{{Var: gold, Coef: -8}}
	for _, id := range neighbors {
		want = append(want, milp.Term{Var: id, Coef: 1})
	}

	lower := constraintByName(t, p, "lower_0_0")
	assert.Equal(t, milp.GreaterEq, lower.Rel)
	assert.Equal(t, want, lower.Terms)
	assert.Equal(t, -6.0, lower.RHS)

	upper := constraintByName(t, p, "upper_0_0")
	want[0].Coef = 8
	assert.Equal(t, milp.LessEq, upper.Rel)
	assert.Equal(t, want, upper.Terms)
	assert.Equal(t, 10.0, upper.RHS)

	excl := constraintByName(t, p, "exclusive_0_0")
	assert.Equal(t, milp.LessEq, excl.Rel)
	assert.Equal(t, []milp.Term{{Var: lookup(t, p, "silver_0_0"), Coef: 1}, {Var: gold, Coef: 1}}, excl.Terms)
	assert.Equal(t, 1.0, excl.RHS)
}

func TestFormulateSingleCellHasNoNeighborTerms(t *testing.T) {
	f, err := Formulate(mustGrid(t, 1, 1), 0, 8)
	require.NoError(t, err)

	lower := constraintByName(t, f.Problem, "lower_0_0")
	assert.Equal(t, []milp.Term{{Var: f.Vars.Gold[0], Coef: -8}}, lower.Terms)
	assert.Equal(t, -8.0, lower.RHS)
}

func TestFormulateObjective(t *testing.T) {
	f, err := Formulate(mustGrid(t, 2, 2), 1, 8)
	require.NoError(t, err)

	obj := f.Problem.Objective()
	assert.Equal(t, milp.Maximize, obj.Sense)
	require.Len(t, obj.Terms, 4)
	for i, term := range obj.Terms {
		assert.Equal(t, f.Vars.Gold[i], term.Var)
		assert.Equal(t, 1.0, term.Coef)
	}
}

func TestDeclareVariablesEmptyGrid(t *testing.T) {
	_, err := DeclareVariables(milp.NewBuilder("empty"), model.Grid{})
	assert.ErrorIs(t, err, ErrEmptyGrid)

	_, err = Formulate(model.Grid{}, 1, 8)
	assert.ErrorIs(t, err, ErrEmptyGrid)
}
