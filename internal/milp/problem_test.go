package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// knapsack builds: maximize 3a + 2b + 2c subject to a + b + c <= 2, a + c >= 1.
func knapsack(t *testing.T) (*Problem, VarID, VarID, VarID) {
	t.Helper()
	b := NewBuilder("knapsack")
	a, err := b.AddBinary("a")
	require.NoError(t, err)
	bb, err := b.AddBinary("b")
	require.NoError(t, err)
	c, err := b.AddBinary("c")
	require.NoError(t, err)

	require.NoError(t, b.Constrain("cap", Sum(a, bb, c), LessEq, Const(2)))
	require.NoError(t, b.Constrain("cover", Sum(a, c), GreaterEq, Const(1)))
	obj := V(a).Scale(3).Plus(V(bb).Scale(2)).Plus(V(c).Scale(2))
	require.NoError(t, b.SetObjective(Maximize, obj))

	p, err := b.Build()
	require.NoError(t, err)
	return p, a, bb, c
}

func TestBuilderNormalizesBothSides(t *testing.T) {
	b := NewBuilder("norm")
	x, _ := b.AddBinary("x")
	y, _ := b.AddBinary("y")

	// x + y + 2 >= 8*(y - 1) + 3  normalizes to  x - 7y >= -7
	lhs := V(x).Plus(V(y)).Plus(Const(2))
	rhs := V(y).Minus(Const(1)).Scale(8).Plus(Const(3))
	require.NoError(t, b.Constrain("row", lhs, GreaterEq, rhs))
	require.NoError(t, b.SetObjective(Maximize, V(x)))
	p, err := b.Build()
	require.NoError(t, err)

	c := p.Constraints()[0]
	assert.Equal(t, "row", c.Name)
	assert.Equal(t, GreaterEq, c.Rel)
	assert.Equal(t, []Term{{Var: x, Coef: 1}, {Var: y, Coef: -7}}, c.Terms)
	assert.InDelta(t, -7.0, c.RHS, 1e-12)
}

func TestBuilderDropsCancelledTerms(t *testing.T) {
	b := NewBuilder("cancel")
	x, _ := b.AddBinary("x")
	y, _ := b.AddBinary("y")
	require.NoError(t, b.Constrain("row", V(x).Plus(V(y)), LessEq, V(x).Plus(Const(1))))
	require.NoError(t, b.SetObjective(Maximize, V(y)))
	p, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []Term{{Var: y, Coef: 1}}, p.Constraints()[0].Terms)
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder("errors")
	x, err := b.AddBinary("x")
	require.NoError(t, err)

	_, err = b.AddBinary("x")
	assert.ErrorIs(t, err, ErrDuplicateName)
	_, err = b.AddBinary("")
	assert.ErrorIs(t, err, ErrEmptyName)

	assert.ErrorIs(t, b.Constrain("bad", V(VarID(7)), LessEq, Const(1)), ErrUnknownVariable)
	assert.ErrorIs(t, b.Constrain("", V(x), LessEq, Const(1)), ErrEmptyName)
	require.NoError(t, b.Constrain("ok", V(x), LessEq, Const(1)))
	assert.ErrorIs(t, b.Constrain("ok", V(x), LessEq, Const(1)), ErrDuplicateName)

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrNoObjective)
}

func TestBuilderSealedAfterBuild(t *testing.T) {
	b := NewBuilder("sealed")
	x, _ := b.AddBinary("x")
	require.NoError(t, b.SetObjective(Maximize, V(x)))
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.AddBinary("y")
	assert.ErrorIs(t, err, ErrSealed)
	assert.ErrorIs(t, b.Constrain("c", V(x), LessEq, Const(1)), ErrSealed)
	assert.ErrorIs(t, b.SetObjective(Minimize, V(x)), ErrSealed)
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrSealed)
}

func TestProblemEvaluation(t *testing.T) {
	p, a, bb, c := knapsack(t)

	assert.Equal(t, 3, p.NumVars())
	assert.Equal(t, 2, p.NumConstraints())
	id, ok := p.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, bb, id)
	_, ok = p.Lookup("z")
	assert.False(t, ok)

	values := make([]float64, 3)
	values[a], values[c] = 1, 1
	assert.InDelta(t, 5.0, p.ObjectiveValue(values), 1e-12)
	assert.Empty(t, p.Violated(values, 1e-9))

	values[bb] = 1
	assert.Equal(t, []string{"cap"}, p.Violated(values, 1e-9))

	values = []float64{0, 1, 0}
	assert.Equal(t, []string{"cover"}, p.Violated(values, 1e-9))
}

func TestRelationHolds(t *testing.T) {
	assert.True(t, LessEq.Holds(1, 1, 0))
	assert.False(t, LessEq.Holds(1.1, 1, 0.01))
	assert.True(t, GreaterEq.Holds(0.99, 1, 0.05))
	assert.True(t, Equal.Holds(2, 2, 0))
	assert.False(t, Equal.Holds(3, 2, 0.5))
}

func TestStatusText(t *testing.T) {
	for _, s := range []Status{StatusOptimal, StatusTimeLimitFeasible, StatusInfeasible, StatusTimeLimitNoIncumbent} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var back Status
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	assert.True(t, StatusOptimal.HasIncumbent())
	assert.True(t, StatusTimeLimitFeasible.HasIncumbent())
	assert.False(t, StatusInfeasible.HasIncumbent())
	assert.False(t, StatusTimeLimitNoIncumbent.HasIncumbent())

	var s Status
	assert.ErrorIs(t, s.UnmarshalText([]byte("unbounded")), ErrUnsupportedStatus)
	_, err := Status(42).MarshalText()
	assert.ErrorIs(t, err, ErrUnsupportedStatus)
}
