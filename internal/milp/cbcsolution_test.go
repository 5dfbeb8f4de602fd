package milp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCBCStatus(t *testing.T) {
	tests := []struct {
		line string
		want Status
	}{
		{"Optimal - objective value 4.00000000", StatusOptimal},
		{"  optimal - objective value -0", StatusOptimal},
		{"Infeasible - objective value 0.00000000", StatusInfeasible},
		{"Integer infeasible - objective value 0.00000000", StatusInfeasible},
		{"Linear relaxation infeasible - objective value 0", StatusInfeasible},
		{"Stopped on time - objective value 3.00000000", StatusTimeLimitFeasible},
		{"Stopped on iterations - objective value 3.00000000", StatusTimeLimitFeasible},
		{"Stopped on time (no integer solution - continuous used) - objective value 2.5", StatusTimeLimitNoIncumbent},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCBCStatus(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCBCStatusErrors(t *testing.T) {
	_, err := ParseCBCStatus("   ")
	assert.ErrorIs(t, err, ErrMalformedSolution)

	_, err = ParseCBCStatus("Unbounded - objective value 0")
	assert.ErrorIs(t, err, ErrUnsupportedStatus)
}

func TestParseCBCSolution(t *testing.T) {
	p, a, b, c := knapsack(t)
	file := `Optimal - objective value 5.00000000
      0 cap                      2                      0
      1 cover                    1                      0
      0 a                        1                      3
      1 b                        0                      2
      2 c                 0.999999                      2
      3 unknown                  1                      0
`
	sol, err := ParseCBCSolution(strings.NewReader(file), p)
	require.NoError(t, err)

	assert.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 1.0, sol.Value(a), 1e-12)
	assert.InDelta(t, 0.0, sol.Value(b), 1e-12)
	assert.InDelta(t, 0.999999, sol.Value(c), 1e-12)
	assert.InDelta(t, 4.999998, sol.Objective, 1e-9)
}

func TestParseCBCSolutionInfeasibilityMarkers(t *testing.T) {
	p, a, _, _ := knapsack(t)
	file := "Stopped on time - objective value 3\n** 0 a 1 3\n"

	sol, err := ParseCBCSolution(strings.NewReader(file), p)
	require.NoError(t, err)
	assert.Equal(t, StatusTimeLimitFeasible, sol.Status)
	assert.InDelta(t, 1.0, sol.Value(a), 1e-12)
}

func TestParseCBCSolutionWithoutIncumbent(t *testing.T) {
	p, _, _, _ := knapsack(t)

	sol, err := ParseCBCSolution(strings.NewReader("Infeasible - objective value 0\n 0 a 1 3\n"), p)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Nil(t, sol.Values)
	assert.Zero(t, sol.Value(0))
}

func TestParseCBCSolutionErrors(t *testing.T) {
	p, _, _, _ := knapsack(t)

	_, err := ParseCBCSolution(strings.NewReader(""), p)
	assert.ErrorIs(t, err, ErrMalformedSolution)

	_, err = ParseCBCSolution(strings.NewReader("Optimal - objective value 1\n 0 a one 3\n"), p)
	assert.ErrorIs(t, err, ErrMalformedSolution)
}
