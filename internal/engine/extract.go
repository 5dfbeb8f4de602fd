package engine

import (
	"github.com/piwi3910/goldsilver/internal/milp"
	"github.com/piwi3910/goldsilver/internal/model"
)

// Extract reads solver values back as silver and gold cell lists in
// row-major order. A cell whose silver value exceeds threshold is silver;
// otherwise it is gold when its gold value does. Statuses without an
// incumbent yield two empty lists.
func Extract(vs VariableSet, sol *milp.Solution, threshold float64) (silver, gold []model.Cell) {
	silver, gold = []model.Cell{}, []model.Cell{}
	if sol == nil || !sol.Status.HasIncumbent() {
		return silver, gold
	}
	for _, c := range vs.Grid.Cells() {
		if sol.Value(vs.SilverOf(c)) > threshold {
			silver = append(silver, c)
		} else if sol.Value(vs.GoldOf(c)) > threshold {
			gold = append(gold, c)
		}
	}
	return silver, gold
}
