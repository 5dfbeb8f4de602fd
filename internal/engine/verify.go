package engine

import (
	"fmt"

	"github.com/piwi3910/goldsilver/internal/model"
)

// ViolationKind classifies a Violation.
type ViolationKind int

const (
	OutOfBounds    ViolationKind = iota // Cell lies outside the grid
	Duplicate                           // Cell listed twice in the same list
	BothColors                          // Cell is both silver and gold
	WrongNeighbors                      // Gold cell without exactly k silver neighbors
)

func (k ViolationKind) String() string {
	switch k {
	case OutOfBounds:
		return "out-of-bounds"
	case Duplicate:
		return "duplicate"
	case BothColors:
		return "both-colors"
	default:
		return "wrong-neighbor-count"
	}
}

// Violation describes one broken rule.
type Violation struct {
	Kind  ViolationKind
	Cell  model.Cell
	Count int // silver neighbor count, for WrongNeighbors
}

func (v Violation) String() string {
	if v.Kind == WrongNeighbors {
		return fmt.Sprintf("%s at %s: %d silver neighbors", v.Kind, v.Cell, v.Count)
	}
	return fmt.Sprintf("%s at %s", v.Kind, v.Cell)
}

// Verify checks a marking against the rules: all cells inside g, no cell
// listed twice or in both lists, and every gold cell with exactly k silver
// neighbors. It returns nil for a valid marking.
func Verify(g model.Grid, k int, silver, gold []model.Cell) []Violation {
	var out []Violation

	isSilver := make(map[model.Cell]bool, len(silver))
	for _, c := range silver {
		switch {
		case !g.InBounds(c):
			out = append(out, Violation{Kind: OutOfBounds, Cell: c})
		case isSilver[c]:
			out = append(out, Violation{Kind: Duplicate, Cell: c})
		default:
			isSilver[c] = true
		}
	}

	isGold := make(map[model.Cell]bool, len(gold))
	for _, c := range gold {
		switch {
		case !g.InBounds(c):
			out = append(out, Violation{Kind: OutOfBounds, Cell: c})
			continue
		case isGold[c]:
			out = append(out, Violation{Kind: Duplicate, Cell: c})
			continue
		case isSilver[c]:
			out = append(out, Violation{Kind: BothColors, Cell: c})
		}
		isGold[c] = true

		count := SilverNeighbors(g, c, isSilver)
		if count != k {
			out = append(out, Violation{Kind: WrongNeighbors, Cell: c, Count: count})
		}
	}
	return out
}

// SilverNeighbors counts the neighbors of c marked in isSilver.
func SilverNeighbors(g model.Grid, c model.Cell, isSilver map[model.Cell]bool) int {
	n := 0
	for _, nb := range g.Neighbors(c) {
		if isSilver[nb] {
			n++
		}
	}
	return n
}
