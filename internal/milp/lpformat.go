package milp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// termsPerLine keeps long objective rows well under the 510 character LP
// line limit.
const termsPerLine = 8

// FormatLP renders p in CPLEX LP format.
func FormatLP(p *Problem) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("\\ Problem: %s\n", p.name))
	b.WriteString(fmt.Sprintf("\\ Variables: %d, Constraints: %d\n", len(p.vars), len(p.constraints)))

	b.WriteString(p.objective.Sense.String() + "\n")
	b.WriteString(" obj:")
	writeTerms(&b, p, p.objective.Terms)
	if c := p.objective.Constant; c != 0 {
		b.WriteString(" " + signed(c))
	}
	b.WriteString("\n")

	b.WriteString("Subject To\n")
	for _, c := range p.constraints {
		b.WriteString(fmt.Sprintf(" %s:", c.Name))
		writeTerms(&b, p, c.Terms)
		b.WriteString(fmt.Sprintf(" %s %s\n", c.Rel, formatNumber(c.RHS)))
	}

	if len(p.vars) > 0 {
		b.WriteString("Binaries\n")
		for _, v := range p.vars {
			b.WriteString(" " + v.Name + "\n")
		}
	}
	b.WriteString("End\n")
	return b.String()
}

// WriteLPFile writes p to path in CPLEX LP format.
func WriteLPFile(path string, p *Problem) error {
	return os.WriteFile(path, []byte(FormatLP(p)), 0644)
}

func writeTerms(b *strings.Builder, p *Problem, terms []Term) {
	if len(terms) == 0 {
		// LP rows need at least one variable reference.
		if len(p.vars) > 0 {
			b.WriteString(" 0 " + p.vars[0].Name)
		}
		return
	}
	for i, t := range terms {
		if i > 0 && i%termsPerLine == 0 {
			b.WriteString("\n  ")
		}
		name := p.vars[t.Var].Name
		switch {
		case i == 0 && t.Coef == 1:
			b.WriteString(" " + name)
		case i == 0 && t.Coef == -1:
			b.WriteString(" - " + name)
		case i == 0:
			b.WriteString(" " + formatNumber(t.Coef) + " " + name)
		case t.Coef == 1:
			b.WriteString(" + " + name)
		case t.Coef == -1:
			b.WriteString(" - " + name)
		default:
			b.WriteString(" " + signed(t.Coef) + " " + name)
		}
	}
}

// signed formats v with an explicit, space separated sign: "+ 8", "- 8".
func signed(v float64) string {
	if v < 0 {
		return "- " + formatNumber(-v)
	}
	return "+ " + formatNumber(v)
}

func formatNumber(v float64) string {
	if v == 0 {
		v = 0 // fold -0
	}
	return strconv.FormatFloat(v, 'g', 12, 64)
}
