// Package milp describes 0-1 mixed-integer linear programs and hands them to
// solver backends. A Problem is assembled once through a Builder and is
// read-only afterwards, so a partially built model can never reach a solver.
package milp

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrSealed          = errors.New("milp: builder already produced its problem")
	ErrUnknownVariable = errors.New("milp: term references an undeclared variable")
	ErrDuplicateName   = errors.New("milp: duplicate name")
	ErrEmptyName       = errors.New("milp: names must be non-empty")
	ErrNoObjective     = errors.New("milp: objective not set")
)

// VarID identifies a declared variable. IDs are dense, starting at 0.
type VarID int

// Variable is a binary decision variable.
type Variable struct {
	Name string
}

// Term is coef * var.
type Term struct {
	Var  VarID
	Coef float64
}

// Expr is a linear expression: sum of terms plus a constant.
type Expr struct {
	Terms    []Term
	Constant float64
}

// V returns the expression 1*id.
func V(id VarID) Expr {
	return Expr{Terms: []Term{{Var: id, Coef: 1}}}
}

// Const returns a constant expression.
func Const(c float64) Expr {
	return Expr{Constant: c}
}

// Sum returns the unit-coefficient sum of ids. An empty sum is the constant 0.
func Sum(ids ...VarID) Expr {
	terms := make([]Term, len(ids))
	for i, id := range ids {
		terms[i] = Term{Var: id, Coef: 1}
	}
	return Expr{Terms: terms}
}

// Plus returns e + o.
func (e Expr) Plus(o Expr) Expr {
	terms := make([]Term, 0, len(e.Terms)+len(o.Terms))
	terms = append(terms, e.Terms...)
	terms = append(terms, o.Terms...)
	return Expr{Terms: terms, Constant: e.Constant + o.Constant}
}

// Minus returns e - o.
func (e Expr) Minus(o Expr) Expr {
	return e.Plus(o.Scale(-1))
}

// Scale returns f * e.
func (e Expr) Scale(f float64) Expr {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Var: t.Var, Coef: t.Coef * f}
	}
	return Expr{Terms: terms, Constant: e.Constant * f}
}

// Relation is the comparison operator of a constraint.
type Relation int

const (
	LessEq Relation = iota
	GreaterEq
	Equal
)

func (r Relation) String() string {
	switch r {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "="
	}
}

// Holds reports whether activity rel rhs is satisfied within tol.
func (r Relation) Holds(activity, rhs, tol float64) bool {
	switch r {
	case LessEq:
		return activity <= rhs+tol
	case GreaterEq:
		return activity >= rhs-tol
	default:
		return activity >= rhs-tol && activity <= rhs+tol
	}
}

// Constraint is a normalized linear constraint: sum(Terms) Rel RHS.
// Terms are sorted by variable, merged and free of zero coefficients.
type Constraint struct {
	Name  string
	Terms []Term
	Rel   Relation
	RHS   float64
}

// Sense is the optimization direction.
type Sense int

const (
	Maximize Sense = iota
	Minimize
)

func (s Sense) String() string {
	if s == Minimize {
		return "Minimize"
	}
	return "Maximize"
}

// Objective is a linear objective with its direction.
type Objective struct {
	Sense    Sense
	Terms    []Term
	Constant float64
}

// Problem is an immutable 0-1 linear program.
type Problem struct {
	name        string
	vars        []Variable
	constraints []Constraint
	objective   Objective
	byName      map[string]VarID
}

func (p *Problem) Name() string { return p.name }

// NumVars returns the number of declared variables.
func (p *Problem) NumVars() int { return len(p.vars) }

// NumConstraints returns the number of constraints.
func (p *Problem) NumConstraints() int { return len(p.constraints) }

// Variable returns the declaration of id.
func (p *Problem) Variable(id VarID) Variable { return p.vars[id] }

// Variables returns a copy of the variable declarations, indexed by VarID.
func (p *Problem) Variables() []Variable {
	out := make([]Variable, len(p.vars))
	copy(out, p.vars)
	return out
}

// Constraints returns a copy of the constraint list. The Terms slices are
// shared and must not be modified.
func (p *Problem) Constraints() []Constraint {
	out := make([]Constraint, len(p.constraints))
	copy(out, p.constraints)
	return out
}

// Objective returns the objective. Its Terms slice must not be modified.
func (p *Problem) Objective() Objective { return p.objective }

// Lookup finds a variable by name.
func (p *Problem) Lookup(name string) (VarID, bool) {
	id, ok := p.byName[name]
	return id, ok
}

// ObjectiveValue evaluates the objective at values.
func (p *Problem) ObjectiveValue(values []float64) float64 {
	return activity(p.objective.Terms, values) + p.objective.Constant
}

// Violated returns the names of constraints that values break by more than tol.
func (p *Problem) Violated(values []float64, tol float64) []string {
	var names []string
	for _, c := range p.constraints {
		if !c.Rel.Holds(activity(c.Terms, values), c.RHS, tol) {
			names = append(names, c.Name)
		}
	}
	return names
}

func activity(terms []Term, values []float64) float64 {
	var sum float64
	for _, t := range terms {
		sum += t.Coef * values[t.Var]
	}
	return sum
}

// Builder assembles a Problem. After Build it refuses further changes.
type Builder struct {
	p         *Problem
	consNames map[string]struct{}
	hasObj    bool
	sealed    bool
}

// NewBuilder starts an empty problem called name.
func NewBuilder(name string) *Builder {
	return &Builder{
		p: &Problem{
			name:   name,
			byName: make(map[string]VarID),
		},
		consNames: make(map[string]struct{}),
	}
}

// AddBinary declares a binary variable.
func (b *Builder) AddBinary(name string) (VarID, error) {
	if b.sealed {
		return -1, ErrSealed
	}
	if name == "" {
		return -1, ErrEmptyName
	}
	if _, dup := b.p.byName[name]; dup {
		return -1, fmt.Errorf("%w: variable %q", ErrDuplicateName, name)
	}
	id := VarID(len(b.p.vars))
	b.p.vars = append(b.p.vars, Variable{Name: name})
	b.p.byName[name] = id
	return id, nil
}

// Constrain adds the constraint lhs rel rhs. Both sides may contain variables
// and constants; they are moved into the normalized form sum(terms) rel const.
func (b *Builder) Constrain(name string, lhs Expr, rel Relation, rhs Expr) error {
	if b.sealed {
		return ErrSealed
	}
	if name == "" {
		return ErrEmptyName
	}
	if _, dup := b.consNames[name]; dup {
		return fmt.Errorf("%w: constraint %q", ErrDuplicateName, name)
	}
	diff := lhs.Minus(rhs)
	terms, err := b.normalize(diff.Terms)
	if err != nil {
		return fmt.Errorf("constraint %q: %w", name, err)
	}
	b.p.constraints = append(b.p.constraints, Constraint{
		Name:  name,
		Terms: terms,
		Rel:   rel,
		RHS:   -diff.Constant,
	})
	b.consNames[name] = struct{}{}
	return nil
}

// SetObjective sets the objective, replacing any previous one.
func (b *Builder) SetObjective(sense Sense, e Expr) error {
	if b.sealed {
		return ErrSealed
	}
	terms, err := b.normalize(e.Terms)
	if err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	b.p.objective = Objective{Sense: sense, Terms: terms, Constant: e.Constant}
	b.hasObj = true
	return nil
}

// Build seals the builder and returns the finished problem.
func (b *Builder) Build() (*Problem, error) {
	if b.sealed {
		return nil, ErrSealed
	}
	if !b.hasObj {
		return nil, ErrNoObjective
	}
	b.sealed = true
	return b.p, nil
}

// normalize merges duplicate variables, drops zero coefficients and sorts by
// variable id so that output is deterministic.
func (b *Builder) normalize(terms []Term) ([]Term, error) {
	merged := make(map[VarID]float64, len(terms))
	for _, t := range terms {
		if t.Var < 0 || int(t.Var) >= len(b.p.vars) {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownVariable, t.Var)
		}
		merged[t.Var] += t.Coef
	}
	out := make([]Term, 0, len(merged))
	for id, coef := range merged {
		if coef != 0 {
			out = append(out, Term{Var: id, Coef: coef})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Var < out[j].Var })
	return out, nil
}
