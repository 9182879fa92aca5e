/*
Copyright 2026 The Pathway Optimizer Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package solver

import (
	"fmt"
	"math"
)

// VarID identifies a decision variable within a Model.
type VarID int

// Term is one coefficient×variable entry of a linear expression.
type Term struct {
	Var   VarID
	Coeff float64
}

// Sense is the comparison sense of a linear constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "=="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Constraint is a named linear constraint: sum(terms) sense rhs.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is a minimization problem over named variables. Models are built
// once, handed to a Solver, and discarded after decoding; they are not safe
// for concurrent mutation.
type Model struct {
	names   []string
	obj     []float64
	lb      []float64
	ub      []float64
	integer []bool

	constraints []Constraint
}

// NewModel returns an empty minimization model.
func NewModel() *Model {
	return &Model{}
}

// AddVariable adds a variable with the given bounds. An integer variable is
// required to take an integral value within its bounds.
func (m *Model) AddVariable(name string, lb, ub float64, integer bool) VarID {
	m.names = append(m.names, name)
	m.obj = append(m.obj, 0)
	m.lb = append(m.lb, lb)
	m.ub = append(m.ub, ub)
	m.integer = append(m.integer, integer)
	return VarID(len(m.names) - 1)
}

// AddBinary adds a {0,1} variable.
func (m *Model) AddBinary(name string) VarID {
	return m.AddVariable(name, 0, 1, true)
}

// AddObjectiveTerm adds coeff×v to the minimization objective. Repeated
// calls for the same variable accumulate.
func (m *Model) AddObjectiveTerm(v VarID, coeff float64) {
	m.obj[v] += coeff
}

// AddConstraint adds a linear constraint.
func (m *Model) AddConstraint(name string, terms []Term, sense Sense, rhs float64) {
	m.constraints = append(m.constraints, Constraint{Name: name, Terms: terms, Sense: sense, RHS: rhs})
}

// AddSumEquals constrains the sum of vars to equal rhs.
func (m *Model) AddSumEquals(name string, vars []VarID, rhs float64) {
	terms := make([]Term, len(vars))
	for i, v := range vars {
		terms[i] = Term{Var: v, Coeff: 1}
	}
	m.AddConstraint(name, terms, Equal, rhs)
}

// NumVariables returns the number of decision variables.
func (m *Model) NumVariables() int { return len(m.names) }

// NumConstraints returns the number of constraints.
func (m *Model) NumConstraints() int { return len(m.constraints) }

// Name returns the name of a variable.
func (m *Model) Name(v VarID) string { return m.names[v] }

// ObjectiveCoeff returns the accumulated objective coefficient of a variable.
func (m *Model) ObjectiveCoeff(v VarID) float64 { return m.obj[v] }

// Bounds returns the lower and upper bound of a variable.
func (m *Model) Bounds(v VarID) (lb, ub float64) { return m.lb[v], m.ub[v] }

// Constraints returns the constraint set.
func (m *Model) Constraints() []Constraint { return m.constraints }

// Validate checks the model for structural defects before solving.
func (m *Model) Validate() error {
	if len(m.names) == 0 {
		return fmt.Errorf("model has no variables")
	}
	for i := range m.names {
		if m.lb[i] > m.ub[i] {
			return fmt.Errorf("variable %q has lower bound %g above upper bound %g", m.names[i], m.lb[i], m.ub[i])
		}
		if math.IsInf(m.lb[i], 0) || math.IsInf(m.ub[i], 0) {
			return fmt.Errorf("variable %q has an infinite bound", m.names[i])
		}
		if math.IsNaN(m.obj[i]) {
			return fmt.Errorf("variable %q has NaN objective coefficient", m.names[i])
		}
	}
	for _, c := range m.constraints {
		if len(c.Terms) == 0 {
			return fmt.Errorf("constraint %q has no terms", c.Name)
		}
		for _, t := range c.Terms {
			if int(t.Var) < 0 || int(t.Var) >= len(m.names) {
				return fmt.Errorf("constraint %q references unknown variable %d", c.Name, t.Var)
			}
			if math.IsNaN(t.Coeff) {
				return fmt.Errorf("constraint %q has NaN coefficient for variable %q", c.Name, m.names[t.Var])
			}
		}
	}
	return nil
}
