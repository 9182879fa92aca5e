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
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// DefaultIntTol is the default integrality tolerance: a relaxation
	// value within this distance of an integer counts as integral.
	DefaultIntTol = 1e-6

	// DefaultMaxNodes is the default branch-and-bound node budget.
	DefaultMaxNodes = 100000

	// boundTol guards pruning against ties between a node's relaxation
	// bound and the incumbent objective.
	boundTol = 1e-9
)

// BranchAndBoundConfig holds configuration for the BranchAndBound solver.
type BranchAndBoundConfig struct {
	// IntTol is the integrality tolerance. Must be in (0, 0.5).
	IntTol float64

	// MaxNodes bounds the number of explored nodes. Exhausting the budget
	// surfaces as StatusLimitReached, never as an approximate answer.
	MaxNodes int
}

// BranchAndBound solves mixed-integer models by branch-and-bound over LP
// relaxations, using the simplex method for each relaxation. It is
// deterministic and safe for concurrent use by independent solves.
type BranchAndBound struct {
	config *BranchAndBoundConfig
}

// NewBranchAndBound creates a BranchAndBound solver. A nil config selects
// the defaults.
func NewBranchAndBound(config *BranchAndBoundConfig) (*BranchAndBound, error) {
	cfg := BranchAndBoundConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.IntTol == 0 {
		cfg.IntTol = DefaultIntTol
	}
	if cfg.IntTol < 0 || cfg.IntTol >= 0.5 {
		return nil, fmt.Errorf("integrality tolerance must be in (0, 0.5), got %g", cfg.IntTol)
	}
	if cfg.MaxNodes == 0 {
		cfg.MaxNodes = DefaultMaxNodes
	}
	if cfg.MaxNodes < 0 {
		return nil, fmt.Errorf("node limit must be positive, got %d", cfg.MaxNodes)
	}
	return &BranchAndBound{config: &cfg}, nil
}

// node is one branch-and-bound subproblem: the model with tightened
// variable bounds.
type node struct {
	lb []float64
	ub []float64
}

func (nd node) clone() node {
	return node{
		lb: append([]float64(nil), nd.lb...),
		ub: append([]float64(nil), nd.ub...),
	}
}

var (
	errRelaxInfeasible = errors.New("relaxation infeasible")
	errRelaxUnbounded  = errors.New("relaxation unbounded")
)

// Solve runs branch-and-bound on the model. It returns an optimal solution,
// or a *StatusError when the model is infeasible or unbounded, the node
// budget is exhausted, the context is canceled, or the simplex method fails
// numerically.
func (s *BranchAndBound) Solve(ctx context.Context, m *Model) (*Solution, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}

	root := node{
		lb: append([]float64(nil), m.lb...),
		ub: append([]float64(nil), m.ub...),
	}
	stack := []node{root}

	bestObj := math.Inf(1)
	var bestX []float64
	explored := 0

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, &StatusError{Status: StatusCanceled, Detail: err.Error()}
		}
		explored++
		if explored > s.config.MaxNodes {
			return nil, &StatusError{
				Status: StatusLimitReached,
				Detail: fmt.Sprintf("node budget %d exhausted", s.config.MaxNodes),
			}
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj, x, err := s.solveRelaxation(m, nd)
		switch {
		case errors.Is(err, errRelaxInfeasible):
			continue
		case errors.Is(err, errRelaxUnbounded):
			return nil, &StatusError{Status: StatusUnbounded}
		case err != nil:
			return nil, &StatusError{Status: StatusNumericError, Detail: err.Error()}
		}

		// Bound: the relaxation cannot beat the incumbent.
		if obj >= bestObj-boundTol {
			continue
		}

		branch := mostFractional(m, x, s.config.IntTol)
		if branch < 0 {
			bestObj = obj
			bestX = x
			continue
		}

		v := x[branch]
		down := nd.clone()
		down.ub[branch] = math.Floor(v)
		up := nd.clone()
		up.lb[branch] = math.Ceil(v)
		stack = append(stack, down, up)
	}

	if bestX == nil {
		return nil, &StatusError{Status: StatusInfeasible}
	}
	for i := range bestX {
		if m.integer[i] {
			bestX[i] = math.Round(bestX[i])
		}
	}
	return &Solution{Status: StatusOptimal, Objective: bestObj, Values: bestX}, nil
}

// solveRelaxation solves the LP relaxation of the model under the node's
// bounds. The model is brought into standard form (min cᵀy, Ay=b, y≥0) by
// shifting each variable by its lower bound and adding one slack per
// inequality and per upper bound.
func (s *BranchAndBound) solveRelaxation(m *Model, nd node) (float64, []float64, error) {
	n := m.NumVariables()
	for i := 0; i < n; i++ {
		if nd.lb[i] > nd.ub[i] {
			return 0, nil, errRelaxInfeasible
		}
	}

	cons := m.constraints
	nSlack := n // one per upper-bound row
	for _, c := range cons {
		if c.Sense != Equal {
			nSlack++
		}
	}
	rows := len(cons) + n
	cols := n + nSlack

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)

	// Objective over shifted variables; the constant part is added back
	// after the solve.
	offset := 0.0
	for i := 0; i < n; i++ {
		c[i] = m.obj[i]
		offset += m.obj[i] * nd.lb[i]
	}

	slack := n
	for r, con := range cons {
		rhs := con.RHS
		sign := 1.0
		if con.Sense == GreaterEq {
			sign = -1 // a·y >= rhs becomes -a·y <= -rhs
		}
		for _, t := range con.Terms {
			j := int(t.Var)
			a.Set(r, j, a.At(r, j)+sign*t.Coeff)
			rhs -= t.Coeff * nd.lb[t.Var]
		}
		rhs *= sign
		if con.Sense != Equal {
			a.Set(r, slack, 1)
			slack++
		}
		b[r] = rhs
	}
	for i := 0; i < n; i++ {
		r := len(cons) + i
		a.Set(r, i, 1)
		a.Set(r, slack, 1)
		slack++
		b[r] = nd.ub[i] - nd.lb[i]
	}

	// Keep the right-hand side non-negative; negating an equality row
	// leaves its feasible set unchanged.
	for r := 0; r < rows; r++ {
		if b[r] < 0 {
			for j := 0; j < cols; j++ {
				if v := a.At(r, j); v != 0 {
					a.Set(r, j, -v)
				}
			}
			b[r] = -b[r]
		}
	}

	optF, optY, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return 0, nil, errRelaxInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return 0, nil, errRelaxUnbounded
		default:
			return 0, nil, fmt.Errorf("simplex: %w", err)
		}
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = optY[i] + nd.lb[i]
	}
	return optF + offset, x, nil
}

// mostFractional returns the integer variable whose relaxation value is
// farthest from integral, or -1 if the assignment is integral within tol.
func mostFractional(m *Model, x []float64, tol float64) int {
	best := -1
	bestFrac := tol
	for i, v := range x {
		if !m.integer[i] {
			continue
		}
		frac := math.Abs(v - math.Round(v))
		if frac > bestFrac {
			best = i
			bestFrac = frac
		}
	}
	return best
}
