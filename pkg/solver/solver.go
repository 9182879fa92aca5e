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
	"fmt"
)

// Status is the terminal state of a solve attempt.
type Status string

const (
	StatusOptimal      Status = "Optimal"
	StatusInfeasible   Status = "Infeasible"
	StatusUnbounded    Status = "Unbounded"
	StatusLimitReached Status = "LimitReached"
	StatusCanceled     Status = "Canceled"
	StatusNumericError Status = "NumericError"
)

// Solution is an optimal variable assignment with its objective value.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Value returns the assigned value of a variable.
func (s *Solution) Value(v VarID) float64 { return s.Values[v] }

// StatusError reports a non-optimal solver termination: infeasibility, an
// exhausted node budget, cancellation, or a numerical failure. It is never
// produced for an optimal solve.
type StatusError struct {
	Status Status
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("solver finished with status %s", e.Status)
	}
	return fmt.Sprintf("solver finished with status %s: %s", e.Status, e.Detail)
}

// Solver is the abstract optimization capability. Solve returns an optimal
// solution, or a *StatusError describing why no optimal solution was
// produced. Implementations must be safe for concurrent use by independent
// solves.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
