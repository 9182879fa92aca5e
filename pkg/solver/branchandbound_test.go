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
	"math"
	"testing"
)

func mustSolver(t *testing.T, cfg *BranchAndBoundConfig) *BranchAndBound {
	t.Helper()
	s, err := NewBranchAndBound(cfg)
	if err != nil {
		t.Fatalf("NewBranchAndBound() error = %v", err)
	}
	return s
}

func TestNewBranchAndBound(t *testing.T) {
	tests := []struct {
		name    string
		config  *BranchAndBoundConfig
		wantErr bool
	}{
		{name: "nil config uses defaults", config: nil},
		{name: "explicit config", config: &BranchAndBoundConfig{IntTol: 1e-5, MaxNodes: 10}},
		{name: "tolerance too large", config: &BranchAndBoundConfig{IntTol: 0.5}, wantErr: true},
		{name: "negative tolerance", config: &BranchAndBoundConfig{IntTol: -1e-6}, wantErr: true},
		{name: "negative node limit", config: &BranchAndBoundConfig{MaxNodes: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBranchAndBound(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBranchAndBound() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSolveBinaryChoice(t *testing.T) {
	m := NewModel()
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.AddObjectiveTerm(x, 3)
	m.AddObjectiveTerm(y, 5)
	m.AddSumEquals("pick_one", []VarID{x, y}, 1)

	sol, err := mustSolver(t, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Status != StatusOptimal {
		t.Errorf("status = %s, want %s", sol.Status, StatusOptimal)
	}
	if math.Abs(sol.Objective-3) > 1e-9 {
		t.Errorf("objective = %g, want 3", sol.Objective)
	}
	if sol.Value(x) != 1 || sol.Value(y) != 0 {
		t.Errorf("assignment = (%g, %g), want (1, 0)", sol.Value(x), sol.Value(y))
	}
}

// A model whose LP relaxation is fractional, forcing actual branching:
// maximize x+y subject to 2x+2y <= 3 over binaries. The relaxation sits at
// (0.75, 0.75); the integer optimum picks exactly one variable.
func fractionalModel() *Model {
	m := NewModel()
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.AddObjectiveTerm(x, -1)
	m.AddObjectiveTerm(y, -1)
	m.AddConstraint("budget", []Term{{Var: x, Coeff: 2}, {Var: y, Coeff: 2}}, LessEq, 3)
	return m
}

func TestSolveRequiresBranching(t *testing.T) {
	m := fractionalModel()
	sol, err := mustSolver(t, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if math.Abs(sol.Objective-(-1)) > 1e-9 {
		t.Errorf("objective = %g, want -1", sol.Objective)
	}
	sum := sol.Values[0] + sol.Values[1]
	if sum != 1 {
		t.Errorf("x+y = %g, want exactly one variable selected", sum)
	}
}

func TestSolveGreaterEq(t *testing.T) {
	m := NewModel()
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.AddObjectiveTerm(x, 1)
	m.AddObjectiveTerm(y, 2)
	m.AddConstraint("cover", []Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, GreaterEq, 1)

	sol, err := mustSolver(t, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if math.Abs(sol.Objective-1) > 1e-9 {
		t.Errorf("objective = %g, want 1", sol.Objective)
	}
}

func TestSolveNegativeRHS(t *testing.T) {
	m := NewModel()
	x := m.AddBinary("x")
	m.AddObjectiveTerm(x, 1)
	m.AddConstraint("negated", []Term{{Var: x, Coeff: -1}}, Equal, -1)

	sol, err := mustSolver(t, nil).Solve(context.Background(), m)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Value(x) != 1 {
		t.Errorf("x = %g, want 1", sol.Value(x))
	}
}

func TestSolveInfeasible(t *testing.T) {
	m := NewModel()
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.AddSumEquals("one", []VarID{x, y}, 1)
	m.AddSumEquals("two", []VarID{x, y}, 2)
	m.AddObjectiveTerm(x, 1)

	_, err := mustSolver(t, nil).Solve(context.Background(), m)
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Solve() error = %v, want *StatusError", err)
	}
	if serr.Status != StatusInfeasible {
		t.Errorf("status = %s, want %s", serr.Status, StatusInfeasible)
	}
}

func TestSolveNodeLimit(t *testing.T) {
	m := fractionalModel()
	_, err := mustSolver(t, &BranchAndBoundConfig{MaxNodes: 1}).Solve(context.Background(), m)
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Solve() error = %v, want *StatusError", err)
	}
	if serr.Status != StatusLimitReached {
		t.Errorf("status = %s, want %s", serr.Status, StatusLimitReached)
	}
}

func TestSolveCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mustSolver(t, nil).Solve(ctx, fractionalModel())
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("Solve() error = %v, want *StatusError", err)
	}
	if serr.Status != StatusCanceled {
		t.Errorf("status = %s, want %s", serr.Status, StatusCanceled)
	}
}

func TestSolveInvalidModel(t *testing.T) {
	m := NewModel() // no variables
	_, err := mustSolver(t, nil).Solve(context.Background(), m)
	if err == nil {
		t.Fatal("Solve() expected error for empty model")
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		t.Errorf("invalid model should not surface as *StatusError, got %v", serr)
	}
}

func TestModelValidate(t *testing.T) {
	tests := []struct {
		name    string
		build   func() *Model
		wantErr bool
	}{
		{
			name: "valid",
			build: func() *Model {
				m := NewModel()
				v := m.AddBinary("x")
				m.AddSumEquals("c", []VarID{v}, 1)
				return m
			},
		},
		{
			name:    "no variables",
			build:   NewModel,
			wantErr: true,
		},
		{
			name: "unknown variable in constraint",
			build: func() *Model {
				m := NewModel()
				m.AddBinary("x")
				m.AddConstraint("bad", []Term{{Var: 7, Coeff: 1}}, Equal, 1)
				return m
			},
			wantErr: true,
		},
		{
			name: "empty constraint",
			build: func() *Model {
				m := NewModel()
				m.AddBinary("x")
				m.AddConstraint("empty", nil, Equal, 1)
				return m
			},
			wantErr: true,
		},
		{
			name: "crossed bounds",
			build: func() *Model {
				m := NewModel()
				m.AddVariable("x", 2, 1, false)
				return m
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
