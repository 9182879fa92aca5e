// Package solver implements the generic linear / mixed-integer programming
// capability behind the pathway optimization engine.
//
// Key components:
//
//   - Model: a minimization problem over named variables with linear
//     constraints and per-variable bounds and integrality
//   - Solver: the abstract solving interface the engine depends on
//   - BranchAndBound: the provided backend, branch-and-bound over the
//     simplex method from gonum
//
// The engine (builder and decoder) depends only on the Solver interface;
// swapping solver backends must not change their behavior.
//
// Example usage:
//
//	m := solver.NewModel()
//	x := m.AddBinary("x")
//	y := m.AddBinary("y")
//	m.AddObjectiveTerm(x, 3.0)
//	m.AddObjectiveTerm(y, 5.0)
//	m.AddConstraint("pick_one", []solver.Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, solver.Equal, 1)
//
//	s, err := solver.NewBranchAndBound(nil)
//	if err != nil {
//	    return err
//	}
//	sol, err := s.Solve(ctx, m)
//	if err != nil {
//	    return err // *StatusError for infeasible / limit / canceled
//	}
//	fmt.Println(sol.Objective, sol.Value(x))
//
// The backend is deterministic: the same model always produces the same
// solution. Non-optimal terminations (infeasible, unbounded, node limit,
// cancellation) are reported as *StatusError and never as a silently
// approximated assignment.
package solver
