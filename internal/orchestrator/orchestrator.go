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

// Package orchestrator runs the Builder → Solver → Decoder pipeline once
// per requested (scenario, horizon) and collects the results into a unified
// batch.
//
// Scenario runs are isolated: a failure building, solving, or decoding one
// scenario is recorded in that scenario's result and does not abort the
// others. Runs share only the read-only catalog and may execute
// concurrently; each run operates on its own private model, solution, and
// index.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/transition-lab/pathway-optimizer/internal/builder"
	"github.com/transition-lab/pathway-optimizer/internal/catalog"
	"github.com/transition-lab/pathway-optimizer/internal/decoder"
	"github.com/transition-lab/pathway-optimizer/internal/logging"
	"github.com/transition-lab/pathway-optimizer/internal/observability"
	"github.com/transition-lab/pathway-optimizer/pkg/core"
	"github.com/transition-lab/pathway-optimizer/pkg/solver"
)

// Request is one (scenario, horizon) optimization to run.
type Request struct {
	Scenario string
	Horizon  core.Horizon
}

// Options configures an Orchestrator.
type Options struct {
	// DiscountRate is passed through to the model builder.
	DiscountRate float64

	// Workers caps concurrent scenario runs. Values below 1 run serially.
	Workers int

	// Metrics, when non-nil, receives per-run observations.
	Metrics *observability.Collector
}

// Orchestrator fans requests out over the pipeline.
type Orchestrator struct {
	cat     *catalog.Catalog
	builder *builder.Builder
	solver  solver.Solver
	opts    Options
}

// New creates an Orchestrator over a fully built catalog and a solver
// backend.
func New(cat *catalog.Catalog, s solver.Solver, opts Options) (*Orchestrator, error) {
	if s == nil {
		return nil, fmt.Errorf("solver cannot be nil")
	}
	b, err := builder.New(cat, opts.DiscountRate)
	if err != nil {
		return nil, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{cat: cat, builder: b, solver: s, opts: opts}, nil
}

// Run executes all requests and returns their results in request order.
// Scenario-scoped failures are recorded per result; Run itself only fails
// on an empty request list or a canceled context.
func (o *Orchestrator) Run(ctx context.Context, requests []Request) (*core.BatchResult, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("no scenario requests")
	}

	results := make([]core.ScenarioResult, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)

	for i, req := range requests {
		g.Go(func() error {
			results[i] = o.runOne(gctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}
	return &core.BatchResult{Results: results}, nil
}

// runOne executes one scenario request end to end. All failures are
// captured in the returned result.
func (o *Orchestrator) runOne(ctx context.Context, req Request) core.ScenarioResult {
	logger := logr.FromContextOrDiscard(ctx).WithValues(
		"scenario", req.Scenario, "horizon", req.Horizon.String())
	start := time.Now()

	result := core.ScenarioResult{Scenario: req.Scenario, Horizon: req.Horizon}

	rows, objective, err := o.pipeline(ctx, req, logger)
	elapsed := time.Since(start)
	if err != nil {
		result.Status = core.RunFailed
		result.Err = err
		logger.Error(err, "Scenario run failed", "elapsed", elapsed.String())
	} else {
		result.Status = core.RunSucceeded
		result.Objective = objective
		result.Rows = rows
		logger.Info("Scenario run completed",
			"rows", len(rows), "objective", objective, "elapsed", elapsed.String())
	}

	if o.opts.Metrics != nil {
		o.opts.Metrics.ObserveRun(req.Scenario, result.Status, elapsed, objective)
	}
	return result
}

func (o *Orchestrator) pipeline(ctx context.Context, req Request, logger logr.Logger) ([]core.PathwayRow, float64, error) {
	m, ix, err := o.builder.Build(req.Scenario, req.Horizon)
	if err != nil {
		return nil, 0, err
	}
	logger.V(logging.DEBUG).Info("Model built",
		"variables", m.NumVariables(), "constraints", m.NumConstraints())

	sol, err := o.solver.Solve(ctx, m)
	if err != nil {
		return nil, 0, fmt.Errorf("solving scenario %q: %w", req.Scenario, err)
	}
	logger.V(logging.DEBUG).Info("Model solved", "objective", sol.Objective)

	rows, err := decoder.Decode(o.cat, ix, sol, req.Scenario)
	if err != nil {
		return nil, 0, err
	}
	return rows, sol.Objective, nil
}
