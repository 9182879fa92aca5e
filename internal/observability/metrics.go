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

// Package observability bundles the Prometheus metrics emitted by the run
// orchestrator and provides an HTTP handler to expose them during long
// batches.
package observability

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/transition-lab/pathway-optimizer/pkg/core"
)

// Collector bundles the batch-level Prometheus metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	ScenarioRuns  *prometheus.CounterVec
	SolveDuration *prometheus.HistogramVec
	Objective     *prometheus.GaugeVec
}

// NewCollector registers the batch metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pathway_scenario_runs_total",
		Help: "Total number of scenario runs, labeled by run status.",
	}, []string{"status"})
	runs, err := registerCounterVec(reg, runs)
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pathway_solve_duration_seconds",
		Help:    "End-to-end build+solve+decode latency per scenario in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"scenario"})
	durations, err = registerHistogramVec(reg, durations)
	if err != nil {
		return nil, err
	}

	objective := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pathway_objective_value",
		Help: "Optimal objective value of the last successful run per scenario.",
	}, []string{"scenario"})
	objective, err = registerGaugeVec(reg, objective)
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		ScenarioRuns:  runs,
		SolveDuration: durations,
		Objective:     objective,
	}, nil
}

// ObserveRun records the outcome of one scenario run.
func (c *Collector) ObserveRun(scenario string, status core.RunStatus, elapsed time.Duration, objective float64) {
	c.ScenarioRuns.WithLabelValues(string(status)).Inc()
	c.SolveDuration.WithLabelValues(scenario).Observe(elapsed.Seconds())
	if status == core.RunSucceeded {
		c.Objective.WithLabelValues(scenario).Set(objective)
	}
}

// Handler returns an HTTP handler serving the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, cv *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return cv, nil
}

func registerHistogramVec(reg prometheus.Registerer, hv *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	if err := reg.Register(hv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.HistogramVec), nil
		}
		return nil, err
	}
	return hv, nil
}

func registerGaugeVec(reg prometheus.Registerer, gv *prometheus.GaugeVec) (*prometheus.GaugeVec, error) {
	if err := reg.Register(gv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.GaugeVec), nil
		}
		return nil, err
	}
	return gv, nil
}
