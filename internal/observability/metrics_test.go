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

package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transition-lab/pathway-optimizer/pkg/core"
)

func TestObserveRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ObserveRun("ramp", core.RunSucceeded, 250*time.Millisecond, 3200)
	c.ObserveRun("broken", core.RunFailed, 10*time.Millisecond, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ScenarioRuns.WithLabelValues(string(core.RunSucceeded))))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ScenarioRuns.WithLabelValues(string(core.RunFailed))))
	assert.Equal(t, 3200.0, testutil.ToFloat64(c.Objective.WithLabelValues("ramp")))

	// A failed run must not publish an objective value.
	assert.Equal(t, 1, testutil.CollectAndCount(c.Objective, "pathway_objective_value"))
}

func TestNewCollectorIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	// Re-registration hands back the existing collectors.
	assert.Same(t, first.ScenarioRuns, second.ScenarioRuns)
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	c.ObserveRun("ramp", core.RunSucceeded, time.Second, 100)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pathway_scenario_runs_total")
	assert.Contains(t, rec.Body.String(), "pathway_objective_value")
}
