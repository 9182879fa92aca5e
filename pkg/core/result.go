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

package core

import "sort"

// RunStatus is the run-level outcome of one scenario request.
type RunStatus string

const (
	// RunSucceeded means the scenario was solved to optimality and decoded.
	RunSucceeded RunStatus = "Succeeded"

	// RunFailed means model construction, solving, or decoding failed for
	// the scenario. The batch continues with the remaining scenarios.
	RunFailed RunStatus = "Failed"
)

// PathwayRow is the decoded decision for one (scenario, facility, year):
// the adopted technology and its cost breakdown. Rows are never mutated
// after creation.
type PathwayRow struct {
	Scenario string
	Facility string
	Year     int
	Tech     string

	// AbatementCost is capacity × mac(tech, year).
	AbatementCost float64

	// CarbonCost is capacity × intensity(tech, year) × price(scenario, year).
	CarbonCost float64

	// TotalCost is AbatementCost + CarbonCost, undiscounted.
	TotalCost float64

	// Emissions is capacity × intensity(tech, year).
	Emissions float64
}

// YearEmission is one point of a scenario's aggregate emission path.
type YearEmission struct {
	Year  int
	Total float64
}

// EmissionPath aggregates pathway rows into total portfolio emissions per
// year, in ascending year order.
func EmissionPath(rows []PathwayRow) []YearEmission {
	totals := make(map[int]float64)
	for _, r := range rows {
		totals[r.Year] += r.Emissions
	}
	years := make([]int, 0, len(totals))
	for y := range totals {
		years = append(years, y)
	}
	sort.Ints(years)
	path := make([]YearEmission, len(years))
	for i, y := range years {
		path[i] = YearEmission{Year: y, Total: totals[y]}
	}
	return path
}

// ScenarioResult is the outcome of one scenario run. On failure Rows is nil
// and Err carries the scenario-scoped error; other scenarios in the batch
// are unaffected.
type ScenarioResult struct {
	Scenario string
	Horizon  Horizon
	Status   RunStatus

	// Objective is the solver's optimal objective value (NPV when a
	// discount rate is configured). Zero when the run failed.
	Objective float64

	Rows []PathwayRow
	Err  error
}

// BatchResult collects the results of all requested scenario runs, in
// request order.
type BatchResult struct {
	Results []ScenarioResult
}

// Failed returns the scenarios whose runs did not succeed.
func (b *BatchResult) Failed() []ScenarioResult {
	var failed []ScenarioResult
	for _, r := range b.Results {
		if r.Status != RunSucceeded {
			failed = append(failed, r)
		}
	}
	return failed
}

// MergedRows returns all pathway rows of the batch in a single table keyed
// and ordered by (scenario, facility, year).
func (b *BatchResult) MergedRows() []PathwayRow {
	var rows []PathwayRow
	for _, r := range b.Results {
		rows = append(rows, r.Rows...)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Scenario != rows[j].Scenario {
			return rows[i].Scenario < rows[j].Scenario
		}
		if rows[i].Facility != rows[j].Facility {
			return rows[i].Facility < rows[j].Facility
		}
		return rows[i].Year < rows[j].Year
	})
	return rows
}
