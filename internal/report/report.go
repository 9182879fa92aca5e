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

// Package report serializes batch results into the output tables consumed
// by downstream reporting: the merged pathway table, one aggregate emission
// path per scenario, and a run summary with per-scenario status.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/transition-lab/pathway-optimizer/pkg/core"
)

const (
	PathwayFileName = "pathway_results.csv"
	SummaryFileName = "run_summary.csv"
)

// EmissionPathFileName is the per-scenario emission path file.
func EmissionPathFileName(scenario string) string {
	return fmt.Sprintf("emission_path_%s.csv", scenario)
}

// WritePathwayTable writes the merged pathway rows keyed by
// (scenario, facility, year).
func WritePathwayTable(w io.Writer, rows []core.PathwayRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scenario", "facility", "year", "tech", "abatement_cost", "carbon_cost", "total_cost", "emissions"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Scenario,
			r.Facility,
			strconv.Itoa(r.Year),
			r.Tech,
			formatFloat(r.AbatementCost),
			formatFloat(r.CarbonCost),
			formatFloat(r.TotalCost),
			formatFloat(r.Emissions),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEmissionPath writes one scenario's aggregate emission path.
func WriteEmissionPath(w io.Writer, path []core.YearEmission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "total_emissions"}); err != nil {
		return err
	}
	for _, p := range path {
		if err := cw.Write([]string{strconv.Itoa(p.Year), formatFloat(p.Total)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the run-level status table: one row per scenario with
// its status, objective value, and error detail for failed runs.
func WriteSummary(w io.Writer, results []core.ScenarioResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scenario", "horizon", "status", "objective_value", "error"}); err != nil {
		return err
	}
	for _, r := range results {
		detail := ""
		if r.Err != nil {
			detail = r.Err.Error()
		}
		objective := ""
		if r.Status == core.RunSucceeded {
			objective = formatFloat(r.Objective)
		}
		rec := []string{r.Scenario, r.Horizon.String(), string(r.Status), objective, detail}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAll writes the full result set into dir, creating it if needed.
// Emission paths are written only for succeeded scenarios.
func WriteAll(dir string, batch *core.BatchResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := writeFile(filepath.Join(dir, PathwayFileName), func(w io.Writer) error {
		return WritePathwayTable(w, batch.MergedRows())
	}); err != nil {
		return err
	}

	for _, res := range batch.Results {
		if res.Status != core.RunSucceeded {
			continue
		}
		path := core.EmissionPath(res.Rows)
		if err := writeFile(filepath.Join(dir, EmissionPathFileName(res.Scenario)), func(w io.Writer) error {
			return WriteEmissionPath(w, path)
		}); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(dir, SummaryFileName), func(w io.Writer) error {
		return WriteSummary(w, batch.Results)
	})
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
