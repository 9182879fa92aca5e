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

// Package decoder converts a solved variable assignment back into the
// per-facility, per-year pathway: the adopted technology and its cost and
// emission breakdown, computed with the same formulas as the objective.
package decoder

import (
	"fmt"

	"github.com/transition-lab/pathway-optimizer/internal/builder"
	"github.com/transition-lab/pathway-optimizer/internal/catalog"
	"github.com/transition-lab/pathway-optimizer/pkg/core"
	"github.com/transition-lab/pathway-optimizer/pkg/solver"
)

// adoptionThreshold separates adopted from rejected binary indicators in
// floating-point solver output.
const adoptionThreshold = 0.5

// InconsistencyError reports a facility-year whose assignment has zero or
// more than one adopted technology. This is always a bug (solver tolerance
// or constraint construction) and must abort the scenario run rather than
// be resolved by picking a technology arbitrarily.
type InconsistencyError struct {
	Facility string
	Year     int
	Adopted  int
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("decoding inconsistency: facility %q, year %d: %d technologies adopted, want exactly 1",
		e.Facility, e.Year, e.Adopted)
}

// Decode extracts the pathway rows for one solved scenario. For each active
// facility-year it identifies the unique adopted technology and computes
// abatement cost, carbon cost, total cost, and emissions, all undiscounted.
func Decode(
	cat *catalog.Catalog,
	ix *builder.Index,
	sol *solver.Solution,
	scenario string,
) ([]core.PathwayRow, error) {
	rows := make([]core.PathwayRow, 0, len(ix.FacilityYears()))

	for _, fy := range ix.FacilityYears() {
		adopted := ""
		count := 0
		for _, tv := range ix.Vars(fy.Facility, fy.Year) {
			if sol.Value(tv.Var) > adoptionThreshold {
				adopted = tv.Tech
				count++
			}
		}
		if count != 1 {
			return nil, &InconsistencyError{Facility: fy.Facility, Year: fy.Year, Adopted: count}
		}

		row, err := costRow(cat, scenario, fy.Facility, fy.Year, adopted)
		if err != nil {
			return nil, fmt.Errorf("decoding scenario %q: %w", scenario, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func costRow(cat *catalog.Catalog, scenario, facility string, year int, tech string) (core.PathwayRow, error) {
	f, err := cat.Facility(facility)
	if err != nil {
		return core.PathwayRow{}, err
	}
	mac, err := cat.MAC(tech, year)
	if err != nil {
		return core.PathwayRow{}, err
	}
	intensity, err := cat.Intensity(tech, year)
	if err != nil {
		return core.PathwayRow{}, err
	}
	price, err := cat.Price(scenario, year)
	if err != nil {
		return core.PathwayRow{}, err
	}

	abatement := f.Capacity * mac
	carbon := f.Capacity * intensity * price
	return core.PathwayRow{
		Scenario:      scenario,
		Facility:      facility,
		Year:          year,
		Tech:          tech,
		AbatementCost: abatement,
		CarbonCost:    carbon,
		TotalCost:     abatement + carbon,
		Emissions:     f.Capacity * intensity,
	}, nil
}
