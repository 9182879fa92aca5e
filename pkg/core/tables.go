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

import "fmt"

// FacilityRow is one row of the facility input table.
type FacilityRow struct {
	// ID uniquely identifies the facility.
	ID string

	// Capacity is the production volume per year. Must be non-negative.
	Capacity float64

	// CommissionYear is the first year the facility exists.
	CommissionYear int

	// EOLYear is the last year the facility may keep its as-built
	// technology without a mandatory replacement decision.
	EOLYear int

	// BaselineTech is the as-built technology the facility is locked to
	// until EOLYear.
	BaselineTech string
}

// TechCostRow is one row of the technology-cost input table. A technology is
// available in a year exactly when a cost row (and an emission row) exists
// for that year.
type TechCostRow struct {
	Tech string
	Year int

	// MAC is the marginal abatement cost per unit of production relative
	// to the reference baseline. May be negative (a technology that saves
	// money outright).
	MAC float64

	// Replacement marks whether the technology may be selected in a
	// post-retirement free-choice window. The flag is per technology and
	// must be consistent across all years of the same technology.
	Replacement bool
}

// TechEmissionRow is one row of the technology-emission input table.
type TechEmissionRow struct {
	Tech string
	Year int

	// Intensity is the mass of CO2-equivalent emitted per unit of
	// production. Must be non-negative.
	Intensity float64
}

// CarbonPriceRow is one row of the carbon-price input table.
type CarbonPriceRow struct {
	Scenario string
	Year     int

	// Price is the carbon price in currency per unit mass of
	// CO2-equivalent. Must be non-negative.
	Price float64
}

// Tables bundles the four parsed input tables handed to the catalog. The
// ingestion collaborator is responsible for producing structurally valid
// rows; semantic validation happens at catalog build time.
type Tables struct {
	Facilities    []FacilityRow
	TechCosts     []TechCostRow
	TechEmissions []TechEmissionRow
	CarbonPrices  []CarbonPriceRow
}

// Horizon is an inclusive range of years for one optimization request.
type Horizon struct {
	Start int
	End   int
}

// Validate checks that the horizon is well-formed.
func (h Horizon) Validate() error {
	if h.Start <= 0 || h.End <= 0 {
		return fmt.Errorf("horizon years must be positive, got [%d, %d]", h.Start, h.End)
	}
	if h.Start > h.End {
		return fmt.Errorf("horizon start %d is after horizon end %d", h.Start, h.End)
	}
	return nil
}

// Contains reports whether year falls inside the horizon.
func (h Horizon) Contains(year int) bool {
	return year >= h.Start && year <= h.End
}

// Years returns the horizon years in ascending order.
func (h Horizon) Years() []int {
	years := make([]int, 0, h.End-h.Start+1)
	for y := h.Start; y <= h.End; y++ {
		years = append(years, y)
	}
	return years
}

func (h Horizon) String() string {
	return fmt.Sprintf("%d-%d", h.Start, h.End)
}
