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

// Package builder assembles one mixed-integer program per (scenario,
// horizon) request: a binary adoption variable for every eligible
// (facility, technology, year) triple, a single-choice constraint per
// active facility-year, and an objective that jointly prices abatement
// investment and residual carbon liability.
//
// The asset-life lock-in is represented as an explicit eligibility window
// per facility-year rather than branching inside constraint assembly: years
// up to and including the facility's end-of-life year are locked to the
// as-built baseline technology, later years are free-choice windows over
// the replacement-eligible technologies available that year.
package builder

import (
	"fmt"
	"math"

	"github.com/transition-lab/pathway-optimizer/internal/catalog"
	"github.com/transition-lab/pathway-optimizer/pkg/core"
	"github.com/transition-lab/pathway-optimizer/pkg/solver"
)

// ConstructionError reports a (facility, year) that requires a technology
// choice but has zero eligible technologies. The model would be infeasible
// by construction, so it is rejected before the solver ever runs. The error
// is scenario-scoped.
type ConstructionError struct {
	Facility string
	Year     int
	Reason   string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("model construction: facility %q, year %d: %s", e.Facility, e.Year, e.Reason)
}

// WindowState tags a facility-year as locked to the baseline technology or
// open for a replacement choice.
type WindowState int

const (
	WindowLocked WindowState = iota
	WindowChoice
)

func (s WindowState) String() string {
	switch s {
	case WindowLocked:
		return "locked"
	case WindowChoice:
		return "choice"
	default:
		return fmt.Sprintf("WindowState(%d)", int(s))
	}
}

// Window is the eligibility set of one facility-year.
type Window struct {
	State    WindowState
	Eligible []string
}

// FacilityYear keys one active facility-year of the model.
type FacilityYear struct {
	Facility string
	Year     int
}

// TechVar pairs an eligible technology with its adoption variable.
type TechVar struct {
	Tech string
	Var  solver.VarID
}

// Index maps the model's variables back to (facility, technology, year)
// triples for the decoder. It is created fresh per build and never shared
// across runs.
type Index struct {
	keys []FacilityYear
	vars map[FacilityYear][]TechVar
}

// FacilityYears returns the active facility-years in deterministic build
// order (facility id ascending, year ascending).
func (ix *Index) FacilityYears() []FacilityYear {
	return ix.keys
}

// Vars returns the adoption variables of one facility-year.
func (ix *Index) Vars(facility string, year int) []TechVar {
	return ix.vars[FacilityYear{Facility: facility, Year: year}]
}

func (ix *Index) add(facility string, year int, tech string, v solver.VarID) {
	key := FacilityYear{Facility: facility, Year: year}
	if _, ok := ix.vars[key]; !ok {
		ix.keys = append(ix.keys, key)
	}
	ix.vars[key] = append(ix.vars[key], TechVar{Tech: tech, Var: v})
}

// Builder constructs pathway models against a shared read-only catalog.
type Builder struct {
	cat          *catalog.Catalog
	discountRate float64
}

// New creates a Builder. The discount rate applies to objective
// coefficients only (NPV objective); decoded per-year costs stay
// undiscounted.
func New(cat *catalog.Catalog, discountRate float64) (*Builder, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if discountRate < 0 {
		return nil, fmt.Errorf("discount rate must be non-negative, got %g", discountRate)
	}
	return &Builder{cat: cat, discountRate: discountRate}, nil
}

// Build assembles the model for one (scenario, horizon) request.
func (b *Builder) Build(scenario string, horizon core.Horizon) (*solver.Model, *Index, error) {
	if err := horizon.Validate(); err != nil {
		return nil, nil, fmt.Errorf("building model for scenario %q: %w", scenario, err)
	}

	m := solver.NewModel()
	ix := &Index{vars: make(map[FacilityYear][]TechVar)}

	for _, f := range b.cat.Facilities() {
		for year := horizon.Start; year <= horizon.End; year++ {
			if year < f.CommissionYear {
				// Not yet commissioned: contributes no variables.
				continue
			}
			w := b.window(f, year)
			if len(w.Eligible) == 0 {
				return nil, nil, &ConstructionError{
					Facility: f.ID,
					Year:     year,
					Reason:   "no eligible technology for mandatory post-retirement choice",
				}
			}

			vars := make([]solver.VarID, 0, len(w.Eligible))
			for _, tech := range w.Eligible {
				coeff, err := b.cost(f, tech, scenario, year, horizon.Start)
				if err != nil {
					return nil, nil, fmt.Errorf("building model for scenario %q: %w", scenario, err)
				}
				v := m.AddBinary(fmt.Sprintf("adopt/%s/%s/%d", f.ID, tech, year))
				m.AddObjectiveTerm(v, coeff)
				ix.add(f.ID, year, tech, v)
				vars = append(vars, v)
			}
			m.AddSumEquals(fmt.Sprintf("choice/%s/%d", f.ID, year), vars, 1)
		}
	}

	if m.NumVariables() == 0 {
		return nil, nil, fmt.Errorf("building model for scenario %q: no facility is active within horizon %s", scenario, horizon)
	}
	return m, ix, nil
}

// window computes the eligibility window of one facility-year. The
// end-of-life year is the last year the as-built technology may operate, so
// the lock covers years up to and including it.
func (b *Builder) window(f core.FacilityRow, year int) Window {
	if year <= f.EOLYear {
		return Window{State: WindowLocked, Eligible: []string{f.BaselineTech}}
	}
	return Window{State: WindowChoice, Eligible: b.cat.EligibleReplacements(year)}
}

// cost is the objective coefficient of one adoption variable:
// capacity × (mac + price × intensity), discounted to horizon start when a
// discount rate is configured.
func (b *Builder) cost(f core.FacilityRow, tech, scenario string, year, startYear int) (float64, error) {
	mac, err := b.cat.MAC(tech, year)
	if err != nil {
		return 0, fmt.Errorf("costing facility %q: %w", f.ID, err)
	}
	intensity, err := b.cat.Intensity(tech, year)
	if err != nil {
		return 0, fmt.Errorf("costing facility %q: %w", f.ID, err)
	}
	price, err := b.cat.Price(scenario, year)
	if err != nil {
		return 0, fmt.Errorf("costing facility %q: %w", f.ID, err)
	}
	discount := 1.0
	if b.discountRate != 0 {
		discount = 1.0 / math.Pow(1.0+b.discountRate, float64(year-startYear))
	}
	return f.Capacity * (mac + price*intensity) * discount, nil
}
