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

// Package catalog builds the immutable reference lookup structures the
// model builder and decoder query: facility records, technology cost and
// emission records indexed by (technology, year), and carbon prices indexed
// by (scenario, year).
//
// A Catalog is built once per batch and is read-only afterwards, so it may
// be shared freely across concurrent scenario runs.
package catalog

import (
	"fmt"
	"sort"

	"github.com/transition-lab/pathway-optimizer/pkg/core"
)

// IntegrityError reports a missing or invalid catalog entry. Catalog errors
// are fatal for the whole batch: no scenario can run against unsound
// reference data.
type IntegrityError struct {
	Table  string
	Key    string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity: table %q, key %q: %s", e.Table, e.Key, e.Reason)
}

type techYear struct {
	tech string
	year int
}

type scenarioYear struct {
	scenario string
	year     int
}

// Catalog holds O(1) lookup structures over the validated input tables.
type Catalog struct {
	facilities  map[string]core.FacilityRow
	facilityIDs []string

	mac         map[techYear]float64
	intensity   map[techYear]float64
	replacement map[string]bool
	techIDs     []string

	price map[scenarioYear]float64
}

// Build validates the input tables and constructs the catalog. It fails
// with an *IntegrityError on duplicate keys, negative capacities, prices,
// or intensities, a commissioning year after the end-of-life year, an
// unknown baseline technology, or an inconsistent replacement flag.
func Build(tables *core.Tables) (*Catalog, error) {
	c := &Catalog{
		facilities:  make(map[string]core.FacilityRow),
		mac:         make(map[techYear]float64),
		intensity:   make(map[techYear]float64),
		replacement: make(map[string]bool),
		price:       make(map[scenarioYear]float64),
	}

	flagSeen := make(map[string]bool)
	for _, row := range tables.TechCosts {
		key := techYear{tech: row.Tech, year: row.Year}
		if _, dup := c.mac[key]; dup {
			return nil, &IntegrityError{
				Table:  "tech_mac",
				Key:    fmt.Sprintf("%s/%d", row.Tech, row.Year),
				Reason: "duplicate entry",
			}
		}
		c.mac[key] = row.MAC
		if seen := flagSeen[row.Tech]; seen && c.replacement[row.Tech] != row.Replacement {
			return nil, &IntegrityError{
				Table:  "tech_mac",
				Key:    row.Tech,
				Reason: "replacement flag differs across years",
			}
		}
		flagSeen[row.Tech] = true
		c.replacement[row.Tech] = row.Replacement
	}

	for _, row := range tables.TechEmissions {
		key := techYear{tech: row.Tech, year: row.Year}
		if _, dup := c.intensity[key]; dup {
			return nil, &IntegrityError{
				Table:  "tech_emission",
				Key:    fmt.Sprintf("%s/%d", row.Tech, row.Year),
				Reason: "duplicate entry",
			}
		}
		if row.Intensity < 0 {
			return nil, &IntegrityError{
				Table:  "tech_emission",
				Key:    fmt.Sprintf("%s/%d", row.Tech, row.Year),
				Reason: fmt.Sprintf("negative emission intensity %g", row.Intensity),
			}
		}
		c.intensity[key] = row.Intensity
	}

	for _, row := range tables.Facilities {
		if _, dup := c.facilities[row.ID]; dup {
			return nil, &IntegrityError{Table: "facility", Key: row.ID, Reason: "duplicate entry"}
		}
		if row.Capacity < 0 {
			return nil, &IntegrityError{
				Table:  "facility",
				Key:    row.ID,
				Reason: fmt.Sprintf("negative capacity %g", row.Capacity),
			}
		}
		if row.CommissionYear > row.EOLYear {
			return nil, &IntegrityError{
				Table:  "facility",
				Key:    row.ID,
				Reason: fmt.Sprintf("commissioning year %d after end-of-life year %d", row.CommissionYear, row.EOLYear),
			}
		}
		if !flagSeen[row.BaselineTech] {
			return nil, &IntegrityError{
				Table:  "facility",
				Key:    row.ID,
				Reason: fmt.Sprintf("baseline technology %q has no cost records", row.BaselineTech),
			}
		}
		c.facilities[row.ID] = row
		c.facilityIDs = append(c.facilityIDs, row.ID)
	}
	sort.Strings(c.facilityIDs)

	for _, row := range tables.CarbonPrices {
		key := scenarioYear{scenario: row.Scenario, year: row.Year}
		if _, dup := c.price[key]; dup {
			return nil, &IntegrityError{
				Table:  "carbon_price",
				Key:    fmt.Sprintf("%s/%d", row.Scenario, row.Year),
				Reason: "duplicate entry",
			}
		}
		if row.Price < 0 {
			return nil, &IntegrityError{
				Table:  "carbon_price",
				Key:    fmt.Sprintf("%s/%d", row.Scenario, row.Year),
				Reason: fmt.Sprintf("negative price %g", row.Price),
			}
		}
		c.price[key] = row.Price
	}

	for tech := range flagSeen {
		c.techIDs = append(c.techIDs, tech)
	}
	sort.Strings(c.techIDs)

	return c, nil
}

// Facility returns the record for a facility id.
func (c *Catalog) Facility(id string) (core.FacilityRow, error) {
	f, ok := c.facilities[id]
	if !ok {
		return core.FacilityRow{}, &IntegrityError{Table: "facility", Key: id, Reason: "missing entry"}
	}
	return f, nil
}

// Facilities returns all facility records ordered by id.
func (c *Catalog) Facilities() []core.FacilityRow {
	out := make([]core.FacilityRow, len(c.facilityIDs))
	for i, id := range c.facilityIDs {
		out[i] = c.facilities[id]
	}
	return out
}

// Technologies returns all known technology ids in sorted order.
func (c *Catalog) Technologies() []string {
	return append([]string(nil), c.techIDs...)
}

// MAC returns the marginal abatement cost for (tech, year). A missing entry
// is a data error, never a silent default.
func (c *Catalog) MAC(tech string, year int) (float64, error) {
	v, ok := c.mac[techYear{tech: tech, year: year}]
	if !ok {
		return 0, &IntegrityError{
			Table:  "tech_mac",
			Key:    fmt.Sprintf("%s/%d", tech, year),
			Reason: "missing entry",
		}
	}
	return v, nil
}

// Intensity returns the emission intensity for (tech, year).
func (c *Catalog) Intensity(tech string, year int) (float64, error) {
	v, ok := c.intensity[techYear{tech: tech, year: year}]
	if !ok {
		return 0, &IntegrityError{
			Table:  "tech_emission",
			Key:    fmt.Sprintf("%s/%d", tech, year),
			Reason: "missing entry",
		}
	}
	return v, nil
}

// Price returns the carbon price for (scenario, year).
func (c *Catalog) Price(scenario string, year int) (float64, error) {
	v, ok := c.price[scenarioYear{scenario: scenario, year: year}]
	if !ok {
		return 0, &IntegrityError{
			Table:  "carbon_price",
			Key:    fmt.Sprintf("%s/%d", scenario, year),
			Reason: "missing entry",
		}
	}
	return v, nil
}

// ReplacementEligible reports whether a technology may be selected in a
// post-retirement choice window.
func (c *Catalog) ReplacementEligible(tech string) bool {
	return c.replacement[tech]
}

// Available reports whether a technology has both a cost and an emission
// record for the year. Availability is carried by record presence.
func (c *Catalog) Available(tech string, year int) bool {
	_, hasMAC := c.mac[techYear{tech: tech, year: year}]
	_, hasIntensity := c.intensity[techYear{tech: tech, year: year}]
	return hasMAC && hasIntensity
}

// EligibleReplacements returns the replacement-eligible technologies
// available in the year, in sorted order.
func (c *Catalog) EligibleReplacements(year int) []string {
	var out []string
	for _, tech := range c.techIDs {
		if c.replacement[tech] && c.Available(tech, year) {
			out = append(out, tech)
		}
	}
	return out
}
