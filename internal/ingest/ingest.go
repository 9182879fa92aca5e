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

// Package ingest reads the four input tables from CSV files and hands the
// parsed rows to the catalog. It owns structural validation (headers,
// numeric types); semantic validation is the catalog's job.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/transition-lab/pathway-optimizer/pkg/core"
)

// Input table file names, one per table.
const (
	FacilityFile     = "facility.csv"
	TechMACFile      = "tech_mac.csv"
	TechEmissionFile = "tech_emission.csv"
	CarbonPriceFile  = "carbon_price.csv"
)

// LoadTables reads all four input tables from dir.
func LoadTables(dir string) (*core.Tables, error) {
	tables := &core.Tables{}

	err := withFile(filepath.Join(dir, FacilityFile), func(r io.Reader) error {
		var err error
		tables.Facilities, err = ReadFacilities(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = withFile(filepath.Join(dir, TechMACFile), func(r io.Reader) error {
		var err error
		tables.TechCosts, err = ReadTechCosts(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = withFile(filepath.Join(dir, TechEmissionFile), func(r io.Reader) error {
		var err error
		tables.TechEmissions, err = ReadTechEmissions(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = withFile(filepath.Join(dir, CarbonPriceFile), func(r io.Reader) error {
		var err error
		tables.CarbonPrices, err = ReadCarbonPrices(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	return tables, nil
}

func withFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening input table: %w", err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadFacilities parses the facility table:
// id,capacity,commission_year,eol_year,baseline_tech.
func ReadFacilities(r io.Reader) ([]core.FacilityRow, error) {
	records, err := readAll(r, []string{"id", "capacity", "commission_year", "eol_year", "baseline_tech"})
	if err != nil {
		return nil, err
	}
	rows := make([]core.FacilityRow, 0, len(records))
	for i, rec := range records {
		capacity, err := parseFloat(rec[1], i, "capacity")
		if err != nil {
			return nil, err
		}
		commission, err := parseInt(rec[2], i, "commission_year")
		if err != nil {
			return nil, err
		}
		eol, err := parseInt(rec[3], i, "eol_year")
		if err != nil {
			return nil, err
		}
		rows = append(rows, core.FacilityRow{
			ID:             rec[0],
			Capacity:       capacity,
			CommissionYear: commission,
			EOLYear:        eol,
			BaselineTech:   rec[4],
		})
	}
	return rows, nil
}

// ReadTechCosts parses the technology-cost table: tech,year,mac,replacement.
func ReadTechCosts(r io.Reader) ([]core.TechCostRow, error) {
	records, err := readAll(r, []string{"tech", "year", "mac", "replacement"})
	if err != nil {
		return nil, err
	}
	rows := make([]core.TechCostRow, 0, len(records))
	for i, rec := range records {
		year, err := parseInt(rec[1], i, "year")
		if err != nil {
			return nil, err
		}
		mac, err := parseFloat(rec[2], i, "mac")
		if err != nil {
			return nil, err
		}
		replacement, err := strconv.ParseBool(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing replacement: %w", i+2, err)
		}
		rows = append(rows, core.TechCostRow{Tech: rec[0], Year: year, MAC: mac, Replacement: replacement})
	}
	return rows, nil
}

// ReadTechEmissions parses the technology-emission table: tech,year,intensity.
func ReadTechEmissions(r io.Reader) ([]core.TechEmissionRow, error) {
	records, err := readAll(r, []string{"tech", "year", "intensity"})
	if err != nil {
		return nil, err
	}
	rows := make([]core.TechEmissionRow, 0, len(records))
	for i, rec := range records {
		year, err := parseInt(rec[1], i, "year")
		if err != nil {
			return nil, err
		}
		intensity, err := parseFloat(rec[2], i, "intensity")
		if err != nil {
			return nil, err
		}
		rows = append(rows, core.TechEmissionRow{Tech: rec[0], Year: year, Intensity: intensity})
	}
	return rows, nil
}

// ReadCarbonPrices parses the carbon-price table: scenario,year,price.
func ReadCarbonPrices(r io.Reader) ([]core.CarbonPriceRow, error) {
	records, err := readAll(r, []string{"scenario", "year", "price"})
	if err != nil {
		return nil, err
	}
	rows := make([]core.CarbonPriceRow, 0, len(records))
	for i, rec := range records {
		year, err := parseInt(rec[1], i, "year")
		if err != nil {
			return nil, err
		}
		price, err := parseFloat(rec[2], i, "price")
		if err != nil {
			return nil, err
		}
		rows = append(rows, core.CarbonPriceRow{Scenario: rec[0], Year: year, Price: price})
	}
	return rows, nil
}

// readAll validates the header and returns the data records.
func readAll(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row, want %s", strings.Join(header, ","))
	}
	got := records[0]
	if len(got) != len(header) {
		return nil, fmt.Errorf("header has %d columns, want %d (%s)", len(got), len(header), strings.Join(header, ","))
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(got[i]), col) {
			return nil, fmt.Errorf("header column %d is %q, want %q", i+1, got[i], col)
		}
	}
	return records[1:], nil
}

func parseFloat(s string, row int, col string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: parsing %s: %w", row+2, col, err)
	}
	return v, nil
}

func parseInt(s string, row int, col string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("row %d: parsing %s: %w", row+2, col, err)
	}
	return v, nil
}
