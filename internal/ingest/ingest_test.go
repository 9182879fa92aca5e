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

package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transition-lab/pathway-optimizer/pkg/core"
)

func TestReadFacilities(t *testing.T) {
	in := strings.NewReader(`id,capacity,commission_year,eol_year,baseline_tech
plant-a,100.5,2000,2030,T0
plant-b,50,2010,2040,T0
`)
	rows, err := ReadFacilities(in)
	require.NoError(t, err)

	want := []core.FacilityRow{
		{ID: "plant-a", Capacity: 100.5, CommissionYear: 2000, EOLYear: 2030, BaselineTech: "T0"},
		{ID: "plant-b", Capacity: 50, CommissionYear: 2010, EOLYear: 2040, BaselineTech: "T0"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("ReadFacilities() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTechCosts(t *testing.T) {
	in := strings.NewReader(`tech,year,mac,replacement
T0,2025,0,false
T1,2025,5.25,true
`)
	rows, err := ReadTechCosts(in)
	require.NoError(t, err)

	want := []core.TechCostRow{
		{Tech: "T0", Year: 2025, MAC: 0, Replacement: false},
		{Tech: "T1", Year: 2025, MAC: 5.25, Replacement: true},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("ReadTechCosts() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		read    func(*strings.Reader) error
		wantErr string
	}{
		{
			name:    "wrong header",
			input:   "id,cap\nplant-a,1\n",
			read:    func(r *strings.Reader) error { _, err := ReadFacilities(r); return err },
			wantErr: "header",
		},
		{
			name:    "non-numeric capacity",
			input:   "id,capacity,commission_year,eol_year,baseline_tech\nplant-a,lots,2000,2030,T0\n",
			read:    func(r *strings.Reader) error { _, err := ReadFacilities(r); return err },
			wantErr: "parsing capacity",
		},
		{
			name:    "non-numeric year",
			input:   "scenario,year,price\nndc,soon,10\n",
			read:    func(r *strings.Reader) error { _, err := ReadCarbonPrices(r); return err },
			wantErr: "parsing year",
		},
		{
			name:    "bad replacement flag",
			input:   "tech,year,mac,replacement\nT0,2025,0,maybe\n",
			read:    func(r *strings.Reader) error { _, err := ReadTechCosts(r); return err },
			wantErr: "parsing replacement",
		},
		{
			name:    "empty file",
			input:   "",
			read:    func(r *strings.Reader) error { _, err := ReadTechEmissions(r); return err },
			wantErr: "missing header",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		FacilityFile:     "id,capacity,commission_year,eol_year,baseline_tech\nplant-a,100,2000,2030,T0\n",
		TechMACFile:      "tech,year,mac,replacement\nT0,2025,0,false\n",
		TechEmissionFile: "tech,year,intensity\nT0,2025,2\n",
		CarbonPriceFile:  "scenario,year,price\nndc,2025,10\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	tables, err := LoadTables(dir)
	require.NoError(t, err)
	assert.Len(t, tables.Facilities, 1)
	assert.Len(t, tables.TechCosts, 1)
	assert.Len(t, tables.TechEmissions, 1)
	assert.Len(t, tables.CarbonPrices, 1)
}

func TestLoadTablesMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadTables(dir)
	require.Error(t, err)
}
