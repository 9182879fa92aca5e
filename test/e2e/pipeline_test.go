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

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/transition-lab/pathway-optimizer/internal/catalog"
	"github.com/transition-lab/pathway-optimizer/internal/ingest"
	"github.com/transition-lab/pathway-optimizer/internal/orchestrator"
	"github.com/transition-lab/pathway-optimizer/internal/report"
	"github.com/transition-lab/pathway-optimizer/pkg/core"
	"github.com/transition-lab/pathway-optimizer/pkg/solver"
)

// The synthetic dataset: one facility with baseline T0 locked through its
// 2030 end of life, and a clean alternative T1 that becomes the cheaper
// choice once the carbon price crosses the per-unit break-even of 10/3.
var fixtureFiles = map[string]string{
	ingest.FacilityFile: `id,capacity,commission_year,eol_year,baseline_tech
plant-a,100,2000,2030,T0
`,
	ingest.TechMACFile: `tech,year,mac,replacement
T0,2028,0,true
T0,2029,0,true
T0,2030,0,true
T0,2031,0,true
T0,2032,0,true
T0,2033,0,true
T1,2028,5,true
T1,2029,5,true
T1,2030,5,true
T1,2031,5,true
T1,2032,5,true
T1,2033,5,true
`,
	ingest.TechEmissionFile: `tech,year,intensity
T0,2028,2
T0,2029,2
T0,2030,2
T0,2031,2
T0,2032,2
T0,2033,2
T1,2028,0.5
T1,2029,0.5
T1,2030,0.5
T1,2031,0.5
T1,2032,0.5
T1,2033,0.5
`,
	ingest.CarbonPriceFile: `scenario,year,price
ramp,2028,1
ramp,2029,2
ramp,2030,3
ramp,2031,2
ramp,2032,4
ramp,2033,8
`,
}

var _ = Describe("pathway optimization pipeline", func() {
	var (
		dataDir   string
		outputDir string
		horizon   core.Horizon
	)

	BeforeEach(func() {
		dataDir = GinkgoT().TempDir()
		outputDir = filepath.Join(GinkgoT().TempDir(), "results")
		horizon = core.Horizon{Start: 2028, End: 2033}
		for name, content := range fixtureFiles {
			Expect(os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644)).To(Succeed())
		}
	})

	runBatch := func(scenarios ...string) *core.BatchResult {
		tables, err := ingest.LoadTables(dataDir)
		Expect(err).NotTo(HaveOccurred())
		cat, err := catalog.Build(tables)
		Expect(err).NotTo(HaveOccurred())
		s, err := solver.NewBranchAndBound(nil)
		Expect(err).NotTo(HaveOccurred())
		o, err := orchestrator.New(cat, s, orchestrator.Options{Workers: 2})
		Expect(err).NotTo(HaveOccurred())

		requests := make([]orchestrator.Request, len(scenarios))
		for i, scenario := range scenarios {
			requests[i] = orchestrator.Request{Scenario: scenario, Horizon: horizon}
		}
		batch, err := o.Run(context.Background(), requests)
		Expect(err).NotTo(HaveOccurred())
		return batch
	}

	It("solves a scenario end to end and writes all result tables", func() {
		batch := runBatch("ramp")
		Expect(batch.Failed()).To(BeEmpty())

		res := batch.Results[0]
		Expect(res.Status).To(Equal(core.RunSucceeded))
		Expect(res.Objective).To(BeNumerically("~", 3200, 1e-6))

		wantTech := map[int]string{
			2028: "T0", 2029: "T0", 2030: "T0",
			2031: "T0", 2032: "T1", 2033: "T1",
		}
		Expect(res.Rows).To(HaveLen(len(wantTech)))
		for _, row := range res.Rows {
			Expect(row.Tech).To(Equal(wantTech[row.Year]), "year %d", row.Year)
		}

		Expect(report.WriteAll(outputDir, batch)).To(Succeed())

		pathway := readLines(filepath.Join(outputDir, report.PathwayFileName))
		Expect(pathway).To(HaveLen(7))
		Expect(pathway[0]).To(Equal("scenario,facility,year,tech,abatement_cost,carbon_cost,total_cost,emissions"))
		Expect(pathway[1]).To(Equal("ramp,plant-a,2028,T0,0,200,200,200"))
		Expect(pathway[6]).To(Equal("ramp,plant-a,2033,T1,500,400,900,50"))

		emissions := readLines(filepath.Join(outputDir, report.EmissionPathFileName("ramp")))
		Expect(emissions).To(Equal([]string{
			"year,total_emissions",
			"2028,200", "2029,200", "2030,200", "2031,200",
			"2032,50", "2033,50",
		}))

		summary := readLines(filepath.Join(outputDir, report.SummaryFileName))
		Expect(summary).To(HaveLen(2))
		Expect(summary[1]).To(HavePrefix("ramp,2028-2033,Succeeded,3200,"))
	})

	It("isolates a scenario with missing price data", func() {
		batch := runBatch("ramp", "phantom")
		Expect(batch.Results[0].Status).To(Equal(core.RunSucceeded))
		Expect(batch.Results[1].Status).To(Equal(core.RunFailed))
		Expect(batch.Results[1].Err).To(HaveOccurred())

		Expect(report.WriteAll(outputDir, batch)).To(Succeed())

		Expect(filepath.Join(outputDir, report.EmissionPathFileName("ramp"))).To(BeAnExistingFile())
		Expect(filepath.Join(outputDir, report.EmissionPathFileName("phantom"))).NotTo(BeAnExistingFile())

		summary := readLines(filepath.Join(outputDir, report.SummaryFileName))
		Expect(summary[2]).To(HavePrefix("phantom,2028-2033,Failed,,"))
	})

	It("respects the end-of-life lock even under extreme prices", func() {
		prices := fixtureFiles[ingest.CarbonPriceFile] + `spike,2028,1000
spike,2029,1000
spike,2030,1000
spike,2031,1000
spike,2032,1000
spike,2033,1000
`
		Expect(os.WriteFile(filepath.Join(dataDir, ingest.CarbonPriceFile), []byte(prices), 0o644)).To(Succeed())

		batch := runBatch("spike")
		res := batch.Results[0]
		Expect(res.Status).To(Equal(core.RunSucceeded))
		for _, row := range res.Rows {
			if row.Year <= 2030 {
				Expect(row.Tech).To(Equal("T0"), "year %d is inside the baseline lock", row.Year)
			} else {
				Expect(row.Tech).To(Equal("T1"), "year %d", row.Year)
			}
		}
	})
})

func readLines(path string) []string {
	data, err := os.ReadFile(path)
	Expect(err).NotTo(HaveOccurred())
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
