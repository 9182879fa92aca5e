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

// The pathway-optimizer command reads the facility, technology, and
// carbon-price tables, solves the least-cost technology pathway for every
// configured scenario, and writes the result tables to the output
// directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/transition-lab/pathway-optimizer/internal/catalog"
	"github.com/transition-lab/pathway-optimizer/internal/ingest"
	"github.com/transition-lab/pathway-optimizer/internal/logging"
	"github.com/transition-lab/pathway-optimizer/internal/observability"
	"github.com/transition-lab/pathway-optimizer/internal/orchestrator"
	"github.com/transition-lab/pathway-optimizer/internal/report"
	"github.com/transition-lab/pathway-optimizer/pkg/config"
	"github.com/transition-lab/pathway-optimizer/pkg/solver"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFile  string
		development bool
	)

	cmd := &cobra.Command{
		Use:          "pathway-optimizer",
		Short:        "Least-cost decarbonization pathways under carbon-price scenarios",
		Long:         "pathway-optimizer picks, per facility and year, the cheapest eligible technology given each scenario's carbon-price trajectory, honoring end-of-life lock-in, and writes pathway, emission, and summary tables.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.NewLogger(cfg.Verbosity, development)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(logr.NewContext(ctx, logger), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML configuration file.")
	cmd.PersistentFlags().BoolVar(&development, "development", false, "Use the human-readable console log encoding.")
	cmd.PersistentFlags().String("data-dir", "", "Directory holding the four input CSV tables.")
	cmd.PersistentFlags().String("output-dir", "", "Directory receiving the result tables.")
	cmd.PersistentFlags().StringSlice("scenarios", nil, "Carbon-price scenarios to evaluate.")
	cmd.PersistentFlags().Int("horizon-start", 0, "First year of the optimization horizon.")
	cmd.PersistentFlags().Int("horizon-end", 0, "Last year of the optimization horizon (inclusive).")
	cmd.PersistentFlags().Float64("discount-rate", 0, "Annual discount rate applied to objective coefficients.")
	cmd.PersistentFlags().Int("workers", 0, "Maximum number of scenarios solved concurrently.")
	cmd.PersistentFlags().String("metrics-addr", "", "Address to serve Prometheus metrics on for the run, e.g. :9090.")
	cmd.PersistentFlags().IntP("verbosity", "v", 0, "Log verbosity (0 info, 1 debug, 2 trace).")

	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cc *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cc.OutOrStdout().Write(out)
			return err
		},
	})

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logr.FromContextOrDiscard(ctx)
	logger.Info("Loading input tables", "dataDir", cfg.DataDir)

	tables, err := ingest.LoadTables(cfg.DataDir)
	if err != nil {
		return err
	}
	cat, err := catalog.Build(tables)
	if err != nil {
		return err
	}
	logger.Info("Catalog built",
		"facilities", len(cat.Facilities()), "technologies", len(cat.Technologies()))

	s, err := solver.NewBranchAndBound(&solver.BranchAndBoundConfig{
		IntTol:   cfg.Solver.IntTol,
		MaxNodes: cfg.Solver.MaxNodes,
	})
	if err != nil {
		return err
	}

	opts := orchestrator.Options{
		DiscountRate: cfg.DiscountRate,
		Workers:      cfg.Workers,
	}
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		collector, err := observability.NewCollector(nil)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		opts.Metrics = collector
		metricsServer = serveMetrics(cfg.MetricsAddr, collector, logger)
		defer shutdownMetrics(metricsServer, logger)
	}

	o, err := orchestrator.New(cat, s, opts)
	if err != nil {
		return err
	}

	requests := make([]orchestrator.Request, len(cfg.Scenarios))
	for i, scenario := range cfg.Scenarios {
		requests[i] = orchestrator.Request{Scenario: scenario, Horizon: cfg.Horizon()}
	}

	batch, err := o.Run(ctx, requests)
	if err != nil {
		return err
	}
	if err := report.WriteAll(cfg.OutputDir, batch); err != nil {
		return err
	}
	logger.Info("Results written", "outputDir", cfg.OutputDir)

	if failed := batch.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, r := range failed {
			names[i] = r.Scenario
		}
		return fmt.Errorf("%d of %d scenario runs failed: %s",
			len(failed), len(batch.Results), strings.Join(names, ", "))
	}
	return nil
}

func serveMetrics(addr string, collector *observability.Collector, logger logr.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Metrics server failed")
		}
	}()
	return srv
}

func shutdownMetrics(srv *http.Server, logger logr.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error(err, "Metrics server shutdown failed")
	}
}
