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

// Package config provides configuration management for the pathway
// optimizer.
//
// Configuration sources, in priority order:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (prefix PATHWAY_)
//  3. YAML config file
//  4. Default values (lowest priority)
//
// All values are validated at load time: numeric ranges, horizon ordering,
// and a non-empty scenario list.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/transition-lab/pathway-optimizer/pkg/core"
)

const envPrefix = "PATHWAY"

// SolverConfig bounds the solver backend.
type SolverConfig struct {
	// IntTol is the integrality tolerance; 0 selects the backend default.
	IntTol float64 `yaml:"intTol,omitempty" mapstructure:"intTol"`

	// MaxNodes is the branch-and-bound node budget; 0 selects the backend
	// default. Exhausting the budget fails the scenario run, it is never
	// silently approximated.
	MaxNodes int `yaml:"maxNodes,omitempty" mapstructure:"maxNodes"`
}

// Config is the full run configuration.
type Config struct {
	// Horizon is the inclusive year range every scenario is optimized over.
	HorizonStart int `yaml:"horizonStart" mapstructure:"horizonStart"`
	HorizonEnd   int `yaml:"horizonEnd" mapstructure:"horizonEnd"`

	// Scenarios are the carbon-price scenarios to evaluate.
	Scenarios []string `yaml:"scenarios" mapstructure:"scenarios"`

	// DiscountRate is the annual rate applied to objective coefficients
	// (NPV objective). Result rows stay undiscounted.
	DiscountRate float64 `yaml:"discountRate,omitempty" mapstructure:"discountRate"`

	// DataDir holds the four input CSV tables.
	DataDir string `yaml:"dataDir" mapstructure:"dataDir"`

	// OutputDir receives the result tables.
	OutputDir string `yaml:"outputDir" mapstructure:"outputDir"`

	// Workers caps concurrent scenario runs. 1 runs scenarios serially.
	Workers int `yaml:"workers,omitempty" mapstructure:"workers"`

	// MetricsAddr, when set, serves Prometheus metrics on this address
	// for the duration of the run (e.g. ":9090").
	MetricsAddr string `yaml:"metricsAddr,omitempty" mapstructure:"metricsAddr"`

	// Verbosity is the log verbosity (0 info, 1 debug, 2 trace).
	Verbosity int `yaml:"verbosity,omitempty" mapstructure:"verbosity"`

	Solver SolverConfig `yaml:"solver,omitempty" mapstructure:"solver"`
}

// Default returns the built-in defaults, matching the reference dataset's
// 2024-2050 horizon and scenario set.
func Default() *Config {
	return &Config{
		HorizonStart: 2024,
		HorizonEnd:   2050,
		Scenarios:    []string{"below_2", "ndc", "net_zero"},
		DiscountRate: 0.05,
		DataDir:      "data",
		OutputDir:    "results",
		Workers:      1,
	}
}

// Horizon returns the configured horizon.
func (c *Config) Horizon() core.Horizon {
	return core.Horizon{Start: c.HorizonStart, End: c.HorizonEnd}
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	if err := c.Horizon().Validate(); err != nil {
		return err
	}
	if len(c.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}
	seen := make(map[string]bool)
	for _, s := range c.Scenarios {
		if s == "" {
			return fmt.Errorf("scenario names must be non-empty")
		}
		if seen[s] {
			return fmt.Errorf("duplicate scenario %q", s)
		}
		seen[s] = true
	}
	if c.DiscountRate < 0 {
		return fmt.Errorf("discount rate must be non-negative, got %g", c.DiscountRate)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Solver.IntTol < 0 || c.Solver.IntTol >= 0.5 {
		return fmt.Errorf("solver integrality tolerance must be in [0, 0.5), got %g", c.Solver.IntTol)
	}
	if c.Solver.MaxNodes < 0 {
		return fmt.Errorf("solver node budget must be non-negative, got %d", c.Solver.MaxNodes)
	}
	return nil
}

// Load merges defaults, an optional YAML config file, PATHWAY_* environment
// variables, and bound command-line flags, then validates the result.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("horizonStart", defaults.HorizonStart)
	v.SetDefault("horizonEnd", defaults.HorizonEnd)
	v.SetDefault("scenarios", defaults.Scenarios)
	v.SetDefault("discountRate", defaults.DiscountRate)
	v.SetDefault("dataDir", defaults.DataDir)
	v.SetDefault("outputDir", defaults.OutputDir)
	v.SetDefault("workers", defaults.Workers)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", file, err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(flagKey(f.Name), f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("binding flags: %w", bindErr)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// flagKey maps a kebab-case flag name onto its camelCase config key, so
// --horizon-start binds to horizonStart.
func flagKey(name string) string {
	parts := strings.Split(name, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
