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

// Package logging provides the shared logr verbosity levels and the
// zap-backed logger construction used across the pipeline.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V(). INFO is always emitted; DEBUG and TRACE
// require raising the configured verbosity.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// NewLogger builds a logr.Logger over zap. verbosity selects the highest
// V-level that is emitted; development switches to the human-readable
// console encoding.
func NewLogger(verbosity int, development bool) (logr.Logger, error) {
	if verbosity < 0 {
		return logr.Logger{}, fmt.Errorf("verbosity must be non-negative, got %d", verbosity)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	// zapr maps logr.V(n) onto zap level -n.
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))

	zl, err := cfg.Build()
	if err != nil {
		return logr.Logger{}, fmt.Errorf("building zap logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}
