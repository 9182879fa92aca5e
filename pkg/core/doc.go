// Package core provides the fundamental data structures for the pathway
// optimization engine.
//
// This package contains the domain models that represent the entities and
// relationships of the transition model:
//
//   - Facility: an industrial production site with capacity and asset lifetime
//   - TechCostRow / TechEmissionRow: year-indexed technology parameters
//   - CarbonPriceRow: scenario- and year-indexed carbon prices
//   - Horizon: the inclusive year range of an optimization request
//   - PathwayRow: one decoded (facility, year) decision with its cost breakdown
//   - ScenarioResult / BatchResult: per-scenario and batch-level outcomes
//
// These types form the foundation for the model builder and the decoder and
// are used throughout the orchestrator for result aggregation.
//
// The core package is designed to be:
//   - Immutable where possible (value types)
//   - Type-safe with strong domain boundaries
//   - Independent of solver and I/O concerns (pure domain logic)
package core
