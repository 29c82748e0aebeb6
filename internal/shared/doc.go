// Package shared provides common utilities and test helpers used across the
// munipipe codebase. It serves as a central location for shared functionality
// that doesn't belong to any specific domain or architectural layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and the canonical sample-data fixtures shared by the package
// tests, so individual tests do not carry their own near-identical copies of
// the sample datasets.
package shared
