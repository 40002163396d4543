// Package shared holds small utilities used across packages that do not
// belong to any single domain layer. The testutil subpackage provides test
// helpers, currently a capturing slog handler for asserting on structured
// log output.
package shared
