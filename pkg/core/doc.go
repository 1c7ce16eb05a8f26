// Package core defines the shared language of the LQL transpiler.
//
// This package contains:
//   - The pipeline AST (Pipeline, stage nodes, expression nodes)
//   - Dialect configuration data (DialectConfig)
//   - The schema inspector contract (Inspector, portable column types)
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
