// Package lql is the one-call facade over the transpiler: LQL source
// text in, dialect-correct SQL text out.
//
//	res, err := lql.Transpile("Users |> filter(Age > @min) |> select(Name)", "postgres")
//	// res.SQL "SELECT Name FROM Users WHERE Age > @min", res.Params ["min"]
//
// Importing this package registers the three built-in dialects
// (sqlite, postgres, sqlserver). Callers that need parse trees, custom
// dialects, or inspector-backed diagnostics use pkg/parser,
// pkg/dialect, and pkg/compile directly.
package lql

import (
	"github.com/leapstack-labs/lql/pkg/compile"
	"github.com/leapstack-labs/lql/pkg/dialect"
	"github.com/leapstack-labs/lql/pkg/parser"

	// Register the built-in dialects.
	_ "github.com/leapstack-labs/lql/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/lql/pkg/dialects/sqlite"
	_ "github.com/leapstack-labs/lql/pkg/dialects/sqlserver"
)

// Transpile parses source and compiles it for the named dialect with
// default options. Safe for unbounded concurrent use.
func Transpile(source, dialectName string) (*compile.Result, error) {
	return TranspileWithOptions(source, dialectName, compile.Options{})
}

// TranspileWithOptions parses source and compiles it for the named
// dialect. Errors are *parser.ParseError, *compile.Error, or a
// dialect.ErrUnknownDialect wrap, all usable with errors.As/Is.
func TranspileWithOptions(source, dialectName string, opts compile.Options) (*compile.Result, error) {
	d, err := dialect.Require(dialectName)
	if err != nil {
		return nil, err
	}
	pipe, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return compile.CompileWithOptions(pipe, d, opts)
}

// Dialects returns the names of all registered dialects, sorted.
func Dialects() []string {
	return dialect.List()
}
