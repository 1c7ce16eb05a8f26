// Package compile renders a core.Pipeline as one SQL statement for a
// target dialect.
//
// # Usage
//
//	pipe, err := parser.Parse("Users |> filter(fn(row) => row.Age > 18) |> select(Users.Name)")
//	// ...
//	res, err := compile.Compile(pipe, sqlite.SQLite)
//	// res.SQL    "SELECT Name FROM Users WHERE Age > 18"
//	// res.Params the @name references in placeholder order
//
// # Clause assembly
//
// SQL clause order is fixed regardless of where stages appear in the
// pipeline: SELECT, FROM, joins, WHERE, GROUP BY, HAVING, ORDER BY,
// pagination. A select stage written before a filter still projects the
// filtered rows, and limit/offset always apply last. Multiple filter
// stages conjoin with AND; joins keep their source order. When the same
// single-occurrence stage (select, group_by, having, order_by, limit,
// offset) appears twice, the later one wins.
//
// Compilation is a pure function of its inputs: no I/O, no shared
// state, byte-identical output for identical (Pipeline, Dialect) pairs.
// Malformed input returns an *Error; an AST shape the parser can never
// produce panics, since it indicates a bug in the caller, not bad input.
package compile

import (
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/dialect"
)

// Options adjusts compilation policy.
type Options struct {
	// StrictPagination fails with KindPaginationRequiresOrder when the
	// pipeline paginates without an order_by on a dialect that requires
	// ordered pagination, instead of synthesizing ORDER BY (SELECT NULL).
	StrictPagination bool

	// PositionalParams replaces @name references in the output with the
	// dialect's positional placeholders (?, $1, @p1). Result.Params then
	// lists the value order a driver expects.
	PositionalParams bool
}

// Result is a successful compilation: the SQL text and the @name
// parameters it references, deduplicated, in first-use order. With
// Options.PositionalParams on a question-placeholder dialect a repeated
// parameter instead appears once per occurrence, since each ? consumes
// its own value slot.
type Result struct {
	SQL    string   `json:"sql"`
	Params []string `json:"params"`
}

// Compile renders the pipeline for the dialect with default options.
func Compile(p *core.Pipeline, d *dialect.Dialect) (*Result, error) {
	return CompileWithOptions(p, d, Options{})
}

// CompileWithOptions renders the pipeline for the dialect.
func CompileWithOptions(p *core.Pipeline, d *dialect.Dialect, opts Options) (*Result, error) {
	if p == nil || p.Source == nil || d == nil {
		panic("compile: nil pipeline, source, or dialect")
	}
	pr := newPrinter(d, opts.PositionalParams)
	if err := pr.statement(p, opts); err != nil {
		return nil, err
	}
	return &Result{SQL: pr.String(), Params: pr.params}, nil
}
