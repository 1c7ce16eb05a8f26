// Package sqlite provides the SQLite SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlite

import "github.com/leapstack-labs/lql/pkg/core"

// Config is the SQLite dialect configuration. Pure data; the behavior
// lives on dialect.Dialect.
var Config = &core.DialectConfig{
	Name:        "sqlite",
	Placeholder: core.PlaceholderQuestion,
	Identifiers: core.IdentifierConfig{
		// SQLite accepts both "name" and [name]; we emit the
		// standard form.
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},

	// SQLite has no boolean type; constants are integers.
	BooleanTrue:  "1",
	BooleanFalse: "0",

	ConcatOperator: "||",

	Pagination:     core.PaginationLimitOffset,
	UnboundedLimit: "-1", // LIMIT -1 OFFSET n is the documented idiom

	Functions: map[string]string{
		"count":  "COUNT",
		"sum":    "SUM",
		"avg":    "AVG",
		"min":    "MIN",
		"max":    "MAX",
		"length": "LENGTH",
		"lower":  "LOWER",
		"upper":  "UPPER",
		"trim":   "TRIM",
		"ifnull": "IFNULL",
		"substr": "SUBSTR",
		"now":    "CURRENT_TIMESTAMP",
	},
}
