// Package postgres provides the PostgreSQL SQL dialect definition.
// This package is pure Go with no database driver dependencies.
package postgres

import "github.com/leapstack-labs/lql/pkg/core"

// Config is the PostgreSQL dialect configuration. Pure data; the
// behavior lives on dialect.Dialect.
var Config = &core.DialectConfig{
	Name:        "postgres",
	Placeholder: core.PlaceholderDollar,
	Identifiers: core.IdentifierConfig{
		Quote:    `"`,
		QuoteEnd: `"`,
		Escape:   `""`,
	},

	BooleanTrue:  "TRUE",
	BooleanFalse: "FALSE",

	ConcatOperator: "||",

	Pagination:     core.PaginationLimitOffset,
	UnboundedLimit: "ALL",

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
		"ifnull": "COALESCE", // no IFNULL in PostgreSQL
		"substr": "SUBSTR",
		"now":    "NOW",
	},
}
