// Package sqlserver provides the SQL Server (T-SQL) dialect definition.
// This package is pure Go with no database driver dependencies.
package sqlserver

import "github.com/leapstack-labs/lql/pkg/core"

// Config is the SQL Server dialect configuration. Pure data; the
// behavior lives on dialect.Dialect.
var Config = &core.DialectConfig{
	Name:        "sqlserver",
	Placeholder: core.PlaceholderAtNumbered,
	Identifiers: core.IdentifierConfig{
		Quote:    "[",
		QuoteEnd: "]",
		Escape:   "]]",
	},

	// T-SQL has no boolean literal; BIT constants are integers.
	BooleanTrue:  "1",
	BooleanFalse: "0",

	ConcatOperator: "+",

	// OFFSET m ROWS FETCH NEXT n ROWS ONLY, legal only after ORDER BY.
	Pagination: core.PaginationFetchNext,

	Functions: map[string]string{
		"count":  "COUNT",
		"sum":    "SUM",
		"avg":    "AVG",
		"min":    "MIN",
		"max":    "MAX",
		"length": "LEN",
		"lower":  "LOWER",
		"upper":  "UPPER",
		"trim":   "TRIM",
		"ifnull": "ISNULL",
		"substr": "SUBSTRING",
		"now":    "GETDATE",
	},
}
