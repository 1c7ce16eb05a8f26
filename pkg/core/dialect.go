package core

// DialectConfig holds the static configuration for a target SQL
// dialect. This is pure data, no handler functions.
//
// The runtime behavior (quoting, pagination rendering, function
// translation) lives in pkg/dialect.Dialect, which embeds this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g. "sqlite", "postgres", "sqlserver")
	Name string

	// Identifiers defines quoting rules
	Identifiers IdentifierConfig

	// BooleanTrue and BooleanFalse are the literal spellings for
	// boolean constants ("TRUE"/"FALSE" or "1"/"0")
	BooleanTrue  string
	BooleanFalse string

	// ConcatOperator is the string concatenation operator ("||" or "+")
	ConcatOperator string

	// Placeholder defines how positional query parameters are
	// formatted when the caller opts out of named placeholders
	Placeholder PlaceholderStyle

	// Pagination defines how limit/offset bounds render
	Pagination PaginationStyle

	// UnboundedLimit is the LIMIT spelling for an offset without a
	// limit on PaginationLimitOffset engines ("-1" for SQLite, "ALL"
	// for PostgreSQL). Unused by PaginationFetchNext engines.
	UnboundedLimit string

	// Functions maps canonical lowercase function names to the
	// engine-specific spelling. Unmapped names pass through unchanged.
	Functions map[string]string
}

// PlaceholderStyle defines how positional query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. (PostgreSQL).
	PlaceholderDollar
	// PlaceholderAtNumbered uses @p1, @p2, etc. (SQL Server).
	PlaceholderAtNumbered
)

// PaginationStyle defines how limit/offset bounds render.
type PaginationStyle int

const (
	// PaginationLimitOffset renders LIMIT n OFFSET m (SQLite, PostgreSQL).
	PaginationLimitOffset PaginationStyle = iota
	// PaginationFetchNext renders OFFSET m ROWS FETCH NEXT n ROWS ONLY
	// and requires an ORDER BY clause (SQL Server).
	PaginationFetchNext
)

// IdentifierConfig defines how identifiers are quoted.
type IdentifierConfig struct {
	Quote    string // Quote character: " or [
	QuoteEnd string // End quote character (usually same as Quote, ] for [)
	Escape   string // Escape sequence for the end quote: "" or ]]
}
