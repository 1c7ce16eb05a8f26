// Package dialect provides target-engine SQL rendering rules.
//
// A Dialect wraps the pure-data core.DialectConfig with the behavior the
// compiler needs: identifier quoting, boolean and pagination rendering,
// function-name translation, placeholder formatting. Concrete dialects
// are registered from pkg/dialects/*/ packages:
//
//	import _ "github.com/leapstack-labs/lql/pkg/dialects/sqlite"
//
//	d, ok := dialect.Get("sqlite")
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/lql/pkg/core"
)

// Dialect represents one target engine's rendering rules. Instances are
// immutable after New and safe for concurrent use.
type Dialect struct {
	cfg       *core.DialectConfig
	functions map[string]string // lowercased canonical name -> engine spelling
}

// New creates a Dialect from a config.
func New(cfg *core.DialectConfig) *Dialect {
	functions := make(map[string]string, len(cfg.Functions))
	for name, spelling := range cfg.Functions {
		functions[strings.ToLower(name)] = spelling
	}
	return &Dialect{cfg: cfg, functions: functions}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return d.cfg.Name
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	return d.cfg
}

// QuoteIdentifier quotes an identifier using the dialect's quote
// characters, escaping any end-quote characters in the name
// (e.g. ] -> ]]).
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.cfg.Identifiers.QuoteEnd, d.cfg.Identifiers.Escape)
	return d.cfg.Identifiers.Quote + escaped + d.cfg.Identifiers.QuoteEnd
}

// QuoteIdentifierIfNeeded quotes an identifier only when it is reserved
// or not a plain word. The decision comes from the shared reserved list,
// so a given identifier is quoted by every dialect or by none.
func (d *Dialect) QuoteIdentifierIfNeeded(name string) string {
	if NeedsQuoting(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

// RenderBoolean returns the literal spelling for a boolean constant.
func (d *Dialect) RenderBoolean(v bool) string {
	if v {
		return d.cfg.BooleanTrue
	}
	return d.cfg.BooleanFalse
}

// StringConcatOperator returns the engine spelling for the || operator.
func (d *Dialect) StringConcatOperator() string {
	return d.cfg.ConcatOperator
}

// TranslateFunctionName maps a canonical function name
// (case-insensitive) to the engine spelling. Unmapped names pass
// through unchanged.
func (d *Dialect) TranslateFunctionName(name string) string {
	if spelling, ok := d.functions[strings.ToLower(name)]; ok {
		return spelling
	}
	return name
}

// FormatPlaceholder returns the positional placeholder for the
// parameter at the given 1-based index.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.cfg.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case core.PlaceholderAtNumbered:
		return "@p" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// RequiresOrderedPagination reports whether the engine's pagination
// clause is only legal after an ORDER BY.
func (d *Dialect) RequiresOrderedPagination() bool {
	return d.cfg.Pagination == core.PaginationFetchNext
}

// RenderPagination renders the trailing pagination clause for the given
// optional limit and offset. Returns "" when both are nil.
//
// For fetch-style engines the clause is only legal after an ORDER BY;
// when hasOrderBy is false a neutral ORDER BY (SELECT NULL) is included
// so the statement stays valid. Callers that refuse unordered
// pagination check RequiresOrderedPagination before rendering.
func (d *Dialect) RenderPagination(limit, offset *int64, hasOrderBy bool) string {
	if limit == nil && offset == nil {
		return ""
	}

	var sb strings.Builder

	if d.cfg.Pagination == core.PaginationFetchNext {
		if !hasOrderBy {
			sb.WriteString("ORDER BY (SELECT NULL) ")
		}
		var off int64
		if offset != nil {
			off = *offset
		}
		sb.WriteString("OFFSET ")
		sb.WriteString(strconv.FormatInt(off, 10))
		sb.WriteString(" ROWS")
		if limit != nil {
			sb.WriteString(" FETCH NEXT ")
			sb.WriteString(strconv.FormatInt(*limit, 10))
			sb.WriteString(" ROWS ONLY")
		}
		return sb.String()
	}

	if limit != nil {
		sb.WriteString("LIMIT ")
		sb.WriteString(strconv.FormatInt(*limit, 10))
	} else {
		// Offset alone: spell out the engine's unbounded limit, since
		// not every engine accepts OFFSET without LIMIT.
		sb.WriteString("LIMIT ")
		sb.WriteString(d.cfg.UnboundedLimit)
	}
	if offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.FormatInt(*offset, 10))
	}
	return sb.String()
}
