package dialect_test

import (
	"testing"

	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDialect() *dialect.Dialect {
	return dialect.New(&core.DialectConfig{
		Name: "test",
		Identifiers: core.IdentifierConfig{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		},
		BooleanTrue:    "TRUE",
		BooleanFalse:   "FALSE",
		ConcatOperator: "||",
		Placeholder:    core.PlaceholderDollar,
		Pagination:     core.PaginationLimitOffset,
		UnboundedLimit: "ALL",
		Functions:      map[string]string{"count": "COUNT", "length": "CHAR_LENGTH"},
	})
}

func TestQuoteIdentifier(t *testing.T) {
	d := testDialect()
	assert.Equal(t, `"my_table"`, d.QuoteIdentifier("my_table"))
	assert.Equal(t, `"table""name"`, d.QuoteIdentifier(`table"name`))
}

func TestQuoteIdentifierIfNeeded(t *testing.T) {
	d := testDialect()

	// Plain words stay bare.
	assert.Equal(t, "Users", d.QuoteIdentifierIfNeeded("Users"))
	assert.Equal(t, "order_total", d.QuoteIdentifierIfNeeded("order_total"))

	// Reserved words and non-word names get quoted.
	assert.Equal(t, `"order"`, d.QuoteIdentifierIfNeeded("order"))
	assert.Equal(t, `"Order"`, d.QuoteIdentifierIfNeeded("Order"))
	assert.Equal(t, `"user"`, d.QuoteIdentifierIfNeeded("user"))
	assert.Equal(t, `"first name"`, d.QuoteIdentifierIfNeeded("first name"))
	assert.Equal(t, `"1st"`, d.QuoteIdentifierIfNeeded("1st"))
}

func TestRenderBoolean(t *testing.T) {
	d := testDialect()
	assert.Equal(t, "TRUE", d.RenderBoolean(true))
	assert.Equal(t, "FALSE", d.RenderBoolean(false))
}

func TestTranslateFunctionName(t *testing.T) {
	d := testDialect()
	assert.Equal(t, "COUNT", d.TranslateFunctionName("count"))
	assert.Equal(t, "COUNT", d.TranslateFunctionName("Count"))
	assert.Equal(t, "CHAR_LENGTH", d.TranslateFunctionName("length"))
	// Unmapped names pass through with source spelling.
	assert.Equal(t, "my_func", d.TranslateFunctionName("my_func"))
}

func TestFormatPlaceholder(t *testing.T) {
	d := testDialect()
	assert.Equal(t, "$1", d.FormatPlaceholder(1))
	assert.Equal(t, "$7", d.FormatPlaceholder(7))
}

func TestRenderPaginationLimitOffset(t *testing.T) {
	d := testDialect()
	limit, offset := int64(10), int64(20)

	assert.Equal(t, "", d.RenderPagination(nil, nil, false))
	assert.Equal(t, "LIMIT 10", d.RenderPagination(&limit, nil, false))
	assert.Equal(t, "LIMIT 10 OFFSET 20", d.RenderPagination(&limit, &offset, false))
	assert.Equal(t, "LIMIT ALL OFFSET 20", d.RenderPagination(nil, &offset, false))
}

func TestRenderPaginationFetchNext(t *testing.T) {
	d := dialect.New(&core.DialectConfig{
		Name:        "fetchy",
		Identifiers: core.IdentifierConfig{Quote: "[", QuoteEnd: "]", Escape: "]]"},
		Pagination:  core.PaginationFetchNext,
	})
	limit, offset := int64(10), int64(20)

	assert.True(t, d.RequiresOrderedPagination())
	assert.Equal(t, "OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY",
		d.RenderPagination(&limit, &offset, true))
	assert.Equal(t, "OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY",
		d.RenderPagination(&limit, nil, true))
	// Without an ORDER BY the neutral one is synthesized.
	assert.Equal(t, "ORDER BY (SELECT NULL) OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY",
		d.RenderPagination(&limit, &offset, false))
}

func TestRegistry(t *testing.T) {
	d := testDialect()
	dialect.Register(d)

	got, ok := dialect.Get("TEST")
	require.True(t, ok)
	assert.Same(t, d, got)

	got, err := dialect.Require("test")
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = dialect.Require("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)
	assert.Contains(t, dialect.List(), "test")
}

func TestNeedsQuotingConsistency(t *testing.T) {
	// The quoting decision is dialect-independent: same answer for the
	// same identifier everywhere.
	for _, name := range []string{"Users", "order", "select", "имя", "a b", "ok_1"} {
		want := dialect.NeedsQuoting(name)
		assert.Equal(t, want, dialect.NeedsQuoting(name), name)
	}
	assert.False(t, dialect.NeedsQuoting("Users"))
	assert.True(t, dialect.NeedsQuoting("order"))
	assert.True(t, dialect.NeedsQuoting("имя"))
}
