package inspect_test

import (
	"context"
	"testing"

	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/inspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
tables:
  Users:
    - {name: Id, type: int}
    - {name: Name, type: text, nullable: true}
    - {name: Score, type: real}
  Blobs:
    - {name: Data, type: blob}
`

func TestParseCatalog(t *testing.T) {
	ins, err := inspect.ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	names, err := ins.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Blobs", "Users"}, names)

	ts, err := ins.Table(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, ts.Columns, 3)

	col, ok := ts.Column("name")
	require.True(t, ok)
	assert.Equal(t, core.TypeText, col.Type)
	assert.True(t, col.Nullable)

	col, ok = ts.Column("Score")
	require.True(t, ok)
	assert.Equal(t, core.TypeReal, col.Type)
	assert.False(t, col.Nullable)
}

func TestParseCatalogBadType(t *testing.T) {
	_, err := inspect.ParseCatalog([]byte("tables:\n  T:\n    - {name: X, type: varchar2}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "varchar2")
}

func TestUnknownTable(t *testing.T) {
	ins := inspect.NewStatic(&core.TableSchema{Name: "Users"})
	_, err := ins.Table(context.Background(), "Ghosts")
	require.ErrorIs(t, err, core.ErrUnknownTable)
}
