package core

import (
	"context"
	"errors"
	"strings"
)

// PortableType is an engine-neutral column type tag.
type PortableType string

// Portable column types.
const (
	TypeText PortableType = "text"
	TypeInt  PortableType = "int"
	TypeReal PortableType = "real"
	TypeBlob PortableType = "blob"
)

// ErrUnknownTable is returned by inspectors when a table does not exist.
var ErrUnknownTable = errors.New("unknown table")

// ColumnInfo describes one column of an inspected table.
type ColumnInfo struct {
	Name     string
	Type     PortableType
	Nullable bool
}

// TableSchema describes an inspected table.
type TableSchema struct {
	Name    string
	Columns []ColumnInfo
}

// Column returns the column with the given name, matched
// case-insensitively.
func (t *TableSchema) Column(name string) (ColumnInfo, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// Inspector supplies schema information for diagnostic checks. The
// compiler never requires an inspector for a successful compile;
// implementations may read a live catalog or a static description.
type Inspector interface {
	// Tables lists the table names visible to the inspector.
	Tables(ctx context.Context) ([]string, error)

	// Table returns the schema for a single table. Implementations
	// return an error wrapping ErrUnknownTable when it does not exist.
	Table(ctx context.Context, name string) (*TableSchema, error)
}
