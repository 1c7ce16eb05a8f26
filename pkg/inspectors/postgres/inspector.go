// Package postgres provides a core.Inspector backed by a live
// PostgreSQL database, reading information_schema.columns.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/leapstack-labs/lql/pkg/core"

	// Register the pgx stdlib driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultSchema is inspected when no schema is configured.
const DefaultSchema = "public"

// Inspector reads schema information from a PostgreSQL database.
type Inspector struct {
	db     *sql.DB
	schema string
	owned  bool
}

// New wraps an existing connection. The caller keeps ownership of db.
// An empty schema means DefaultSchema.
func New(db *sql.DB, schema string) *Inspector {
	if schema == "" {
		schema = DefaultSchema
	}
	return &Inspector{db: db, schema: schema}
}

// Open connects with a pgx DSN and returns an inspector that owns the
// connection.
func Open(dsn, schema string) (*Inspector, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	ins := New(db, schema)
	ins.owned = true
	return ins, nil
}

// Close releases the connection when the inspector owns it.
func (i *Inspector) Close() error {
	if !i.owned {
		return nil
	}
	return i.db.Close()
}

// Tables implements core.Inspector.
func (i *Inspector) Tables(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1
		ORDER BY table_name
	`, i.schema)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Table implements core.Inspector.
func (i *Inspector) Table(ctx context.Context, name string) (*core.TableSchema, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`, i.schema, name)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	ts := &core.TableSchema{Name: name}
	for rows.Next() {
		var colName, dataType, nullable string
		if err := rows.Scan(&colName, &dataType, &nullable); err != nil {
			return nil, err
		}
		ts.Columns = append(ts.Columns, core.ColumnInfo{
			Name:     colName,
			Type:     portableType(dataType),
			Nullable: nullable == "YES",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ts.Columns) == 0 {
		return nil, fmt.Errorf("table %s: %w", name, core.ErrUnknownTable)
	}
	return ts, nil
}

// portableType maps an information_schema data_type to a portable tag.
func portableType(dataType string) core.PortableType {
	switch strings.ToLower(dataType) {
	case "smallint", "integer", "bigint", "smallserial", "serial", "bigserial", "boolean":
		return core.TypeInt
	case "real", "double precision", "numeric", "decimal", "money":
		return core.TypeReal
	case "bytea":
		return core.TypeBlob
	default:
		// text, varchar, timestamps, json, uuid, and the long tail all
		// travel as text.
		return core.TypeText
	}
}
