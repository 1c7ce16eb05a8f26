// Package sqlite provides a core.Inspector backed by a live SQLite
// database, reading sqlite_master and PRAGMA table_info.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/leapstack-labs/lql/pkg/core"

	// Register the pure-Go sqlite driver.
	_ "modernc.org/sqlite"
)

// Inspector reads schema information from a SQLite database.
type Inspector struct {
	db    *sql.DB
	owned bool
}

// New wraps an existing connection. The caller keeps ownership of db.
func New(db *sql.DB) *Inspector {
	return &Inspector{db: db}
}

// Open opens the SQLite database at path (":memory:" works) and
// returns an inspector that owns the connection.
func Open(path string) (*Inspector, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return &Inspector{db: db, owned: true}, nil
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
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view')
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
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
	// PRAGMA table_info does not accept bind parameters; quote the
	// name instead.
	quoted := `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	rows, err := i.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoted))
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	ts := &core.TableSchema{Name: name}
	for rows.Next() {
		var cid, notNull, pk int
		var colName, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		ts.Columns = append(ts.Columns, core.ColumnInfo{
			Name:     colName,
			Type:     affinity(colType),
			Nullable: notNull == 0,
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

// affinity maps a declared column type to a portable tag using
// SQLite's type affinity rules.
func affinity(declared string) core.PortableType {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "INT"):
		return core.TypeInt
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return core.TypeText
	case t == "" || strings.Contains(t, "BLOB"):
		return core.TypeBlob
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return core.TypeReal
	default:
		// NUMERIC affinity; real is the closest portable tag.
		return core.TypeReal
	}
}
