package sqlite

import "github.com/leapstack-labs/lql/pkg/dialect"

func init() {
	dialect.Register(SQLite)
}

// SQLite is the SQLite dialect.
var SQLite = dialect.New(Config)
