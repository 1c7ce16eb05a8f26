package postgres

import "github.com/leapstack-labs/lql/pkg/dialect"

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect.
var Postgres = dialect.New(Config)
