package sqlserver

import "github.com/leapstack-labs/lql/pkg/dialect"

func init() {
	dialect.Register(SQLServer)
}

// SQLServer is the SQL Server dialect.
var SQLServer = dialect.New(Config)
