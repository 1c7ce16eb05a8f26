package compile_test

import (
	"testing"

	"github.com/leapstack-labs/lql/pkg/compile"
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/dialect"
	"github.com/leapstack-labs/lql/pkg/dialects/postgres"
	"github.com/leapstack-labs/lql/pkg/dialects/sqlite"
	"github.com/leapstack-labs/lql/pkg/dialects/sqlserver"
	"github.com/leapstack-labs/lql/pkg/parser"
	"github.com/leapstack-labs/lql/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string, d *dialect.Dialect) *compile.Result {
	t.Helper()
	pipe, err := parser.Parse(src)
	require.NoError(t, err)
	res, err := compile.Compile(pipe, d)
	require.NoError(t, err)
	return res
}

func TestSelectStarAllDialects(t *testing.T) {
	for _, d := range []*dialect.Dialect{sqlite.SQLite, postgres.Postgres, sqlserver.SQLServer} {
		res := mustCompile(t, "Customer |> select(*)", d)
		assert.Equal(t, "SELECT * FROM Customer", res.SQL, d.Name())
		assert.Empty(t, res.Params)
	}
}

func TestFilterLambda(t *testing.T) {
	res := mustCompile(t,
		"Users |> filter(fn(row) => row.Age > 18 and row.Status = 'active') |> select(Users.Name)",
		sqlite.SQLite)
	assert.Equal(t, "SELECT Users.Name FROM Users WHERE Age > 18 AND Status = 'active'", res.SQL)
}

func TestFilterConjunction(t *testing.T) {
	res := mustCompile(t,
		"Users |> filter(Age > 18) |> filter(Status = 'active') |> select(*)",
		sqlite.SQLite)
	assert.Equal(t, "SELECT * FROM Users WHERE Age > 18 AND Status = 'active'", res.SQL)
}

func TestFilterConjunctionParenthesizesOr(t *testing.T) {
	res := mustCompile(t,
		"Users |> filter(Age > 65 or Age < 18) |> filter(Active = true) |> select(*)",
		postgres.Postgres)
	assert.Equal(t, "SELECT * FROM Users WHERE (Age > 65 OR Age < 18) AND Active = TRUE", res.SQL)
}

func TestJoinOrderPreserved(t *testing.T) {
	res := mustCompile(t,
		"Users as u |> join(Orders as o, on = u.Id = o.UserId) |> left_join(Payments as p, on p.OrderId = o.Id) |> select(u.Name, o.Total)",
		sqlite.SQLite)
	assert.Equal(t,
		"SELECT u.Name, o.Total FROM Users AS u JOIN Orders AS o ON u.Id = o.UserId LEFT JOIN Payments AS p ON p.OrderId = o.Id",
		res.SQL)
}

func TestGroupByHaving(t *testing.T) {
	res := mustCompile(t,
		"Orders |> group_by(CustomerId) |> having(count(*) > 5) |> select(CustomerId, count(*) as n)",
		postgres.Postgres)
	assert.Equal(t,
		"SELECT CustomerId, COUNT(*) AS n FROM Orders GROUP BY CustomerId HAVING COUNT(*) > 5",
		res.SQL)
}

// Having compiles independently of the projection: an aggregate only in
// having is still valid.
func TestHavingAggregateNotProjected(t *testing.T) {
	res := mustCompile(t,
		"Orders |> group_by(CustomerId) |> having(sum(Total) > 100) |> select(CustomerId)",
		sqlite.SQLite)
	assert.Equal(t,
		"SELECT CustomerId FROM Orders GROUP BY CustomerId HAVING SUM(Total) > 100",
		res.SQL)
}

func TestPagination(t *testing.T) {
	src := "Users |> order_by(Name) |> limit(10) |> offset(20) |> select(*)"

	assert.Equal(t, "SELECT * FROM Users ORDER BY Name LIMIT 10 OFFSET 20",
		mustCompile(t, src, sqlite.SQLite).SQL)
	assert.Equal(t, "SELECT * FROM Users ORDER BY Name LIMIT 10 OFFSET 20",
		mustCompile(t, src, postgres.Postgres).SQL)
	assert.Equal(t, "SELECT * FROM Users ORDER BY Name OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY",
		mustCompile(t, src, sqlserver.SQLServer).SQL)
}

func TestPaginationWithoutOrder(t *testing.T) {
	src := "Users |> limit(10) |> select(*)"

	assert.Equal(t, "SELECT * FROM Users LIMIT 10",
		mustCompile(t, src, sqlite.SQLite).SQL)

	// SQL Server synthesizes a neutral ORDER BY by default.
	assert.Equal(t, "SELECT * FROM Users ORDER BY (SELECT NULL) OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY",
		mustCompile(t, src, sqlserver.SQLServer).SQL)
}

func TestStrictPagination(t *testing.T) {
	pipe, err := parser.Parse("Users |> limit(10) |> select(*)")
	require.NoError(t, err)

	_, err = compile.CompileWithOptions(pipe, sqlserver.SQLServer, compile.Options{StrictPagination: true})
	require.Error(t, err)
	var cerr *compile.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compile.KindPaginationRequiresOrder, cerr.Kind)
	assert.Equal(t, "sqlserver", cerr.Dialect)

	// Strictness only bites on dialects that require ordered pagination.
	res, err := compile.CompileWithOptions(pipe, sqlite.SQLite, compile.Options{StrictPagination: true})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Users LIMIT 10", res.SQL)
}

// Clause order is fixed regardless of textual stage order: a limit
// written before a filter still applies last.
func TestStageOrderIndependence(t *testing.T) {
	res := mustCompile(t, "Users |> limit(10) |> filter(Age > 18) |> select(Name)", sqlite.SQLite)
	assert.Equal(t, "SELECT Name FROM Users WHERE Age > 18 LIMIT 10", res.SQL)

	res = mustCompile(t, "Users |> select(Name) |> filter(Age > 18)", sqlite.SQLite)
	assert.Equal(t, "SELECT Name FROM Users WHERE Age > 18", res.SQL)
}

func TestUnionAllByDefault(t *testing.T) {
	res := mustCompile(t,
		"Old_Users |> select(Name) |> union(New_Users |> select(Name))",
		sqlite.SQLite)
	assert.Equal(t, "SELECT Name FROM Old_Users UNION ALL SELECT Name FROM New_Users", res.SQL)
}

func TestUnionDistinct(t *testing.T) {
	res := mustCompile(t,
		"Old_Users |> select(Name) |> union(New_Users |> select(Name)) |> distinct",
		sqlite.SQLite)
	assert.Equal(t, "SELECT Name FROM Old_Users UNION SELECT Name FROM New_Users", res.SQL)
}

func TestUnionWithCombinedOrder(t *testing.T) {
	res := mustCompile(t,
		"A |> select(X) |> union(B |> select(X)) |> order_by(X desc) |> limit(5)",
		postgres.Postgres)
	assert.Equal(t, "SELECT X FROM A UNION ALL SELECT X FROM B ORDER BY X DESC LIMIT 5", res.SQL)
}

func TestUnionArmWithOrderRejected(t *testing.T) {
	pipe, err := parser.Parse("A |> union(B |> order_by(X)) |> select(*)")
	require.NoError(t, err)

	_, err = compile.Compile(pipe, sqlite.SQLite)
	var cerr *compile.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compile.KindUnsupportedFeature, cerr.Kind)
}

func TestDistinctSelect(t *testing.T) {
	res := mustCompile(t, "Users |> distinct |> select(Country)", sqlite.SQLite)
	assert.Equal(t, "SELECT DISTINCT Country FROM Users", res.SQL)
}

func TestParamsCollectedInFirstUseOrder(t *testing.T) {
	res := mustCompile(t,
		"Users |> filter(Age > @min_age and Status = @status) |> having(count(*) > @min_age) |> group_by(Status) |> select(*)",
		sqlite.SQLite)
	assert.Equal(t,
		"SELECT * FROM Users WHERE Age > @min_age AND Status = @status GROUP BY Status HAVING COUNT(*) > @min_age",
		res.SQL)
	assert.Equal(t, []string{"min_age", "status"}, res.Params)
}

func TestPositionalParams(t *testing.T) {
	src := "Users |> filter(Age > @min_age and Score > @min_age and Status = @status) |> select(*)"

	tests := []struct {
		dialect *dialect.Dialect
		sql     string
		params  []string
	}{
		{
			sqlite.SQLite,
			"SELECT * FROM Users WHERE Age > ? AND Score > ? AND Status = ?",
			[]string{"min_age", "min_age", "status"},
		},
		{
			postgres.Postgres,
			"SELECT * FROM Users WHERE Age > $1 AND Score > $1 AND Status = $2",
			[]string{"min_age", "status"},
		},
		{
			sqlserver.SQLServer,
			"SELECT * FROM Users WHERE Age > @p1 AND Score > @p1 AND Status = @p2",
			[]string{"min_age", "status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name(), func(t *testing.T) {
			pipe, err := parser.Parse(src)
			require.NoError(t, err)
			res, err := compile.CompileWithOptions(pipe, tt.dialect, compile.Options{PositionalParams: true})
			require.NoError(t, err)
			assert.Equal(t, tt.sql, res.SQL)
			assert.Equal(t, tt.params, res.Params)
		})
	}
}

func TestReservedIdentifierQuoting(t *testing.T) {
	src := "order |> filter(user = 'bob') |> select(group)"

	assert.Equal(t, `SELECT "group" FROM "order" WHERE "user" = 'bob'`,
		mustCompile(t, src, sqlite.SQLite).SQL)
	assert.Equal(t, "SELECT [group] FROM [order] WHERE [user] = 'bob'",
		mustCompile(t, src, sqlserver.SQLServer).SQL)
}

func TestConcatOperator(t *testing.T) {
	src := "Users |> select(FirstName || ' ' || LastName as FullName)"

	assert.Equal(t, "SELECT FirstName || ' ' || LastName AS FullName FROM Users",
		mustCompile(t, src, postgres.Postgres).SQL)
	assert.Equal(t, "SELECT FirstName + ' ' + LastName AS FullName FROM Users",
		mustCompile(t, src, sqlserver.SQLServer).SQL)
}

func TestFunctionTranslation(t *testing.T) {
	src := "Users |> select(length(Name) as NameLen, ifnull(Nick, Name) as Display)"

	assert.Equal(t, "SELECT LENGTH(Name) AS NameLen, IFNULL(Nick, Name) AS Display FROM Users",
		mustCompile(t, src, sqlite.SQLite).SQL)
	assert.Equal(t, "SELECT LENGTH(Name) AS NameLen, COALESCE(Nick, Name) AS Display FROM Users",
		mustCompile(t, src, postgres.Postgres).SQL)
	assert.Equal(t, "SELECT LEN(Name) AS NameLen, ISNULL(Nick, Name) AS Display FROM Users",
		mustCompile(t, src, sqlserver.SQLServer).SQL)
}

func TestBooleanLiterals(t *testing.T) {
	src := "Users |> filter(IsActive = true) |> select(*)"

	assert.Equal(t, "SELECT * FROM Users WHERE IsActive = 1",
		mustCompile(t, src, sqlite.SQLite).SQL)
	assert.Equal(t, "SELECT * FROM Users WHERE IsActive = TRUE",
		mustCompile(t, src, postgres.Postgres).SQL)
	assert.Equal(t, "SELECT * FROM Users WHERE IsActive = 1",
		mustCompile(t, src, sqlserver.SQLServer).SQL)
}

func TestParenthesesPreserved(t *testing.T) {
	res := mustCompile(t, "Items |> select(Price * (1 + TaxRate) as Total)", sqlite.SQLite)
	assert.Equal(t, "SELECT Price * (1 + TaxRate) AS Total FROM Items", res.SQL)
}

func TestPrecedenceParenthesization(t *testing.T) {
	// Right-nested same-precedence subtraction needs parens to keep
	// the tree's meaning; left-nested does not.
	pipe := &core.Pipeline{
		Source: &core.Relation{Table: "T"},
		Stages: []core.Stage{
			&core.SelectStage{Items: []core.SelectItem{{
				Expr: &core.BinaryExpr{
					Left: &core.Literal{Type: core.LiteralNumber, Value: "1"},
					Op:   token.MINUS,
					Right: &core.BinaryExpr{
						Left:  &core.Literal{Type: core.LiteralNumber, Value: "2"},
						Op:    token.MINUS,
						Right: &core.Literal{Type: core.LiteralNumber, Value: "3"},
					},
				},
			}}},
		},
	}
	res, err := compile.Compile(pipe, sqlite.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1 - (2 - 3) FROM T", res.SQL)
}

func TestNullLiteral(t *testing.T) {
	res := mustCompile(t, "Users |> filter(Nick <> null) |> select(*)", sqlite.SQLite)
	assert.Equal(t, "SELECT * FROM Users WHERE Nick <> NULL", res.SQL)
}

func TestStringEscaping(t *testing.T) {
	res := mustCompile(t, "Users |> filter(Name = 'O''Brien') |> select(*)", sqlite.SQLite)
	assert.Equal(t, "SELECT * FROM Users WHERE Name = 'O''Brien'", res.SQL)
}

func TestIdempotence(t *testing.T) {
	src := "Users as u |> join(Orders as o, on u.Id = o.UserId) |> filter(o.Total > @min) |> order_by(o.Total desc) |> limit(10) |> select(u.Name, o.Total)"
	for _, d := range []*dialect.Dialect{sqlite.SQLite, postgres.Postgres, sqlserver.SQLServer} {
		first := mustCompile(t, src, d)
		second := mustCompile(t, src, d)
		assert.Equal(t, first.SQL, second.SQL, d.Name())
		assert.Equal(t, first.Params, second.Params, d.Name())
	}
}

func TestTypeMismatchOnHandBuiltPipeline(t *testing.T) {
	// The parser rejects this shape itself; Compile re-checks because
	// it also accepts hand-built pipelines.
	pipe := &core.Pipeline{
		Source: &core.Relation{Table: "Users"},
		Stages: []core.Stage{
			&core.FilterStage{Predicate: &core.Literal{Type: core.LiteralNumber, Value: "1"}},
		},
	}
	_, err := compile.Compile(pipe, sqlite.SQLite)
	var cerr *compile.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compile.KindTypeMismatch, cerr.Kind)
	assert.Equal(t, "filter", cerr.Stage)
}

type customStage struct{ core.StageInfo }

func (*customStage) Name() string { return "pivot" }

func TestUnsupportedStage(t *testing.T) {
	pipe := &core.Pipeline{
		Source: &core.Relation{Table: "Users"},
		Stages: []core.Stage{&customStage{}},
	}
	_, err := compile.Compile(pipe, sqlserver.SQLServer)
	var cerr *compile.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, compile.KindUnsupportedFeature, cerr.Kind)
	assert.Equal(t, "sqlserver", cerr.Dialect)
	assert.Contains(t, cerr.Feature, "pivot")
}

func TestNilPipelinePanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = compile.Compile(nil, sqlite.SQLite)
	})
}

