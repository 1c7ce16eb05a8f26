package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leapstack-labs/lql/internal/server"
	"github.com/leapstack-labs/lql/internal/testutil"
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/inspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	return server.New(server.Config{
		Addr:   ":0",
		Logger: testutil.NewTestLogger(t),
	})
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDialects(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/dialects", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Dialects []string `json:"dialects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Dialects, "sqlite")
	assert.Contains(t, resp.Dialects, "postgres")
	assert.Contains(t, resp.Dialects, "sqlserver")
}

func TestCompile(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv.Handler(), "/v1/compile", map[string]string{
		"source":  "Users |> filter(fn(u) => u.Age >= @min_age) |> select(u.Name)",
		"dialect": "postgres",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		SQL    string   `json:"sql"`
		Params []string `json:"params"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SELECT Name FROM Users WHERE Age >= @min_age", resp.SQL)
	assert.Equal(t, []string{"min_age"}, resp.Params)
}

func TestCompileDefaultsToSQLite(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv.Handler(), "/v1/compile", map[string]string{
		"source": "Users |> limit(10)",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		SQL string `json:"sql"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SELECT * FROM Users LIMIT 10", resp.SQL)
}

func TestCompileParseError(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv.Handler(), "/v1/compile", map[string]string{
		"source":  "Users |> frobnicate(x)",
		"dialect": "sqlite",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error struct {
			Kind   string `json:"kind"`
			Line   int    `json:"line"`
			Column int    `json:"column"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unknown_stage", resp.Error.Kind)
	assert.Equal(t, 1, resp.Error.Line)
	assert.Equal(t, 10, resp.Error.Column)
}

func TestCompileUnknownDialect(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv.Handler(), "/v1/compile", map[string]string{
		"source":  "Users |> select(*)",
		"dialect": "oracle",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompileStrictPaginationOverride(t *testing.T) {
	srv := newTestServer(t)
	strict := true
	rec := postJSON(t, srv.Handler(), "/v1/compile", map[string]any{
		"source":            "Users |> offset(10)",
		"dialect":           "sqlserver",
		"strict_pagination": &strict,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error struct {
			Kind    string `json:"kind"`
			Dialect string `json:"dialect"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pagination_requires_order", resp.Error.Kind)
	assert.Equal(t, "sqlserver", resp.Error.Dialect)
}

func TestCompileEmptySource(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv.Handler(), "/v1/compile", map[string]string{
		"dialect": "sqlite",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckValid(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv.Handler(), "/v1/check", map[string]string{
		"source":  "Users |> select(*)",
		"dialect": "sqlite",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true}`, rec.Body.String())
}

func TestCheckInvalid(t *testing.T) {
	srv := newTestServer(t)
	rec := postJSON(t, srv.Handler(), "/v1/check", map[string]string{
		"source":  "Users |> filter(fn(u) => u.Age",
		"dialect": "sqlite",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Kind string `json:"kind"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "malformed", resp.Errors[0].Kind)
}

func TestCompileWithDiagnostics(t *testing.T) {
	ins := inspect.NewStatic(&core.TableSchema{
		Name: "Users",
		Columns: []core.ColumnInfo{
			{Name: "Id", Type: core.TypeInt},
			{Name: "Name", Type: core.TypeText},
		},
	})
	srv := server.New(server.Config{
		Addr:      ":0",
		Inspector: ins,
		Logger:    testutil.NewTestLogger(t),
	})

	rec := postJSON(t, srv.Handler(), "/v1/compile", map[string]string{
		"source":  "Users |> select(Email)",
		"dialect": "sqlite",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		SQL         string   `json:"sql"`
		Diagnostics []string `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SELECT Email FROM Users", resp.SQL)
	require.Len(t, resp.Diagnostics, 1)
	assert.Contains(t, resp.Diagnostics[0], "Email")
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "test-id-42")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "test-id-42", rec.Header().Get("X-Request-Id"))
}

func TestRequestIDGenerated(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
