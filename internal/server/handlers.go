package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leapstack-labs/lql/pkg/compile"
	"github.com/leapstack-labs/lql/pkg/dialect"
	"github.com/leapstack-labs/lql/pkg/lql"
	"github.com/leapstack-labs/lql/pkg/parser"
)

// compileRequest is the body of POST /v1/compile and /v1/check.
type compileRequest struct {
	Source           string `json:"source"`
	Dialect          string `json:"dialect"`
	StrictPagination *bool  `json:"strict_pagination,omitempty"`
}

// compileResponse is the success body of POST /v1/compile.
type compileResponse struct {
	SQL         string   `json:"sql"`
	Params      []string `json:"params"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// checkResponse is the body of POST /v1/check.
type checkResponse struct {
	Valid  bool           `json:"valid"`
	Errors []errorPayload `json:"errors,omitempty"`
}

// errorPayload carries a structured compile or parse error.
type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Stage   string `json:"stage,omitempty"`
	Dialect string `json:"dialect,omitempty"`
}

type errorPayloadWrapper struct {
	Error errorPayload `json:"error"`
}

const errKindInternal = "internal"
const errKindBadRequest = "bad_request"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDialects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"dialects": lql.Dialects()})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCompileRequest(w, r)
	if !ok {
		return
	}

	d, err := dialect.Require(req.Dialect)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pipeline, err := parser.Parse(req.Source)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := compile.CompileWithOptions(pipeline, d, compile.Options{
		StrictPagination: s.strictFor(req),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := compileResponse{SQL: out.SQL, Params: out.Params}
	if s.inspector != nil {
		diags, checkErr := compile.Check(r.Context(), pipeline, s.inspector)
		if checkErr != nil {
			s.logger.Warn("schema check failed",
				"request_id", RequestID(r.Context()),
				"error", checkErr,
			)
		}
		for _, diag := range diags {
			resp.Diagnostics = append(resp.Diagnostics, diag.String())
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCompileRequest(w, r)
	if !ok {
		return
	}

	_, err := lql.TranspileWithOptions(req.Source, req.Dialect, compile.Options{
		StrictPagination: s.strictFor(req),
	})
	if err != nil {
		payload := toErrorPayload(err)
		writeJSON(w, http.StatusOK, checkResponse{Valid: false, Errors: []errorPayload{payload}})
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Valid: true})
}

func (s *Server) decodeCompileRequest(w http.ResponseWriter, r *http.Request) (compileRequest, bool) {
	var req compileRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayloadWrapper{errorPayload{
			Kind:    errKindBadRequest,
			Message: "invalid request body: " + err.Error(),
		}})
		return req, false
	}
	if req.Source == "" {
		writeJSON(w, http.StatusBadRequest, errorPayloadWrapper{errorPayload{
			Kind:    errKindBadRequest,
			Message: "source must not be empty",
		}})
		return req, false
	}
	if req.Dialect == "" {
		req.Dialect = "sqlite"
	}
	return req, true
}

func (s *Server) strictFor(req compileRequest) bool {
	if req.StrictPagination != nil {
		return *req.StrictPagination
	}
	return s.strict
}

// writeError maps transpilation errors onto HTTP status codes:
// unknown dialect and query errors are the client's fault, anything
// else is ours.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	payload := toErrorPayload(err)
	status := http.StatusUnprocessableEntity
	if errors.Is(err, dialect.ErrUnknownDialect) {
		status = http.StatusBadRequest
	} else if payload.Kind == errKindInternal {
		status = http.StatusInternalServerError
		s.logger.Error("compile failed",
			"request_id", RequestID(r.Context()),
			"error", err,
		)
	}
	writeJSON(w, status, errorPayloadWrapper{payload})
}

func toErrorPayload(err error) errorPayload {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return errorPayload{
			Kind:    string(parseErr.Kind),
			Message: parseErr.Message,
			Line:    parseErr.Pos.Line,
			Column:  parseErr.Pos.Column,
			Stage:   parseErr.Stage,
		}
	}
	var compileErr *compile.Error
	if errors.As(err, &compileErr) {
		return errorPayload{
			Kind:    string(compileErr.Kind),
			Message: compileErr.Message,
			Line:    compileErr.Pos.Line,
			Column:  compileErr.Pos.Column,
			Stage:   compileErr.Stage,
			Dialect: compileErr.Dialect,
		}
	}
	if errors.Is(err, dialect.ErrUnknownDialect) {
		return errorPayload{Kind: errKindBadRequest, Message: err.Error()}
	}
	return errorPayload{Kind: errKindInternal, Message: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
