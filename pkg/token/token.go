// Package token defines the lexical token types for LQL pipelines.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT  // identifier
	NUMBER // 123, 45.67, 1e10
	STRING // 'hello'
	PARAM  // @name

	// Operators
	PIPE   // |>
	ARROW  // =>
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	DPIPE  // ||
	EQ     // =
	NE     // <> or !=
	LT     // <
	GT     // >
	LE     // <=
	GE     // >=
	DOT    // .
	COMMA  // ,
	LPAREN // (
	RPAREN // )

	// Keywords (alphabetical)
	AND
	AS
	ASC
	DESC
	DISTINCT
	FALSE
	FILTER
	FN
	GROUPBY // group_by
	HAVING
	JOIN
	LEFTJOIN // left_join
	LIMIT
	NULL
	OFFSET
	ON
	OR
	ORDERBY // order_by
	SELECT
	TRUE
	UNION
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	PARAM:  "PARAM",

	PIPE:   "|>",
	ARROW:  "=>",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	DPIPE:  "||",
	EQ:     "=",
	NE:     "<>",
	LT:     "<",
	GT:     ">",
	LE:     "<=",
	GE:     ">=",
	DOT:    ".",
	COMMA:  ",",
	LPAREN: "(",
	RPAREN: ")",

	AND:      "and",
	AS:       "as",
	ASC:      "asc",
	DESC:     "desc",
	DISTINCT: "distinct",
	FALSE:    "false",
	FILTER:   "filter",
	FN:       "fn",
	GROUPBY:  "group_by",
	HAVING:   "having",
	JOIN:     "join",
	LEFTJOIN: "left_join",
	LIMIT:    "limit",
	NULL:     "null",
	OFFSET:   "offset",
	ON:       "on",
	OR:       "or",
	ORDERBY:  "order_by",
	SELECT:   "select",
	TRUE:     "true",
	UNION:    "union",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"and":       AND,
	"as":        AS,
	"asc":       ASC,
	"desc":      DESC,
	"distinct":  DISTINCT,
	"false":     FALSE,
	"filter":    FILTER,
	"fn":        FN,
	"group_by":  GROUPBY,
	"having":    HAVING,
	"join":      JOIN,
	"left_join": LEFTJOIN,
	"limit":     LIMIT,
	"null":      NULL,
	"offset":    OFFSET,
	"on":        ON,
	"or":        OR,
	"order_by":  ORDERBY,
	"select":    SELECT,
	"true":      TRUE,
	"union":     UNION,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned. Keyword matching is case-insensitive;
// callers pass the lowercased form.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= AND && t <= UNION
}

// IsOperator returns true if the token type is an operator.
func IsOperator(t TokenType) bool {
	return t >= PIPE && t <= RPAREN
}

// IsStage returns true if the token type introduces a pipeline stage.
func IsStage(t TokenType) bool {
	switch t {
	case FILTER, JOIN, LEFTJOIN, GROUPBY, HAVING, ORDERBY, LIMIT, OFFSET, DISTINCT, UNION, SELECT:
		return true
	}
	return false
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
