package core

import (
	"strings"

	"github.com/leapstack-labs/lql/pkg/token"
)

// ---------- Expression Types ----------

// ColumnRef represents a column reference, optionally qualified by a
// table name, relation alias, or lambda row binding.
type ColumnRef struct {
	NodeInfo
	Table  string // optional qualifier
	Column string
}

func (*ColumnRef) exprNode() {}

// LiteralType represents the type of a literal.
type LiteralType int

// LiteralType constants for LQL literal value types.
const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal represents a literal constant. Value holds the source
// spelling: the raw digits for numbers, the unescaped text for strings,
// "true"/"false" for booleans, empty for null.
type Literal struct {
	NodeInfo
	Type  LiteralType
	Value string
}

func (*Literal) exprNode() {}

// BinaryExpr represents a binary expression. Op is one of the
// arithmetic, comparison, logical, or concatenation operator tokens.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a unary prefix expression (-x, +x).
type UnaryExpr struct {
	NodeInfo
	Op   token.TokenType
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// FuncCall represents a function call.
type FuncCall struct {
	NodeInfo
	Name string
	Args []Expr
	Star bool // count(*)
}

func (*FuncCall) exprNode() {}

// IsAggregate returns true if the call names one of the canonical
// aggregate functions.
func (f *FuncCall) IsAggregate() bool {
	return IsAggregateFunc(f.Name)
}

// Lambda represents a fn(row) => expr predicate. The row binding is
// scoped to the stage the lambda decorates; column references
// qualified by Param refer to the current row and compile unqualified.
type Lambda struct {
	NodeInfo
	Param string
	Body  Expr
}

func (*Lambda) exprNode() {}

// ParamRef represents an @name parameter reference. It is opaque to
// the compiler and passes through into the generated SQL as a named
// placeholder.
type ParamRef struct {
	NodeInfo
	Name string // without the leading @
}

func (*ParamRef) exprNode() {}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	NodeInfo
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// StarExpr represents a * projection, optionally qualified (t.*).
type StarExpr struct {
	NodeInfo
	Table string
}

func (*StarExpr) exprNode() {}

// aggregateFuncs is the closed set of canonical aggregate function names.
var aggregateFuncs = map[string]bool{
	"count": true,
	"sum":   true,
	"avg":   true,
	"min":   true,
	"max":   true,
}

// IsAggregateFunc reports whether name (case-insensitive) is one of
// the canonical aggregate functions.
func IsAggregateFunc(name string) bool {
	return aggregateFuncs[strings.ToLower(name)]
}

// IsBooleanExpr reports whether e is structurally usable as a predicate:
// comparisons, and/or combinations, boolean literals, and expressions
// whose truth is only knowable at runtime (columns, calls, parameters).
// Arithmetic, string, numeric, and null literals are not.
func IsBooleanExpr(e Expr) bool {
	switch v := e.(type) {
	case *BinaryExpr:
		switch v.Op {
		case token.AND, token.OR,
			token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
			return true
		}
		return false
	case *Literal:
		return v.Type == LiteralBool
	case *ColumnRef, *FuncCall, *ParamRef:
		return true
	case *ParenExpr:
		return IsBooleanExpr(v.Expr)
	case *Lambda:
		return IsBooleanExpr(v.Body)
	default:
		return false
	}
}
