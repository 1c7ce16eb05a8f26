package compile

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/token"
)

// Operator precedence levels, loosest binding first. Mirrors the
// parser's expression grammar so rendered text parenthesizes exactly
// where the tree shape demands it and nowhere else.
const (
	precLowest = iota
	precOr
	precAnd
	precComparison
	precAdditive
	precMultiplicative
	precUnary
	precAtom
)

func opPrecedence(op token.TokenType) int {
	switch op {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		return precComparison
	case token.PLUS, token.MINUS, token.DPIPE:
		return precAdditive
	case token.STAR, token.SLASH:
		return precMultiplicative
	default:
		return precAtom
	}
}

func exprPrecedence(e core.Expr) int {
	switch v := e.(type) {
	case *core.BinaryExpr:
		return opPrecedence(v.Op)
	case *core.UnaryExpr:
		return precUnary
	default:
		return precAtom
	}
}

func (p *printer) expr(e core.Expr) error {
	switch v := e.(type) {
	case *core.Literal:
		p.literal(v)
		return nil
	case *core.ColumnRef:
		p.columnRef(v)
		return nil
	case *core.BinaryExpr:
		return p.binaryExpr(v)
	case *core.UnaryExpr:
		return p.unaryExpr(v)
	case *core.FuncCall:
		return p.funcCall(v)
	case *core.Lambda:
		return p.lambda(v)
	case *core.ParamRef:
		p.param(v.Name)
		return nil
	case *core.ParenExpr:
		p.write("(")
		if err := p.expr(v.Expr); err != nil {
			return err
		}
		p.write(")")
		return nil
	case *core.StarExpr:
		p.starExpr(v)
		return nil
	case nil:
		panic("compile: nil expression reached the compiler")
	default:
		// The parser cannot produce this; a hand-built AST did.
		panic(fmt.Sprintf("compile: unknown expression node %T", e))
	}
}

// childExpr renders a binary operand, parenthesizing when the child
// binds looser than its parent, or equally loose on the right side
// (every LQL binary operator is left-associative).
func (p *printer) childExpr(e core.Expr, parent int, right bool) error {
	prec := exprPrecedence(e)
	need := prec < parent || (right && prec == parent)
	if need {
		p.write("(")
	}
	if err := p.expr(e); err != nil {
		return err
	}
	if need {
		p.write(")")
	}
	return nil
}

func (p *printer) binaryExpr(e *core.BinaryExpr) error {
	prec := opPrecedence(e.Op)
	if err := p.childExpr(e.Left, prec, false); err != nil {
		return err
	}
	p.space()
	p.write(p.opText(e.Op))
	p.space()
	return p.childExpr(e.Right, prec, true)
}

func (p *printer) opText(op token.TokenType) string {
	switch op {
	case token.AND:
		return "AND"
	case token.OR:
		return "OR"
	case token.DPIPE:
		return p.dialect.StringConcatOperator()
	default:
		return op.String()
	}
}

func (p *printer) unaryExpr(e *core.UnaryExpr) error {
	p.write(e.Op.String())
	return p.childExpr(e.Expr, precUnary, false)
}

func (p *printer) funcCall(e *core.FuncCall) error {
	p.write(p.dialect.TranslateFunctionName(e.Name))
	p.write("(")
	if e.Star {
		p.write("*")
	} else if err := p.list(len(e.Args), ", ", func(i int) error {
		return p.expr(e.Args[i])
	}); err != nil {
		return err
	}
	p.write(")")
	return nil
}

// lambda renders the body with the row binding in scope. The binding
// itself never appears in output SQL.
func (p *printer) lambda(e *core.Lambda) error {
	outer := p.lambdaParam
	p.lambdaParam = e.Param
	err := p.expr(e.Body)
	p.lambdaParam = outer
	return err
}

func (p *printer) columnRef(e *core.ColumnRef) {
	if e.Table != "" && e.Table != p.lambdaParam {
		p.ident(e.Table)
		p.write(".")
	}
	p.ident(e.Column)
}

func (p *printer) starExpr(e *core.StarExpr) {
	if e.Table != "" && e.Table != p.lambdaParam {
		p.ident(e.Table)
		p.write(".")
	}
	p.write("*")
}

func (p *printer) literal(e *core.Literal) {
	switch e.Type {
	case core.LiteralNumber:
		p.write(e.Value)
	case core.LiteralString:
		p.write("'" + strings.ReplaceAll(e.Value, "'", "''") + "'")
	case core.LiteralBool:
		p.write(p.dialect.RenderBoolean(e.Value == "true"))
	case core.LiteralNull:
		p.keyword("NULL")
	}
}
