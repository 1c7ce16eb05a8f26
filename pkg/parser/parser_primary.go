package parser

import (
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/token"
)

// Primary expression parsing: literals, column refs, function calls,
// lambdas, parameter references.
//
// Grammar:
//
//	primary    → literal | column_ref | func_call | lambda | param
//	           | paren_expr | star
//	literal    → NUMBER | STRING | "true" | "false" | "null"
//	column_ref → IDENT | IDENT "." IDENT
//	func_call  → IDENT "(" ( "*" | expr { "," expr } ) ")"
//	lambda     → "fn" "(" IDENT ")" "=>" expr
//	param      → "@" IDENT
//	star       → "*" | IDENT "." "*"

// parsePrimary parses primary expressions.
func (p *Parser) parsePrimary() core.Expr {
	switch p.token.Type {
	case token.NUMBER:
		lit := &core.Literal{Type: core.LiteralNumber, Value: p.token.Literal}
		lit.Span = token.Span{Start: p.token.Pos, End: spanEnd(p.token)}
		p.nextToken()
		return lit

	case token.STRING:
		lit := &core.Literal{Type: core.LiteralString, Value: p.token.Literal}
		lit.Span = token.Span{Start: p.token.Pos, End: spanEnd(p.token)}
		p.nextToken()
		return lit

	case token.TRUE:
		lit := &core.Literal{Type: core.LiteralBool, Value: "true"}
		lit.Span = token.Span{Start: p.token.Pos, End: spanEnd(p.token)}
		p.nextToken()
		return lit

	case token.FALSE:
		lit := &core.Literal{Type: core.LiteralBool, Value: "false"}
		lit.Span = token.Span{Start: p.token.Pos, End: spanEnd(p.token)}
		p.nextToken()
		return lit

	case token.NULL:
		lit := &core.Literal{Type: core.LiteralNull}
		lit.Span = token.Span{Start: p.token.Pos, End: spanEnd(p.token)}
		p.nextToken()
		return lit

	case token.PARAM:
		ref := &core.ParamRef{Name: p.token.Literal}
		ref.Span = token.Span{Start: p.token.Pos, End: spanEnd(p.token)}
		p.nextToken()
		return ref

	case token.FN:
		return p.parseLambda()

	case token.IDENT:
		return p.parseIdentifierExpr()

	case token.LPAREN:
		return p.parseParenExpr()

	case token.STAR:
		star := &core.StarExpr{}
		star.Span = token.Span{Start: p.token.Pos, End: spanEnd(p.token)}
		p.nextToken()
		return star

	default:
		p.addError(KindMalformed, "unexpected token in expression: %s", tokenDesc(p.token))
		p.nextToken()
		return nil
	}
}

// parseIdentifierExpr parses an identifier which could be a column ref,
// a qualified column ref, a qualified star, or a function call.
func (p *Parser) parseIdentifierExpr() core.Expr {
	name := p.token
	p.nextToken()

	if p.check(token.LPAREN) {
		return p.parseFuncCall(name)
	}

	if p.check(token.DOT) {
		p.nextToken() // consume '.'

		if p.check(token.STAR) {
			star := &core.StarExpr{Table: name.Literal}
			star.Span = token.Span{Start: name.Pos, End: spanEnd(p.token)}
			p.nextToken()
			return star
		}

		if !p.check(token.IDENT) {
			p.addError(KindMalformed, "expected a column name after %q., got %s", name.Literal, tokenDesc(p.token))
			return nil
		}
		ref := &core.ColumnRef{Table: name.Literal, Column: p.token.Literal}
		ref.Span = token.Span{Start: name.Pos, End: spanEnd(p.token)}
		p.nextToken()
		return ref
	}

	ref := &core.ColumnRef{Column: name.Literal}
	ref.Span = token.Span{Start: name.Pos, End: spanEnd(name)}
	return ref
}

// parseFuncCall parses a function call. The name keeps its source
// spelling; dialects translate it when the call is rendered.
func (p *Parser) parseFuncCall(name token.Token) core.Expr {
	fn := &core.FuncCall{Name: name.Literal}

	p.nextToken() // consume '('

	// count(*) and friends
	if p.check(token.STAR) && p.checkPeek(token.RPAREN) {
		fn.Star = true
		p.nextToken()
	} else if !p.check(token.RPAREN) {
		args := p.parseExprList()
		if args == nil {
			return nil
		}
		fn.Args = args
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	fn.Span = token.Span{Start: name.Pos, End: spanEnd(rp)}
	return fn
}

// parseLambda parses: fn "(" IDENT ")" "=>" expr
// The single parameter names the row binding for the enclosing stage.
func (p *Parser) parseLambda() core.Expr {
	start := p.token.Pos
	p.nextToken() // consume fn

	if !p.expect(token.LPAREN) {
		return nil
	}
	if !p.check(token.IDENT) {
		p.addError(KindMalformed, "expected a lambda parameter name, got %s", tokenDesc(p.token))
		return nil
	}
	param := p.token.Literal
	p.nextToken()
	if !p.expect(token.RPAREN) {
		return nil
	}
	if !p.expect(token.ARROW) {
		return nil
	}

	body := p.parseExpression()
	if body == nil {
		return nil
	}

	lam := &core.Lambda{Param: param, Body: body}
	lam.Span = token.Span{Start: start, End: body.End()}
	return lam
}

// parseParenExpr parses a parenthesized expression. The grouping node
// survives into the AST so compiled SQL keeps the written parentheses.
func (p *Parser) parseParenExpr() core.Expr {
	start := p.token.Pos
	p.nextToken() // consume '('

	inner := p.parseExpression()
	if inner == nil {
		return nil
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	pe := &core.ParenExpr{Expr: inner}
	pe.Span = token.Span{Start: start, End: spanEnd(rp)}
	return pe
}
