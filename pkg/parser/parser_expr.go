package parser

import (
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/token"
)

// Expression precedence parsing using a small Pratt parser.
//
// Precedence levels:
//
//	precNone       = 0
//	precOr         = 1
//	precAnd        = 2
//	precComparison = 3  (=, <>, !=, <, >, <=, >=)
//	precAdditive   = 4  (+, -, ||)
//	precMultiply   = 5  (*, /)
//	precUnary      = 6  (-, +)
//
// All binary operators are left-associative; != is an alias for <> and
// carries the same token type.

const (
	precNone = iota
	precOr
	precAnd
	precComparison
	precAdditive
	precMultiply
	precUnary
)

// parseExpression parses an expression using precedence climbing.
func (p *Parser) parseExpression() core.Expr {
	return p.parseExpressionWithPrecedence(precNone + 1)
}

// parseExpressionWithPrecedence implements Pratt parsing. Each call is
// one recursion level against the depth limit.
func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) core.Expr {
	if p.depth++; p.depth > p.maxDepth {
		p.addTooDeep()
		return nil
	}
	defer func() { p.depth-- }()

	// Parse prefix (unary operators and primary expressions)
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	// Parse infix operators while their precedence is >= minPrecedence
	for {
		prec := infixPrecedence(p.token.Type)
		if prec < minPrecedence {
			break
		}

		op := p.token
		p.nextToken()

		// Parse right operand with higher precedence (left-associative)
		right := p.parseExpressionWithPrecedence(prec + 1)
		if right == nil {
			return nil
		}

		bin := &core.BinaryExpr{Left: left, Op: op.Type, Right: right}
		bin.Span = token.Span{Start: left.Pos(), End: right.End()}
		left = bin
	}

	return left
}

// parsePrefixExpr parses prefix expressions (unary operators and
// primary expressions).
func (p *Parser) parsePrefixExpr() core.Expr {
	switch p.token.Type {
	case token.MINUS, token.PLUS:
		op := p.token
		p.nextToken()
		expr := p.parseExpressionWithPrecedence(precUnary)
		if expr == nil {
			return nil
		}
		u := &core.UnaryExpr{Op: op.Type, Expr: expr}
		u.Span = token.Span{Start: op.Pos, End: expr.End()}
		return u

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of t as an infix operator, or
// precNone if t is not one.
func infixPrecedence(t token.TokenType) int {
	switch t {
	case token.OR:
		return precOr
	case token.AND:
		return precAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		return precComparison
	case token.PLUS, token.MINUS, token.DPIPE:
		return precAdditive
	case token.STAR, token.SLASH:
		return precMultiply
	default:
		return precNone
	}
}
