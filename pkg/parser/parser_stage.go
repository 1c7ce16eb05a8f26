package parser

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/token"
)

// Stage parsing. Every stage is a keyword plus a parenthesized argument
// list; distinct may omit the parentheses.
//
// Grammar:
//
//	stage      → filter_st | join_st | group_st | having_st | order_st
//	           | select_st | distinct_st | union_st | limit_st | offset_st
//	filter_st  → "filter" "(" predicate ")"
//	join_st    → ("join" | "left_join") "(" relation "," "on" ["="] predicate ")"
//	group_st   → "group_by" "(" expr { "," expr } ")"
//	having_st  → "having" "(" predicate ")"
//	order_st   → "order_by" "(" expr ["asc"|"desc"] { "," expr ["asc"|"desc"] } ")"
//	select_st  → "select" "(" select_item { "," select_item } ")"
//	select_item→ "*" | IDENT ".*" | expr [ "as" IDENT ]
//	distinct_st→ "distinct" [ "(" ")" ]
//	union_st   → "union" "(" pipeline ")"
//	limit_st   → "limit" "(" NUMBER ")"
//	offset_st  → "offset" "(" NUMBER ")"
//
// A predicate is an expression that must be structurally boolean; a bare
// fn(row) => ... lambda is accepted anywhere a predicate is.

// parseStage parses a single pipeline stage after a "|>".
func (p *Parser) parseStage() core.Stage {
	if !token.IsStage(p.token.Type) {
		// A word here is an unknown stage (typically a typo like
		// selectt); anything else is plain syntax noise.
		if p.check(token.IDENT) || token.IsKeyword(p.token.Type) {
			p.errors = append(p.errors, &ParseError{
				Pos:     p.token.Pos,
				Kind:    KindUnknownStage,
				Message: fmt.Sprintf(ErrUnknownStage, p.token.Literal),
			})
		} else {
			p.addError(KindMalformed, "expected a stage name, got %s", tokenDesc(p.token))
		}
		return nil
	}

	switch p.token.Type {
	case token.FILTER:
		return p.parseFilterStage()
	case token.JOIN:
		return p.parseJoinStage(core.JoinInner)
	case token.LEFTJOIN:
		return p.parseJoinStage(core.JoinLeft)
	case token.GROUPBY:
		return p.parseGroupByStage()
	case token.HAVING:
		return p.parseHavingStage()
	case token.ORDERBY:
		return p.parseOrderByStage()
	case token.SELECT:
		return p.parseSelectStage()
	case token.DISTINCT:
		return p.parseDistinctStage()
	case token.UNION:
		return p.parseUnionStage()
	case token.LIMIT:
		return p.parseLimitStage()
	case token.OFFSET:
		return p.parseOffsetStage()
	default:
		panic("parser: IsStage token without a stage parser: " + p.token.Type.String())
	}
}

// parseFilterStage parses: filter "(" predicate ")"
func (p *Parser) parseFilterStage() core.Stage {
	start := p.token.Pos
	p.nextToken() // consume filter
	if !p.expect(token.LPAREN) {
		return nil
	}

	pred := p.parsePredicate("filter", start)
	if pred == nil {
		return nil
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	st := &core.FilterStage{Predicate: pred}
	st.Span = token.Span{Start: start, End: spanEnd(rp)}
	return st
}

// parseJoinStage parses: join "(" relation "," "on" ["="] predicate ")"
// Both on <expr> and on = <expr> are accepted.
func (p *Parser) parseJoinStage(kind core.JoinKind) core.Stage {
	name := "join"
	if kind == core.JoinLeft {
		name = "left_join"
	}

	start := p.token.Pos
	p.nextToken() // consume join / left_join
	if !p.expect(token.LPAREN) {
		return nil
	}

	target := p.parseRelation()
	if target == nil {
		return nil
	}

	if p.check(token.RPAREN) {
		p.stageError(name, start, ErrMissingOn, name)
		return nil
	}
	if !p.expect(token.COMMA) {
		return nil
	}
	if !p.check(token.ON) {
		p.stageError(name, start, ErrMissingOn, name)
		return nil
	}
	p.nextToken() // consume on
	p.match(token.EQ)

	on := p.parsePredicate(name, start)
	if on == nil {
		return nil
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	st := &core.JoinStage{Kind: kind, Target: target, On: on}
	st.Span = token.Span{Start: start, End: spanEnd(rp)}
	return st
}

// parseGroupByStage parses: group_by "(" expr { "," expr } ")"
func (p *Parser) parseGroupByStage() core.Stage {
	start := p.token.Pos
	p.nextToken() // consume group_by
	if !p.expect(token.LPAREN) {
		return nil
	}

	if p.check(token.RPAREN) {
		p.stageError("group_by", start, ErrStageAtLeastOne, "group_by")
		return nil
	}

	keys := p.parseExprList()
	if keys == nil {
		return nil
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	st := &core.GroupByStage{Keys: keys}
	st.Span = token.Span{Start: start, End: spanEnd(rp)}
	return st
}

// parseHavingStage parses: having "(" predicate ")"
func (p *Parser) parseHavingStage() core.Stage {
	start := p.token.Pos
	p.nextToken() // consume having
	if !p.expect(token.LPAREN) {
		return nil
	}

	pred := p.parsePredicate("having", start)
	if pred == nil {
		return nil
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	st := &core.HavingStage{Predicate: pred}
	st.Span = token.Span{Start: start, End: spanEnd(rp)}
	return st
}

// parseOrderByStage parses: order_by "(" expr ["asc"|"desc"] { "," ... } ")"
// Ascending is the default when neither keyword is present.
func (p *Parser) parseOrderByStage() core.Stage {
	start := p.token.Pos
	p.nextToken() // consume order_by
	if !p.expect(token.LPAREN) {
		return nil
	}

	if p.check(token.RPAREN) {
		p.stageError("order_by", start, ErrStageAtLeastOne, "order_by")
		return nil
	}

	var items []core.OrderItem
	for {
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		item := core.OrderItem{Expr: expr}
		if p.match(token.DESC) {
			item.Desc = true
		} else {
			p.match(token.ASC)
		}
		items = append(items, item)
		if !p.match(token.COMMA) {
			break
		}
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	st := &core.OrderByStage{Items: items}
	st.Span = token.Span{Start: start, End: spanEnd(rp)}
	return st
}

// parseSelectStage parses: select "(" select_item { "," select_item } ")"
func (p *Parser) parseSelectStage() core.Stage {
	start := p.token.Pos
	p.nextToken() // consume select
	if !p.expect(token.LPAREN) {
		return nil
	}

	if p.check(token.RPAREN) {
		p.stageError("select", start, ErrStageAtLeastOne, "select")
		return nil
	}

	var items []core.SelectItem
	for {
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		item := core.SelectItem{Expr: expr}
		if p.match(token.AS) {
			if !p.check(token.IDENT) {
				p.stageError("select", p.token.Pos, "expected an alias after as, got %s", tokenDesc(p.token))
				return nil
			}
			if _, isStar := expr.(*core.StarExpr); isStar {
				p.stageError("select", p.token.Pos, "* cannot be aliased")
				return nil
			}
			item.Alias = p.token.Literal
			p.nextToken()
		}
		items = append(items, item)
		if !p.match(token.COMMA) {
			break
		}
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	st := &core.SelectStage{Items: items}
	st.Span = token.Span{Start: start, End: spanEnd(rp)}
	return st
}

// parseDistinctStage parses: distinct [ "(" ")" ]
func (p *Parser) parseDistinctStage() core.Stage {
	start := p.token.Pos
	end := spanEnd(p.token)
	p.nextToken() // consume distinct

	if p.check(token.LPAREN) {
		p.nextToken()
		if !p.check(token.RPAREN) {
			p.stageError("distinct", start, ErrStageNoArgs, "distinct")
			return nil
		}
		end = spanEnd(p.token)
		p.nextToken()
	}

	st := &core.DistinctStage{}
	st.Span = token.Span{Start: start, End: end}
	return st
}

// parseUnionStage parses: union "(" pipeline ")"
// The argument is a complete pipeline of its own.
func (p *Parser) parseUnionStage() core.Stage {
	start := p.token.Pos
	p.nextToken() // consume union
	if !p.expect(token.LPAREN) {
		return nil
	}

	if p.check(token.RPAREN) {
		p.stageError("union", start, ErrStageOneArg, "union")
		return nil
	}

	right := p.parsePipeline()
	if right == nil {
		return nil
	}

	rp := p.token
	if !p.expect(token.RPAREN) {
		return nil
	}

	st := &core.UnionStage{Right: right}
	st.Span = token.Span{Start: start, End: spanEnd(rp)}
	return st
}

// parseLimitStage parses: limit "(" NUMBER ")"
func (p *Parser) parseLimitStage() core.Stage {
	start := p.token.Pos
	count, end, ok := p.parseCountArg("limit", start)
	if !ok {
		return nil
	}
	st := &core.LimitStage{Count: count}
	st.Span = token.Span{Start: start, End: end}
	return st
}

// parseOffsetStage parses: offset "(" NUMBER ")"
func (p *Parser) parseOffsetStage() core.Stage {
	start := p.token.Pos
	count, end, ok := p.parseCountArg("offset", start)
	if !ok {
		return nil
	}
	st := &core.OffsetStage{Count: count}
	st.Span = token.Span{Start: start, End: end}
	return st
}

// parseCountArg parses the shared limit/offset shape: a parenthesized
// single non-negative integer. Decimals, negatives, and expressions are
// rejected here rather than at compile time.
func (p *Parser) parseCountArg(name string, start token.Position) (int64, token.Position, bool) {
	p.nextToken() // consume limit / offset
	if !p.expect(token.LPAREN) {
		return 0, token.Position{}, false
	}

	if !p.check(token.NUMBER) {
		p.stageError(name, start, ErrCountArg, name)
		return 0, token.Position{}, false
	}
	count, err := strconv.ParseInt(p.token.Literal, 10, 64)
	if err != nil {
		p.stageError(name, start, ErrCountArg, name)
		return 0, token.Position{}, false
	}
	p.nextToken()

	if !p.check(token.RPAREN) {
		p.stageError(name, start, ErrCountArg, name)
		return 0, token.Position{}, false
	}
	rp := p.token
	p.nextToken()
	return count, spanEnd(rp), true
}

// parsePredicate parses the single boolean-valued argument of a filter,
// having, or join-on position.
func (p *Parser) parsePredicate(name string, start token.Position) core.Expr {
	if p.check(token.RPAREN) {
		p.stageError(name, start, ErrStageOneArg, name)
		return nil
	}

	pred := p.parseExpression()
	if pred == nil {
		return nil
	}

	if p.check(token.COMMA) {
		p.stageError(name, start, ErrStageOneArg, name)
		return nil
	}
	if !core.IsBooleanExpr(pred) {
		p.stageError(name, start, ErrNotBoolean, name)
		return nil
	}
	return pred
}

// parseExprList parses a comma-separated expression list.
func (p *Parser) parseExprList() []core.Expr {
	var list []core.Expr
	for {
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		list = append(list, expr)
		if !p.match(token.COMMA) {
			return list
		}
	}
}
