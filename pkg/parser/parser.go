// Package parser turns LQL pipeline text into a core.Pipeline AST.
//
// # Usage
//
//	pipe, err := parser.Parse("Users |> filter(fn(row) => row.Age > 18) |> select(Users.Name)")
//	if err != nil {
//	    // handle error
//	}
//
// Errors are *ParseError values carrying a position and an ErrorKind, so
// callers can distinguish a typo'd stage name from a malformed argument
// list without matching on message text.
//
// # Grammar Overview
//
// The parser implements a recursive descent parser for the pipeline
// grammar:
//
//	pipeline  → relation { "|>" stage }
//	relation  → IDENT [ "as" IDENT ]
//	stage     → filter | join | left_join | group_by | having
//	          | order_by | select | distinct | union | limit | offset
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/token"
)

// MaxNestingDepth bounds recursive descent by default. Inputs that nest
// expressions or union sub-pipelines deeper than this fail with
// KindTooDeep instead of growing the stack without limit.
const MaxNestingDepth = 500

// Options adjusts parser limits.
type Options struct {
	// MaxDepth replaces MaxNestingDepth when positive, for callers
	// whose generated pipelines need more headroom (or tests that
	// need less).
	MaxDepth int
}

// Parser parses LQL into an AST.
type Parser struct {
	lexer *Lexer
	token token.Token // current token
	peek  token.Token // lookahead token
	peek2 token.Token // second lookahead token

	errors   []*ParseError
	depth    int // current recursion depth
	maxDepth int
}

// NewParser creates a new parser for the given LQL input.
func NewParser(input string) *Parser {
	return NewParserWithOptions(input, Options{})
}

// NewParserWithOptions creates a new parser with adjusted limits.
func NewParserWithOptions(input string, opts Options) *Parser {
	p := &Parser{lexer: NewLexer(input), maxDepth: MaxNestingDepth}
	if opts.MaxDepth > 0 {
		p.maxDepth = opts.MaxDepth
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses the input and returns the pipeline AST.
func Parse(input string) (*core.Pipeline, error) {
	return ParseWithOptions(input, Options{})
}

// ParseWithOptions parses the input with adjusted limits.
func ParseWithOptions(input string, opts Options) (*core.Pipeline, error) {
	p := NewParserWithOptions(input, opts)
	pipe := p.parsePipeline()
	if pipe != nil && !p.check(token.EOF) {
		p.addError(KindMalformed, ErrUnexpectedToken, tokenDesc(p.token), "end of input")
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return pipe, nil
}

// Err returns the first error encountered, or nil. Lexical errors take
// precedence over syntax errors, which are usually their echo.
func (p *Parser) Err() error {
	if len(p.lexer.errs) > 0 {
		return p.lexer.errs[0]
	}
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}

// Errors returns all accumulated parse errors.
func (p *Parser) Errors() []*ParseError {
	all := make([]*ParseError, 0, len(p.lexer.errs)+len(p.errors))
	all = append(all, p.lexer.errs...)
	all = append(all, p.errors...)
	return all
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(KindMalformed, ErrUnexpectedToken, tokenDesc(p.token), t)
	return false
}

// addError adds a parse error at the current token.
func (p *Parser) addError(kind ErrorKind, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// stageError adds a malformed-stage error scoped to stage, at pos.
func (p *Parser) stageError(stage string, pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Pos:     pos,
		Kind:    KindMalformed,
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
	})
}

// addTooDeep adds the nesting-depth error at the current token.
func (p *Parser) addTooDeep() {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Kind:    KindTooDeep,
		Message: fmt.Sprintf(ErrTooDeep, p.maxDepth),
	})
}

// tokenDesc describes a token for error messages: the literal for word
// and value tokens, the type name otherwise.
func tokenDesc(tok token.Token) string {
	switch tok.Type {
	case token.IDENT, token.NUMBER, token.PARAM:
		return fmt.Sprintf("%q", tok.Literal)
	case token.STRING:
		return fmt.Sprintf("'%s'", tok.Literal)
	case token.EOF:
		return "end of input"
	default:
		return tok.Type.String()
	}
}

// spanEnd returns the position just past tok.
func spanEnd(tok token.Token) token.Position {
	return token.Position{
		Line:   tok.Pos.Line,
		Column: tok.Pos.Column + len(tok.Literal),
		Offset: tok.Pos.Offset + len(tok.Literal),
	}
}

// ---------- Pipeline ----------

// parsePipeline parses: relation { "|>" stage }
// Union stages recurse back in here, so the depth guard applies.
func (p *Parser) parsePipeline() *core.Pipeline {
	if p.depth++; p.depth > p.maxDepth {
		p.addTooDeep()
		return nil
	}
	defer func() { p.depth-- }()

	start := p.token.Pos

	rel := p.parseRelation()
	if rel == nil {
		return nil
	}

	pipe := &core.Pipeline{Source: rel}
	last := rel.End()
	for p.match(token.PIPE) {
		stage := p.parseStage()
		if stage == nil {
			return nil
		}
		pipe.Stages = append(pipe.Stages, stage)
		last = stage.End()
	}

	pipe.Span = token.Span{Start: start, End: last}
	return pipe
}

// parseRelation parses: IDENT [ "as" IDENT ]
func (p *Parser) parseRelation() *core.Relation {
	if !p.check(token.IDENT) {
		p.addError(KindMalformed, "expected a relation name, got %s", tokenDesc(p.token))
		return nil
	}
	rel := &core.Relation{Table: p.token.Literal}
	start := p.token.Pos
	end := spanEnd(p.token)
	p.nextToken()

	if p.match(token.AS) {
		if !p.check(token.IDENT) {
			p.addError(KindMalformed, "expected an alias after as, got %s", tokenDesc(p.token))
			return nil
		}
		rel.Alias = p.token.Literal
		end = spanEnd(p.token)
		p.nextToken()
	}

	rel.Span = token.Span{Start: start, End: end}
	return rel
}
