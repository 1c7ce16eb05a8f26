package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/lql/pkg/token"
)

// Lexer tokenizes LQL input.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)

	// Lexical errors in input order. The parser reports the first of
	// these ahead of any syntax error it produced itself.
	errs []*ParseError
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.currentPos()

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
	case '+':
		tok = l.newToken(token.PLUS, "+")
	case '-':
		tok = l.newToken(token.MINUS, "-")
	case '*':
		tok = l.newToken(token.STAR, "*")
	case '/':
		tok = l.newToken(token.SLASH, "/")
	case '=':
		if l.peekChar() == '>' {
			l.readChar()
			tok = token.Token{Type: token.ARROW, Literal: "=>", Pos: pos}
		} else {
			tok = l.newToken(token.EQ, "=")
		}
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<=", Pos: pos}
		case '>':
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "<>", Pos: pos}
		default:
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "!=", Pos: pos}
		} else {
			l.errorf(pos, ErrInvalidChar, "!")
			tok = l.illegal(pos, "!")
		}
	case '|':
		switch l.peekChar() {
		case '>':
			l.readChar()
			tok = token.Token{Type: token.PIPE, Literal: "|>", Pos: pos}
		case '|':
			l.readChar()
			tok = token.Token{Type: token.DPIPE, Literal: "||", Pos: pos}
		default:
			l.errorf(pos, ErrInvalidChar, "|")
			tok = l.illegal(pos, "|")
		}
	case '.':
		tok = l.newToken(token.DOT, ".")
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '@':
		return l.readParam(pos)
	case '\'':
		lit, terminated := l.readString()
		if !terminated {
			l.errorf(pos, ErrUnterminatedString)
			return token.Token{Type: token.ILLEGAL, Literal: lit, Pos: pos}
		}
		return token.Token{Type: token.STRING, Literal: lit, Pos: pos}
	case '"':
		// Quoted identifier: never a keyword, may carry any characters.
		lit, terminated := l.readQuotedIdentifier()
		if !terminated {
			l.errorf(pos, ErrUnterminatedQuoted)
			return token.Token{Type: token.ILLEGAL, Literal: lit, Pos: pos}
		}
		return token.Token{Type: token.IDENT, Literal: lit, Pos: pos}
	default:
		switch {
		case isLetter(l.ch) || l.ch == '_':
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(strings.ToLower(tok.Literal))
			tok.Pos = pos
			return tok
		case isDigit(l.ch):
			lit, ok := l.readNumber()
			if !ok {
				l.errorf(pos, ErrBareExponent, lit)
				return token.Token{Type: token.ILLEGAL, Literal: lit, Pos: pos}
			}
			return token.Token{Type: token.NUMBER, Literal: lit, Pos: pos}
		case l.ch >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(l.input[l.pos:])
			l.errorf(pos, ErrNonASCII, string(r))
			tok = l.illegal(pos, l.input[l.pos:l.pos+size])
			for range size - 1 {
				l.readChar()
			}
		default:
			l.errorf(pos, ErrInvalidChar, string(l.ch))
			tok = l.illegal(pos, string(l.ch))
		}
	}

	l.readChar()
	return tok
}

// newToken creates a new token at the current position.
func (l *Lexer) newToken(tokenType token.TokenType, literal string) token.Token {
	return token.Token{Type: tokenType, Literal: literal, Pos: l.currentPos()}
}

// illegal creates an ILLEGAL token at pos.
func (l *Lexer) illegal(pos token.Position, literal string) token.Token {
	return token.Token{Type: token.ILLEGAL, Literal: literal, Pos: pos}
}

// errorf records a lexical error at pos.
func (l *Lexer) errorf(pos token.Position, format string, args ...any) {
	l.errs = append(l.errs, &ParseError{
		Pos:     pos,
		Kind:    KindLexical,
		Message: fmt.Sprintf(format, args...),
	})
}

// skipWhitespaceAndComments skips whitespace and -- line comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}

		if l.ch == '-' && l.peekChar() == '-' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}

		break
	}
}

// readParam reads an @name parameter reference. The literal holds the
// name without the leading @.
func (l *Lexer) readParam(pos token.Position) token.Token {
	l.readChar() // skip '@'
	if !isLetter(l.ch) && l.ch != '_' {
		l.errorf(pos, ErrEmptyParamName)
		return token.Token{Type: token.ILLEGAL, Literal: "@", Pos: pos}
	}
	return token.Token{Type: token.PARAM, Literal: l.readIdentifier(), Pos: pos}
}

// readString reads a single-quoted string literal.
// Handles doubled single quotes as escape: 'it''s' -> it's
func (l *Lexer) readString() (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				// Doubled quote escape
				result.WriteByte('\'')
				l.readChar() // skip first quote
				l.readChar() // skip second quote
			} else {
				l.readChar() // skip closing quote
				return result.String(), true
			}
		} else {
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String(), false
}

// readQuotedIdentifier reads a double-quoted identifier.
// Handles doubled double quotes as escape: "col""name" -> col"name
func (l *Lexer) readQuotedIdentifier() (string, bool) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for l.ch != 0 {
		if l.ch == '"' {
			if l.peekChar() == '"' {
				// Doubled quote escape
				result.WriteByte('"')
				l.readChar() // skip first quote
				l.readChar() // skip second quote
			} else {
				l.readChar() // skip closing quote
				return result.String(), true
			}
		} else {
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
	return result.String(), false
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer, decimal, or scientific).
// ok is false when an exponent marker is not followed by any digits.
func (l *Lexer) readNumber() (lit string, ok bool) {
	start := l.pos
	ok = true

	// Read integer part
	for isDigit(l.ch) {
		l.readChar()
	}

	// Read decimal part
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // skip '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	// Read exponent part (e.g., 1e10, 1E-5)
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar() // skip 'e' or 'E'
		if l.ch == '+' || l.ch == '-' {
			l.readChar() // skip sign
		}
		if !isDigit(l.ch) {
			return l.input[start:l.pos], false
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.input[start:l.pos], ok
}

// isLetter returns true if ch is an ASCII letter. Unquoted identifiers
// are ASCII-only; anything else needs a double-quoted identifier.
func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit returns true if ch is a digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []token.Token {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return tokens
}
