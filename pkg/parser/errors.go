package parser

import (
	"fmt"

	"github.com/leapstack-labs/lql/pkg/token"
)

// ErrorKind classifies parse failures so callers can react to the class
// of problem without matching on message text.
type ErrorKind string

const (
	// KindLexical covers tokenizer failures: unterminated literals and
	// characters outside the language.
	KindLexical ErrorKind = "lexical"

	// KindUnknownStage means a pipe was followed by a word that is not a
	// stage name (typically a typo like selectt).
	KindUnknownStage ErrorKind = "unknown_stage"

	// KindMalformed covers structural errors inside an otherwise known
	// construct: wrong arity, a join without on, a non-boolean predicate.
	KindMalformed ErrorKind = "malformed"

	// KindTooDeep means the input nests past MaxNestingDepth.
	KindTooDeep ErrorKind = "too_deep"
)

// ParseError represents a parsing error with position information.
// Stage is set when the error is scoped to a single pipeline stage.
type ParseError struct {
	Pos     token.Position
	Kind    ErrorKind
	Stage   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected token %s, expected %s"
	ErrUnterminatedString = "unterminated string literal"
	ErrUnterminatedQuoted = "unterminated quoted identifier"
	ErrInvalidChar        = "invalid character %q"
	ErrBareExponent       = "exponent in %q has no digits"
	ErrNonASCII           = "non-ASCII character %q: unquoted identifiers are ASCII-only, use a quoted identifier"
	ErrEmptyParamName     = "expected a parameter name after @"
	ErrUnknownStage       = "unknown stage %q"
	ErrStageOneArg        = "%s expects exactly one argument"
	ErrStageAtLeastOne    = "%s expects at least one argument"
	ErrStageNoArgs        = "%s takes no arguments"
	ErrMissingOn          = "%s requires an on clause"
	ErrNotBoolean         = "%s predicate must be a boolean expression"
	ErrCountArg           = "%s expects a single non-negative integer"
	ErrTooDeep            = "input nests more than %d levels deep"
)
