package compile

import (
	"fmt"

	"github.com/leapstack-labs/lql/pkg/token"
)

// ErrorKind classifies compile failures so callers can react to the
// class of problem without matching on message text.
type ErrorKind string

const (
	// KindUnsupportedFeature means the target dialect has no rendering
	// for a stage or construct in the pipeline.
	KindUnsupportedFeature ErrorKind = "unsupported_feature"

	// KindTypeMismatch means a predicate position (filter, having,
	// join on) holds an expression that is not structurally boolean.
	KindTypeMismatch ErrorKind = "type_mismatch"

	// KindPaginationRequiresOrder means the pipeline paginates without
	// an order_by on a dialect whose pagination clause needs one, and
	// the caller opted out of the ORDER BY (SELECT NULL) synthesis.
	KindPaginationRequiresOrder ErrorKind = "pagination_requires_order"
)

// Error represents a compile error with position information. Stage is
// set when the error is scoped to a single pipeline stage; Dialect and
// Feature are set for unsupported-feature errors.
type Error struct {
	Pos     token.Position
	Kind    ErrorKind
	Stage   string
	Dialect string
	Feature string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("compile error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func unsupported(pos token.Position, dialect, feature string) *Error {
	return &Error{
		Pos:     pos,
		Kind:    KindUnsupportedFeature,
		Dialect: dialect,
		Feature: feature,
		Message: fmt.Sprintf("%s is not supported for dialect %s", feature, dialect),
	}
}

func typeMismatch(pos token.Position, stage string) *Error {
	return &Error{
		Pos:     pos,
		Kind:    KindTypeMismatch,
		Stage:   stage,
		Message: fmt.Sprintf("%s predicate must be a boolean expression", stage),
	}
}
