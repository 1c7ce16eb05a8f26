package core

import "github.com/leapstack-labs/lql/pkg/token"

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Stage is a marker interface for pipeline stage nodes.
type Stage interface {
	Node
	// Name returns the stage keyword as written in source (e.g. "filter").
	Name() string
	stageNode() // Marker method to distinguish stages
}

// NodeInfo provides the common position fields for AST nodes.
// Embed this in node types that need position tracking.
type NodeInfo struct {
	Span token.Span
}

// Pos implements Node.
func (n *NodeInfo) Pos() token.Position { return n.Span.Start }

// End implements Node.
func (n *NodeInfo) End() token.Position { return n.Span.End }

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span { return n.Span }

// Pipeline is the AST root: a source relation followed by an ordered
// sequence of stages. Stages appear in source order; the compiler maps
// them onto the fixed SQL clause order.
type Pipeline struct {
	NodeInfo
	Source *Relation
	Stages []Stage
}

// Relation is a named source table or view with an optional alias.
type Relation struct {
	NodeInfo
	Table string
	Alias string
}

// Ref returns the name that qualifies columns of this relation:
// the alias when present, the table name otherwise.
func (r *Relation) Ref() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Table
}
