package core

// ---------- Stage Types ----------

// FilterStage narrows rows with a boolean predicate. Multiple filter
// stages in one pipeline are conjunctive.
type FilterStage struct {
	NodeInfo
	Predicate Expr // boolean expression, possibly a *Lambda
}

func (*FilterStage) stageNode() {}

// Name implements Stage.
func (*FilterStage) Name() string { return "filter" }

// JoinKind distinguishes the supported join flavors.
type JoinKind string

// Join kinds.
const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
)

// JoinStage joins a target relation on a condition. Join stages render
// in source order, never reordered.
type JoinStage struct {
	NodeInfo
	Kind   JoinKind
	Target *Relation
	On     Expr // boolean expression, possibly a *Lambda
}

func (*JoinStage) stageNode() {}

// Name implements Stage.
func (j *JoinStage) Name() string {
	if j.Kind == JoinLeft {
		return "left_join"
	}
	return "join"
}

// GroupByStage groups rows by an ordered list of key expressions.
type GroupByStage struct {
	NodeInfo
	Keys []Expr
}

func (*GroupByStage) stageNode() {}

// Name implements Stage.
func (*GroupByStage) Name() string { return "group_by" }

// HavingStage filters post-aggregation rows with a boolean predicate.
type HavingStage struct {
	NodeInfo
	Predicate Expr // boolean expression, possibly a *Lambda
}

func (*HavingStage) stageNode() {}

// Name implements Stage.
func (*HavingStage) Name() string { return "having" }

// SelectItem is one projected expression with an optional alias.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// SelectStage sets the final projection. At most one select stage is
// honored; without one the projection defaults to *.
type SelectStage struct {
	NodeInfo
	Items []SelectItem
}

func (*SelectStage) stageNode() {}

// Name implements Stage.
func (*SelectStage) Name() string { return "select" }

// OrderItem is one (expression, direction) sort key.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// OrderByStage sorts rows by an ordered list of sort keys.
type OrderByStage struct {
	NodeInfo
	Items []OrderItem
}

func (*OrderByStage) stageNode() {}

// Name implements Stage.
func (*OrderByStage) Name() string { return "order_by" }

// LimitStage bounds the row count. Applied at the fixed SQL position
// regardless of where the stage appears in the pipeline.
type LimitStage struct {
	NodeInfo
	Count int64 // non-negative
}

func (*LimitStage) stageNode() {}

// Name implements Stage.
func (*LimitStage) Name() string { return "limit" }

// OffsetStage skips leading rows. Same placement policy as limit.
type OffsetStage struct {
	NodeInfo
	Count int64 // non-negative
}

func (*OffsetStage) stageNode() {}

// Name implements Stage.
func (*OffsetStage) Name() string { return "offset" }

// DistinctStage de-duplicates result rows. On a pipeline combined with
// union it selects UNION over UNION ALL.
type DistinctStage struct {
	NodeInfo
}

func (*DistinctStage) stageNode() {}

// Name implements Stage.
func (*DistinctStage) Name() string { return "distinct" }

// UnionStage combines the pipeline with a second complete pipeline
// using set semantics.
type UnionStage struct {
	NodeInfo
	Right *Pipeline
}

func (*UnionStage) stageNode() {}

// Name implements Stage.
func (*UnionStage) Name() string { return "union" }

// StageInfo provides position tracking plus the stage marker. Embed
// it to define stage types outside this package; the compiler rejects
// stages it does not recognize with an UnsupportedFeature error.
type StageInfo struct {
	NodeInfo
}

func (*StageInfo) stageNode() {}
