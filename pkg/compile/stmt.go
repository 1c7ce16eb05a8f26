package compile

import (
	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/token"
)

// clauses is a pipeline's stages regrouped by target SQL clause.
// Collecting first and rendering second is what decouples pipeline
// stage order from the fixed clause order.
type clauses struct {
	filters  []core.Expr
	joins    []*core.JoinStage
	groupBy  *core.GroupByStage
	having   *core.HavingStage
	sel      *core.SelectStage
	orderBy  *core.OrderByStage
	limit    *int64
	offset   *int64
	distinct bool
	unions   []*core.UnionStage

	pagePos token.Position // first limit/offset stage, for errors
}

func (pr *printer) collect(p *core.Pipeline) (*clauses, error) {
	c := &clauses{}
	for _, st := range p.Stages {
		switch s := st.(type) {
		case *core.FilterStage:
			if err := requireBoolean(s.Predicate, "filter", s.Pos()); err != nil {
				return nil, err
			}
			c.filters = append(c.filters, s.Predicate)
		case *core.JoinStage:
			if err := requireBoolean(s.On, s.Name(), s.Pos()); err != nil {
				return nil, err
			}
			c.joins = append(c.joins, s)
		case *core.GroupByStage:
			c.groupBy = s
		case *core.HavingStage:
			if err := requireBoolean(s.Predicate, "having", s.Pos()); err != nil {
				return nil, err
			}
			c.having = s
		case *core.SelectStage:
			c.sel = s
		case *core.OrderByStage:
			c.orderBy = s
		case *core.LimitStage:
			n := s.Count
			c.limit = &n
			c.pagePos = s.Pos()
		case *core.OffsetStage:
			n := s.Count
			c.offset = &n
			if c.limit == nil {
				c.pagePos = s.Pos()
			}
		case *core.DistinctStage:
			c.distinct = true
		case *core.UnionStage:
			c.unions = append(c.unions, s)
		default:
			// A stage type this compiler has no rendering for. The
			// parser never produces one, but Compile accepts
			// hand-built pipelines carrying caller-defined stages.
			return nil, unsupported(st.Pos(), pr.dialect.Name(), "stage "+st.Name())
		}
	}
	return c, nil
}

// requireBoolean rejects a structurally non-boolean expression in a
// predicate position. The parser performs the same check, but Compile
// also accepts pipelines that were built by hand.
func requireBoolean(e core.Expr, stage string, pos token.Position) error {
	if e == nil || !core.IsBooleanExpr(e) {
		return typeMismatch(pos, stage)
	}
	return nil
}

// statement renders the whole pipeline: the select core, any union
// arms, then the combined ORDER BY and pagination.
func (pr *printer) statement(p *core.Pipeline, opts Options) error {
	c, err := pr.collect(p)
	if err != nil {
		return err
	}

	// A distinct stage on a union pipeline selects UNION over
	// UNION ALL; on a plain pipeline it renders SELECT DISTINCT.
	dedupe := c.distinct && len(c.unions) > 0
	if err := pr.selectCore(p.Source, c, c.distinct && !dedupe); err != nil {
		return err
	}

	for _, u := range c.unions {
		pr.space()
		pr.keyword("UNION")
		if !dedupe {
			pr.space()
			pr.keyword("ALL")
		}
		pr.space()
		if err := pr.unionArm(u.Right); err != nil {
			return err
		}
	}

	hasOrder := c.orderBy != nil
	if hasOrder {
		pr.space()
		if err := pr.orderByClause(c.orderBy); err != nil {
			return err
		}
	}

	if c.limit != nil || c.offset != nil {
		if opts.StrictPagination && !hasOrder && pr.dialect.RequiresOrderedPagination() {
			return &Error{
				Pos:     c.pagePos,
				Kind:    KindPaginationRequiresOrder,
				Dialect: pr.dialect.Name(),
				Message: "dialect " + pr.dialect.Name() + " requires order_by before limit/offset",
			}
		}
		pr.space()
		pr.write(pr.dialect.RenderPagination(c.limit, c.offset, hasOrder))
	}
	return nil
}

// unionArm renders the right side of a union. Arms may themselves
// carry filters, joins, grouping, and further unions, but ordering and
// pagination belong to the combined statement only.
func (pr *printer) unionArm(p *core.Pipeline) error {
	c, err := pr.collect(p)
	if err != nil {
		return err
	}
	if c.orderBy != nil || c.limit != nil || c.offset != nil {
		return unsupported(p.Pos(), pr.dialect.Name(), "order_by/limit/offset inside a union arm")
	}
	if err := pr.selectCore(p.Source, c, c.distinct && len(c.unions) == 0); err != nil {
		return err
	}
	for _, u := range c.unions {
		pr.space()
		pr.keyword("UNION")
		if !c.distinct {
			pr.space()
			pr.keyword("ALL")
		}
		pr.space()
		if err := pr.unionArm(u.Right); err != nil {
			return err
		}
	}
	return nil
}

// selectCore renders SELECT through HAVING for one pipeline.
func (pr *printer) selectCore(source *core.Relation, c *clauses, distinct bool) error {
	pr.keyword("SELECT")
	pr.space()
	if distinct {
		pr.keyword("DISTINCT")
		pr.space()
	}
	if err := pr.projection(c.sel); err != nil {
		return err
	}

	pr.space()
	pr.keyword("FROM")
	pr.space()
	pr.relation(source)

	for _, j := range c.joins {
		pr.space()
		if err := pr.joinClause(j); err != nil {
			return err
		}
	}

	if len(c.filters) > 0 {
		pr.space()
		pr.keyword("WHERE")
		pr.space()
		if err := pr.conjunction(c.filters); err != nil {
			return err
		}
	}

	if c.groupBy != nil {
		pr.space()
		pr.keyword("GROUP BY")
		pr.space()
		if err := pr.list(len(c.groupBy.Keys), ", ", func(i int) error {
			return pr.expr(c.groupBy.Keys[i])
		}); err != nil {
			return err
		}
	}

	if c.having != nil {
		pr.space()
		pr.keyword("HAVING")
		pr.space()
		if err := pr.predicate(c.having.Predicate); err != nil {
			return err
		}
	}
	return nil
}

func (pr *printer) projection(sel *core.SelectStage) error {
	if sel == nil || len(sel.Items) == 0 {
		pr.write("*")
		return nil
	}
	return pr.list(len(sel.Items), ", ", func(i int) error {
		item := sel.Items[i]
		if err := pr.expr(item.Expr); err != nil {
			return err
		}
		if item.Alias != "" {
			pr.space()
			pr.keyword("AS")
			pr.space()
			pr.ident(item.Alias)
		}
		return nil
	})
}

func (pr *printer) relation(r *core.Relation) {
	pr.ident(r.Table)
	if r.Alias != "" {
		pr.space()
		pr.keyword("AS")
		pr.space()
		pr.ident(r.Alias)
	}
}

func (pr *printer) joinClause(j *core.JoinStage) error {
	if j.Kind == core.JoinLeft {
		pr.keyword("LEFT JOIN")
	} else {
		pr.keyword("JOIN")
	}
	pr.space()
	pr.relation(j.Target)
	pr.space()
	pr.keyword("ON")
	pr.space()
	return pr.predicate(j.On)
}

// conjunction joins multiple filter predicates with AND. A single
// predicate renders bare; each member of a conjunction is
// parenthesized when it binds looser than AND.
func (pr *printer) conjunction(preds []core.Expr) error {
	if len(preds) == 1 {
		return pr.predicate(preds[0])
	}
	return pr.list(len(preds), " AND ", func(i int) error {
		e := preds[i]
		if l, ok := e.(*core.Lambda); ok {
			outer := pr.lambdaParam
			pr.lambdaParam = l.Param
			defer func() { pr.lambdaParam = outer }()
			e = l.Body
		}
		return pr.childExpr(e, precAnd, false)
	})
}

// predicate renders a boolean expression, unwrapping a lambda binding.
func (pr *printer) predicate(e core.Expr) error {
	return pr.expr(e)
}

func (pr *printer) orderByClause(o *core.OrderByStage) error {
	pr.keyword("ORDER BY")
	pr.space()
	return pr.list(len(o.Items), ", ", func(i int) error {
		item := o.Items[i]
		if err := pr.expr(item.Expr); err != nil {
			return err
		}
		if item.Desc {
			pr.space()
			pr.keyword("DESC")
		}
		return nil
	})
}
