package compile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/lql/pkg/core"
	"github.com/leapstack-labs/lql/pkg/token"
)

// Diagnostic is a non-fatal finding from an inspector-backed check.
type Diagnostic struct {
	Pos     token.Position `json:"pos"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d, column %d: %s", d.Pos.Line, d.Pos.Column, d.Message)
}

// Check reports unknown tables and columns in the pipeline against the
// inspector's catalog. Diagnostics are advisory: a pipeline with
// findings still compiles, and Compile itself never consults an
// inspector. Column references are resolved against every relation the
// pipeline names, so a column that exists anywhere in scope passes.
func Check(ctx context.Context, p *core.Pipeline, ins core.Inspector) ([]Diagnostic, error) {
	if ins == nil {
		return nil, nil
	}

	// Relations by reference name (alias when present), across union
	// arms too.
	rels := make(map[string]*core.Relation)
	var order []*core.Relation
	core.Walk(p, func(n any) bool {
		if r, ok := n.(*core.Relation); ok {
			rels[strings.ToLower(r.Ref())] = r
			order = append(order, r)
		}
		return true
	})

	// Lambda row bindings are scope names, not relations.
	bindings := make(map[string]bool)
	core.Walk(p, func(n any) bool {
		if l, ok := n.(*core.Lambda); ok {
			bindings[strings.ToLower(l.Param)] = true
		}
		return true
	})

	var diags []Diagnostic
	schemas := make(map[string]*core.TableSchema)
	for _, r := range order {
		key := strings.ToLower(r.Table)
		if _, done := schemas[key]; done {
			continue
		}
		ts, err := ins.Table(ctx, r.Table)
		if err != nil {
			if errors.Is(err, core.ErrUnknownTable) {
				schemas[key] = nil
				diags = append(diags, Diagnostic{
					Pos:     r.Pos(),
					Message: fmt.Sprintf("unknown table %q", r.Table),
				})
				continue
			}
			return nil, fmt.Errorf("inspecting table %s: %w", r.Table, err)
		}
		schemas[key] = ts
	}

	for _, cr := range core.CollectColumnRefs(p) {
		qualifier := strings.ToLower(cr.Table)
		if qualifier != "" && !bindings[qualifier] {
			r, ok := rels[qualifier]
			if !ok {
				diags = append(diags, Diagnostic{
					Pos:     cr.Pos(),
					Message: fmt.Sprintf("unknown relation %q in column reference", cr.Table),
				})
				continue
			}
			ts := schemas[strings.ToLower(r.Table)]
			if ts == nil {
				continue // table itself already reported unknown
			}
			if _, ok := ts.Column(cr.Column); !ok {
				diags = append(diags, Diagnostic{
					Pos:     cr.Pos(),
					Message: fmt.Sprintf("unknown column %q in table %q", cr.Column, r.Table),
				})
			}
			continue
		}

		// Unqualified or lambda-bound: accept the column if any known
		// relation in scope carries it.
		found := false
		unknownOnly := true
		for _, r := range order {
			ts := schemas[strings.ToLower(r.Table)]
			if ts == nil {
				continue
			}
			unknownOnly = false
			if _, ok := ts.Column(cr.Column); ok {
				found = true
				break
			}
		}
		if !found && !unknownOnly {
			diags = append(diags, Diagnostic{
				Pos:     cr.Pos(),
				Message: fmt.Sprintf("unknown column %q", cr.Column),
			})
		}
	}
	return diags, nil
}
