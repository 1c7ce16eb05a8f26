package core

// Walk traverses an AST depth-first and calls fn for each node.
// If fn returns false, traversal stops below that node.
func Walk(node any, fn func(node any) bool) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	walkNode(node, fn)
}

func walkNode(node any, fn func(node any) bool) {
	switch n := node.(type) {
	case *Pipeline:
		if n == nil {
			return
		}
		Walk(n.Source, fn)
		for _, st := range n.Stages {
			Walk(st, fn)
		}

	case *FilterStage:
		if n == nil {
			return
		}
		Walk(n.Predicate, fn)

	case *JoinStage:
		if n == nil {
			return
		}
		Walk(n.Target, fn)
		Walk(n.On, fn)

	case *GroupByStage:
		if n == nil {
			return
		}
		for _, k := range n.Keys {
			Walk(k, fn)
		}

	case *HavingStage:
		if n == nil {
			return
		}
		Walk(n.Predicate, fn)

	case *SelectStage:
		if n == nil {
			return
		}
		for _, item := range n.Items {
			Walk(item.Expr, fn)
		}

	case *OrderByStage:
		if n == nil {
			return
		}
		for _, item := range n.Items {
			Walk(item.Expr, fn)
		}

	case *UnionStage:
		if n == nil {
			return
		}
		Walk(n.Right, fn)

	case *BinaryExpr:
		if n == nil {
			return
		}
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)

	case *FuncCall:
		if n == nil {
			return
		}
		for _, arg := range n.Args {
			Walk(arg, fn)
		}

	case *Lambda:
		if n == nil {
			return
		}
		Walk(n.Body, fn)

	case *ParenExpr:
		if n == nil {
			return
		}
		Walk(n.Expr, fn)

	// Leaf nodes - no children to walk
	case *Relation, *LimitStage, *OffsetStage, *DistinctStage,
		*ColumnRef, *Literal, *ParamRef, *StarExpr:
	}
}

// CollectColumnRefs returns all column references under node.
func CollectColumnRefs(node any) []*ColumnRef {
	var refs []*ColumnRef
	Walk(node, func(n any) bool {
		if cr, ok := n.(*ColumnRef); ok {
			refs = append(refs, cr)
		}
		return true
	})
	return refs
}

// CollectParamRefs returns all @name references under node in
// depth-first source order.
func CollectParamRefs(node any) []*ParamRef {
	var refs []*ParamRef
	Walk(node, func(n any) bool {
		if pr, ok := n.(*ParamRef); ok {
			refs = append(refs, pr)
		}
		return true
	})
	return refs
}

// CollectFuncCalls returns all function calls under node.
func CollectFuncCalls(node any) []*FuncCall {
	var funcs []*FuncCall
	Walk(node, func(n any) bool {
		if fc, ok := n.(*FuncCall); ok {
			funcs = append(funcs, fc)
		}
		return true
	})
	return funcs
}

// HasAggregate reports whether any canonical aggregate call appears
// under node.
func HasAggregate(node any) bool {
	found := false
	Walk(node, func(n any) bool {
		if fc, ok := n.(*FuncCall); ok && fc.IsAggregate() {
			found = true
			return false
		}
		return true
	})
	return found
}
