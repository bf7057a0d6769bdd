// Package paramextract implements the parameter-extraction rewrite (C3):
// replacing literal leaves of an unoptimized LQP with typed placeholders
// so the plan becomes reusable across literal variations.
package paramextract

import (
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
)

// Result is the output of Extract: the rewritten (parameterless, modulo
// NULLs) LQP plus the ordered vector of literal expressions that were
// pulled out, positionally matching each placeholder's ParameterID.
type Result struct {
	Node   sql.Node
	Values []sql.Expression
}

// Extract performs the pre-order, arguments-first traversal of spec §4.3.
//
// Per spec §9's explicit reimplementation guidance, shared-literal
// collapsing is done with a side-table keyed by literal identity (pointer
// equality) rather than a mutable `replaced_by` back-pointer on the
// expression node itself — avoiding a mutable back-edge in the expression
// tree while preserving the idempotence property: the same *Literal
// object reached twice in one traversal yields the same placeholder.
func Extract(root sql.Node) Result {
	ex := &extractor{replaced: make(map[*expression.Literal]*expression.Placeholder)}
	newRoot := ex.visitNode(root)
	return Result{Node: newRoot, Values: ex.values}
}

type extractor struct {
	replaced map[*expression.Literal]*expression.Placeholder
	values   []sql.Expression
	nextID   int
}

func (ex *extractor) visitNode(n sql.Node) sql.Node {
	children := n.Children()
	if len(children) > 0 {
		newChildren := make([]sql.Node, len(children))
		changed := false
		for i, c := range children {
			newChildren[i] = ex.visitNode(c)
			if newChildren[i] != c {
				changed = true
			}
		}
		if changed {
			n = n.WithChildren(newChildren...)
		}
	}

	exprs := n.Expressions()
	if len(exprs) == 0 {
		return n
	}
	newExprs := make([]sql.Expression, len(exprs))
	changed := false
	for i, e := range exprs {
		newExprs[i] = ex.visitExpr(e)
		if newExprs[i] != e {
			changed = true
		}
	}
	if changed {
		n = n.WithExpressions(newExprs...)
	}
	return n
}

// visitExpr walks arguments-first: children are rewritten before the
// expression itself is inspected, per spec §4.3.
func (ex *extractor) visitExpr(e sql.Expression) sql.Expression {
	children := e.Children()
	if len(children) > 0 {
		newChildren := make([]sql.Expression, len(children))
		changed := false
		for i, c := range children {
			newChildren[i] = ex.visitExpr(c)
			if newChildren[i] != c {
				changed = true
			}
		}
		if changed {
			e = e.WithChildren(newChildren...)
		}
	}

	lit, ok := e.(*expression.Literal)
	if !ok {
		return e
	}

	if ph, ok := ex.replaced[lit]; ok {
		return ph
	}
	if lit.IsNull() {
		// NULL is not parameterized (spec §4.3).
		return lit
	}

	ph := expression.NewPlaceholder(ex.nextID, lit.Type())
	ex.nextID++
	ex.replaced[lit] = ph
	ex.values = append(ex.values, lit)
	return ph
}
