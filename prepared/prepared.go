// Package prepared implements the Prepared Plan (C2): an LQP with
// placeholder leaves plus the ordered parameter ids they correspond to,
// and the instantiation step that binds concrete values back in.
package prepared

import (
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
)

// PreparedPlan is immutable after construction (spec §3 invariant).
type PreparedPlan struct {
	root          sql.Node
	parameterIDs  []int
	declaredTypes []sql.DataType
	mvccValidated bool
}

// New constructs a PreparedPlan from an extracted LQP and its parameter
// ids in occurrence order (spec §4.2). declaredTypes[i] is the type the
// placeholder with ParameterID i was declared with.
func New(root sql.Node, parameterIDs []int, declaredTypes []sql.DataType, mvccValidated bool) *PreparedPlan {
	return &PreparedPlan{
		root:          root,
		parameterIDs:  append([]int(nil), parameterIDs...),
		declaredTypes: append([]sql.DataType(nil), declaredTypes...),
		mvccValidated: mvccValidated,
	}
}

func (p *PreparedPlan) ParameterIDs() []int { return p.parameterIDs }

// MVCCValidated reports the MVCC mode this plan was built under, used by
// the statement pipeline to reject a cache hit built for the other mode
// (spec §4.5 stage 3, §8 property 5).
func (p *PreparedPlan) MVCCValidated() bool { return p.mvccValidated }

// Instantiate returns a deep-copied LQP with each placeholder substituted
// by the matching literal in values. Fails with sql.ErrArityMismatch when
// sizes differ, or sql.ErrTypeMismatch when a value's type differs from
// the placeholder's declared type (spec §4.2).
func (p *PreparedPlan) Instantiate(values []sql.Expression) (sql.Node, error) {
	if len(values) != len(p.parameterIDs) {
		return nil, sql.ErrArityMismatch.New(len(p.parameterIDs), len(values))
	}
	for i, v := range values {
		want := p.declaredTypes[i]
		if want != sql.Null && v.Type() != sql.Null && v.Type() != want {
			return nil, sql.ErrTypeMismatch.New(p.parameterIDs[i], want, v.Type())
		}
	}

	bound := make(map[int]sql.Expression, len(values))
	for i, id := range p.parameterIDs {
		bound[id] = values[i]
	}
	return substitute(p.root.DeepCopy(), bound), nil
}

func substitute(n sql.Node, bound map[int]sql.Expression) sql.Node {
	children := n.Children()
	if len(children) > 0 {
		newChildren := make([]sql.Node, len(children))
		for i, c := range children {
			newChildren[i] = substitute(c, bound)
		}
		n = n.WithChildren(newChildren...)
	}
	exprs := n.Expressions()
	if len(exprs) == 0 {
		return n
	}
	newExprs := make([]sql.Expression, len(exprs))
	for i, e := range exprs {
		newExprs[i] = substituteExpr(e, bound)
	}
	return n.WithExpressions(newExprs...)
}

func substituteExpr(e sql.Expression, bound map[int]sql.Expression) sql.Expression {
	if ph, ok := e.(*expression.Placeholder); ok {
		if v, ok := bound[ph.ParameterID]; ok {
			return v
		}
		return e
	}
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	newChildren := make([]sql.Expression, len(children))
	for i, c := range children {
		newChildren[i] = substituteExpr(c, bound)
	}
	return e.WithChildren(newChildren...)
}
