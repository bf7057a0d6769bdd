// Package analyzer implements the optimizer stage (part of C5's
// get_optimized_lqp): a small rule-driven rewrite pass over a logical
// plan tree, grounded in the teacher's analyzer.Rule/Batch machinery
// (sql/analyzer in the original pack, read from its _test.go surface,
// since no non-test source shipped with this pack) generalized to the
// spec's LQP vocabulary.
package analyzer

import (
	"github.com/coldb/flowengine/sql"
)

// Rule rewrites a single plan node, returning the replacement (itself if
// unchanged) and whether it changed anything.
type Rule func(n sql.Node) (sql.Node, bool)

// Optimizer applies a fixed ordered batch of Rules bottom-up, repeating
// the full batch until a pass makes no changes (a fixed point), mirroring
// the teacher's rule-batch-until-stable analyzer loop.
type Optimizer struct {
	Rules []Rule
}

// New builds an Optimizer running the given rules in order.
func New(rules ...Rule) *Optimizer {
	return &Optimizer{Rules: rules}
}

// Optimize rewrites root in place (by returning a replacement tree) until
// no rule in the batch changes anything, capped at maxPasses to guarantee
// termination even if a rule set is not confluent.
const maxPasses = 64

func (o *Optimizer) Optimize(root sql.Node) sql.Node {
	current := root
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		current, changed = o.applyOnce(current)
		if !changed {
			break
		}
	}
	return current
}

func (o *Optimizer) applyOnce(n sql.Node) (sql.Node, bool) {
	anyChanged := false

	children := n.Children()
	if len(children) > 0 {
		newChildren := make([]sql.Node, len(children))
		for i, c := range children {
			rewritten, changed := o.applyOnce(c)
			newChildren[i] = rewritten
			anyChanged = anyChanged || changed
		}
		n = n.WithChildren(newChildren...)
	}

	for _, rule := range o.Rules {
		rewritten, changed := rule(n)
		if changed {
			n = rewritten
			anyChanged = true
		}
	}
	return n, anyChanged
}
