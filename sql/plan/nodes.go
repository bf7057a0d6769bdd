// Package plan implements the Logical Plan Node (LQP) vocabulary of
// spec §3: relational-algebra DAG nodes plus the translator that produces
// them (AST → LQP); the LQP → PQP translator lives in sql/rowexec.
package plan

import (
	"fmt"

	"github.com/coldb/flowengine/sql"
)

// StoredTable is a leaf node reading a named table from the storage
// manager (spec §6.2). It is the leaf the statistics gate (C4) walks to
// for histogram lookups.
type StoredTable struct {
	sql.BaseNode
	Name   string
	schema sql.Schema
}

func NewStoredTable(name string, schema sql.Schema) *StoredTable {
	n := &StoredTable{Name: name, schema: schema}
	n.BaseNode = sql.NewBaseNode(sql.KindStoredTable, nil)
	return n
}

func (t *StoredTable) Schema() sql.Schema { return t.schema }
func (t *StoredTable) WithExpressions(exprs ...sql.Expression) sql.Node { return t }
func (t *StoredTable) WithChildren(children ...sql.Node) sql.Node {
	if len(children) != 0 {
		panic("StoredTable: WithChildren expects no children")
	}
	return t
}
func (t *StoredTable) DeepCopy() sql.Node {
	clone := *t
	clone.schema = append(sql.Schema(nil), t.schema...)
	return &clone
}
func (t *StoredTable) String() string { return fmt.Sprintf("StoredTable(%s)", t.Name) }

// Filter keeps rows from its single child matching Predicate.
type Filter struct {
	sql.BaseNode
}

func NewFilter(predicate sql.Expression, child sql.Node) *Filter {
	n := &Filter{}
	n.BaseNode = sql.NewBaseNode(sql.KindFilter, []sql.Expression{predicate}, child)
	return n
}

func (f *Filter) Predicate() sql.Expression { return f.Expressions()[0] }
func (f *Filter) Schema() sql.Schema        { return f.Children()[0].Schema() }
func (f *Filter) WithExpressions(exprs ...sql.Expression) sql.Node {
	if len(exprs) != 1 {
		panic("Filter: expected 1 expression")
	}
	return NewFilter(exprs[0], f.Children()[0])
}
func (f *Filter) WithChildren(children ...sql.Node) sql.Node {
	if len(children) != 1 {
		panic("Filter: expected 1 child")
	}
	return NewFilter(f.Predicate(), children[0])
}
func (f *Filter) DeepCopy() sql.Node {
	return NewFilter(deepCopyExpr(f.Predicate()), f.Children()[0].DeepCopy())
}
func (f *Filter) String() string { return fmt.Sprintf("Filter(%s)", f.Predicate().String()) }

// Projection computes Expressions() against its single child's rows.
type Projection struct {
	sql.BaseNode
}

func NewProjection(exprs []sql.Expression, child sql.Node) *Projection {
	n := &Projection{}
	n.BaseNode = sql.NewBaseNode(sql.KindProjection, exprs, child)
	return n
}

func (p *Projection) Schema() sql.Schema {
	childSchema := p.Children()[0].Schema()
	out := make(sql.Schema, len(p.Expressions()))
	for i, e := range p.Expressions() {
		name := e.String()
		table := ""
		if cr, ok := e.(interface{ Index() int }); ok {
			_ = cr
		}
		if i < len(childSchema) {
			table = childSchema[i].Table
		}
		out[i] = sql.Column{Name: name, Table: table, Type: e.Type()}
	}
	return out
}
func (p *Projection) WithExpressions(exprs ...sql.Expression) sql.Node {
	return NewProjection(exprs, p.Children()[0])
}
func (p *Projection) WithChildren(children ...sql.Node) sql.Node {
	if len(children) != 1 {
		panic("Projection: expected 1 child")
	}
	return NewProjection(p.Expressions(), children[0])
}
func (p *Projection) DeepCopy() sql.Node {
	exprs := make([]sql.Expression, len(p.Expressions()))
	for i, e := range p.Expressions() {
		exprs[i] = deepCopyExpr(e)
	}
	return NewProjection(exprs, p.Children()[0].DeepCopy())
}
func (p *Projection) String() string { return "Projection" }

// Limit caps the number of rows returned by its child to Count.
type Limit struct {
	sql.BaseNode
	Count int64
}

func NewLimit(count int64, child sql.Node) *Limit {
	n := &Limit{Count: count}
	n.BaseNode = sql.NewBaseNode(sql.KindLimit, nil, child)
	return n
}
func (l *Limit) Schema() sql.Schema { return l.Children()[0].Schema() }
func (l *Limit) WithExpressions(exprs ...sql.Expression) sql.Node { return l }
func (l *Limit) WithChildren(children ...sql.Node) sql.Node {
	return NewLimit(l.Count, children[0])
}
func (l *Limit) DeepCopy() sql.Node { return NewLimit(l.Count, l.Children()[0].DeepCopy()) }
func (l *Limit) String() string     { return fmt.Sprintf("Limit(%d)", l.Count) }

// Sort orders its child's rows by Expressions(), ascending.
type Sort struct {
	sql.BaseNode
}

func NewSort(exprs []sql.Expression, child sql.Node) *Sort {
	n := &Sort{}
	n.BaseNode = sql.NewBaseNode(sql.KindSort, exprs, child)
	return n
}
func (s *Sort) Schema() sql.Schema { return s.Children()[0].Schema() }
func (s *Sort) WithExpressions(exprs ...sql.Expression) sql.Node {
	return NewSort(exprs, s.Children()[0])
}
func (s *Sort) WithChildren(children ...sql.Node) sql.Node {
	return NewSort(s.Expressions(), children[0])
}
func (s *Sort) DeepCopy() sql.Node {
	exprs := make([]sql.Expression, len(s.Expressions()))
	for i, e := range s.Expressions() {
		exprs[i] = deepCopyExpr(e)
	}
	return NewSort(exprs, s.Children()[0].DeepCopy())
}
func (s *Sort) String() string { return "Sort" }

// Aggregate groups its child's rows by GroupBy and computes Expressions()
// (aggregate functions) per group.
type Aggregate struct {
	sql.BaseNode
	GroupBy []sql.Expression
}

func NewAggregate(groupBy []sql.Expression, aggExprs []sql.Expression, child sql.Node) *Aggregate {
	n := &Aggregate{GroupBy: groupBy}
	n.BaseNode = sql.NewBaseNode(sql.KindAggregate, aggExprs, child)
	return n
}
func (a *Aggregate) Schema() sql.Schema {
	out := make(sql.Schema, len(a.Expressions()))
	for i, e := range a.Expressions() {
		out[i] = sql.Column{Name: e.String(), Type: e.Type()}
	}
	return out
}
func (a *Aggregate) WithExpressions(exprs ...sql.Expression) sql.Node {
	return NewAggregate(a.GroupBy, exprs, a.Children()[0])
}
func (a *Aggregate) WithChildren(children ...sql.Node) sql.Node {
	return NewAggregate(a.GroupBy, a.Expressions(), children[0])
}
func (a *Aggregate) DeepCopy() sql.Node {
	gb := make([]sql.Expression, len(a.GroupBy))
	for i, e := range a.GroupBy {
		gb[i] = deepCopyExpr(e)
	}
	ex := make([]sql.Expression, len(a.Expressions()))
	for i, e := range a.Expressions() {
		ex[i] = deepCopyExpr(e)
	}
	return NewAggregate(gb, ex, a.Children()[0].DeepCopy())
}
func (a *Aggregate) String() string { return "Aggregate" }

// JoinKind discriminates join variants.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

// Join combines rows from two children matching Condition.
type Join struct {
	sql.BaseNode
	JoinKind JoinKind
}

func NewJoin(kind JoinKind, condition sql.Expression, left, right sql.Node) *Join {
	n := &Join{JoinKind: kind}
	n.BaseNode = sql.NewBaseNode(sql.KindJoin, []sql.Expression{condition}, left, right)
	return n
}
func (j *Join) Condition() sql.Expression { return j.Expressions()[0] }
func (j *Join) Schema() sql.Schema {
	return append(append(sql.Schema{}, j.Children()[0].Schema()...), j.Children()[1].Schema()...)
}
func (j *Join) WithExpressions(exprs ...sql.Expression) sql.Node {
	return NewJoin(j.JoinKind, exprs[0], j.Children()[0], j.Children()[1])
}
func (j *Join) WithChildren(children ...sql.Node) sql.Node {
	if len(children) != 2 {
		panic("Join: expected 2 children")
	}
	return NewJoin(j.JoinKind, j.Condition(), children[0], children[1])
}
func (j *Join) DeepCopy() sql.Node {
	return NewJoin(j.JoinKind, deepCopyExpr(j.Condition()), j.Children()[0].DeepCopy(), j.Children()[1].DeepCopy())
}
func (j *Join) String() string { return fmt.Sprintf("Join(%s)", j.Condition().String()) }

func deepCopyExpr(e sql.Expression) sql.Expression {
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	newChildren := make([]sql.Expression, len(children))
	for i, c := range children {
		newChildren[i] = deepCopyExpr(c)
	}
	return e.WithChildren(newChildren...)
}
