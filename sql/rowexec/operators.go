package rowexec

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/coldb/flowengine/sql"
)

// ScanOperator reads every row of a stored table.
type ScanOperator struct {
	base
	Table sql.Table
}

func NewScan(table sql.Table) *ScanOperator {
	return &ScanOperator{Table: table}
}

func (s *ScanOperator) Type() string { return "Scan" }
func (s *ScanOperator) Execute() error {
	if s.executed {
		return nil
	}
	s.rows = s.Table.Rows()
	s.schema = s.Table.Schema()
	s.executed = true
	return nil
}
func (s *ScanOperator) DeepCopy() Operator { return &ScanOperator{Table: s.Table} }

// FilterOperator keeps rows from its input matching Predicate.
type FilterOperator struct {
	base
	Predicate sql.Expression
}

func NewFilter(predicate sql.Expression, input Operator) *FilterOperator {
	f := &FilterOperator{Predicate: predicate}
	f.left = input
	return f
}

func (f *FilterOperator) Type() string { return "Filter" }
func (f *FilterOperator) Execute() error {
	if f.executed {
		return nil
	}
	if err := f.left.Execute(); err != nil {
		return err
	}
	rows, schema := f.left.GetOutput()
	var out []sql.Row
	for _, row := range rows {
		keep, err := f.Predicate.Eval(row)
		if err != nil {
			return err
		}
		if b, ok := keep.(bool); ok && b {
			out = append(out, row)
		}
	}
	f.rows, f.schema = out, schema
	f.executed = true
	return nil
}
func (f *FilterOperator) DeepCopy() Operator {
	return &FilterOperator{Predicate: f.Predicate, base: base{left: f.left.DeepCopy()}}
}

// ProjectOperator evaluates Exprs against each input row.
type ProjectOperator struct {
	base
	Exprs []sql.Expression
}

func NewProject(exprs []sql.Expression, input Operator) *ProjectOperator {
	p := &ProjectOperator{Exprs: exprs}
	p.left = input
	return p
}

func (p *ProjectOperator) Type() string { return "Project" }
func (p *ProjectOperator) Execute() error {
	if p.executed {
		return nil
	}
	if err := p.left.Execute(); err != nil {
		return err
	}
	rows, _ := p.left.GetOutput()
	out := make([]sql.Row, 0, len(rows))
	for _, row := range rows {
		projected := make(sql.Row, len(p.Exprs))
		for i, e := range p.Exprs {
			v, err := e.Eval(row)
			if err != nil {
				return err
			}
			projected[i] = v
		}
		out = append(out, projected)
	}
	schema := make(sql.Schema, len(p.Exprs))
	for i, e := range p.Exprs {
		schema[i] = sql.Column{Name: e.String(), Type: e.Type()}
	}
	p.rows, p.schema = out, schema
	p.executed = true
	return nil
}
func (p *ProjectOperator) DeepCopy() Operator {
	return &ProjectOperator{Exprs: p.Exprs, base: base{left: p.left.DeepCopy()}}
}

// LimitOperator caps its input to Count rows.
type LimitOperator struct {
	base
	Count int64
}

func NewLimit(count int64, input Operator) *LimitOperator {
	l := &LimitOperator{Count: count}
	l.left = input
	return l
}

func (l *LimitOperator) Type() string { return "Limit" }
func (l *LimitOperator) Execute() error {
	if l.executed {
		return nil
	}
	if err := l.left.Execute(); err != nil {
		return err
	}
	rows, schema := l.left.GetOutput()
	if int64(len(rows)) > l.Count {
		rows = rows[:l.Count]
	}
	l.rows, l.schema = rows, schema
	l.executed = true
	return nil
}
func (l *LimitOperator) DeepCopy() Operator {
	return &LimitOperator{Count: l.Count, base: base{left: l.left.DeepCopy()}}
}

// SortOperator orders its input ascending by Exprs, in order.
type SortOperator struct {
	base
	Exprs []sql.Expression
}

func NewSort(exprs []sql.Expression, input Operator) *SortOperator {
	s := &SortOperator{Exprs: exprs}
	s.left = input
	return s
}

func (s *SortOperator) Type() string { return "Sort" }
func (s *SortOperator) Execute() error {
	if s.executed {
		return nil
	}
	if err := s.left.Execute(); err != nil {
		return err
	}
	rows, schema := s.left.GetOutput()
	sorted := append([]sql.Row(nil), rows...)
	var sortErr error
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, e := range s.Exprs {
			vi, err := e.Eval(sorted[i])
			if err != nil {
				sortErr = err
				return false
			}
			vj, err := e.Eval(sorted[j])
			if err != nil {
				sortErr = err
				return false
			}
			less, eq := lessAndEqual(vi, vj)
			if eq {
				continue
			}
			return less
		}
		return false
	})
	if sortErr != nil {
		return sortErr
	}
	s.rows, s.schema = sorted, schema
	s.executed = true
	return nil
}
func (s *SortOperator) DeepCopy() Operator {
	return &SortOperator{Exprs: s.Exprs, base: base{left: s.left.DeepCopy()}}
}

func lessAndEqual(a, b interface{}) (less bool, eq bool) {
	switch av := a.(type) {
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv, av == bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv, av == bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv, av == bv
		}
	case decimal.Decimal:
		if bv, ok := b.(decimal.Decimal); ok {
			return av.LessThan(bv), av.Equal(bv)
		}
	}
	return false, true
}

// AggregateOperator groups input rows by GroupBy and evaluates Exprs once
// per group, using the group's first row as the representative row each
// expression is evaluated against — sufficient for the GROUP BY a,
// COUNT(*)-free projections this repo's minimal function registry
// supports (§1 treats full aggregate-function kernels as out of scope).
type AggregateOperator struct {
	base
	GroupBy []sql.Expression
	Exprs   []sql.Expression
}

func NewAggregate(groupBy, exprs []sql.Expression, input Operator) *AggregateOperator {
	a := &AggregateOperator{GroupBy: groupBy, Exprs: exprs}
	a.left = input
	return a
}

func (a *AggregateOperator) Type() string { return "Aggregate" }
func (a *AggregateOperator) Execute() error {
	if a.executed {
		return nil
	}
	if err := a.left.Execute(); err != nil {
		return err
	}
	rows, _ := a.left.GetOutput()

	type group struct {
		key  string
		repr sql.Row
	}
	seen := make(map[string]bool)
	var groups []group
	for _, row := range rows {
		key := ""
		for _, e := range a.GroupBy {
			v, err := e.Eval(row)
			if err != nil {
				return err
			}
			key += keyPart(v)
		}
		if !seen[key] {
			seen[key] = true
			groups = append(groups, group{key: key, repr: row})
		}
	}

	out := make([]sql.Row, 0, len(groups))
	for _, g := range groups {
		result := make(sql.Row, len(a.Exprs))
		for i, e := range a.Exprs {
			v, err := e.Eval(g.repr)
			if err != nil {
				return err
			}
			result[i] = v
		}
		out = append(out, result)
	}
	schema := make(sql.Schema, len(a.Exprs))
	for i, e := range a.Exprs {
		schema[i] = sql.Column{Name: e.String(), Type: e.Type()}
	}
	a.rows, a.schema = out, schema
	a.executed = true
	return nil
}
func (a *AggregateOperator) DeepCopy() Operator {
	return &AggregateOperator{GroupBy: a.GroupBy, Exprs: a.Exprs, base: base{left: a.left.DeepCopy()}}
}

func keyPart(v interface{}) string {
	return fmt.Sprintf("%T:%v|", v, v)
}

// JoinOperator combines rows from Left/Right matching Condition. Only
// inner/left-outer nested-loop semantics are implemented, matching the
// two JoinKinds the LQP vocabulary exposes.
type JoinOperator struct {
	base
	Kind      int
	Condition sql.Expression
	leftCols  int
}

const (
	InnerJoin = iota
	LeftJoin
)

func NewJoin(kind int, condition sql.Expression, left, right Operator, leftCols int) *JoinOperator {
	j := &JoinOperator{Kind: kind, Condition: condition, leftCols: leftCols}
	j.left = left
	j.right = right
	return j
}

func (j *JoinOperator) Type() string { return "Join" }
func (j *JoinOperator) Execute() error {
	if j.executed {
		return nil
	}
	if err := j.left.Execute(); err != nil {
		return err
	}
	if err := j.right.Execute(); err != nil {
		return err
	}
	leftRows, leftSchema := j.left.GetOutput()
	rightRows, rightSchema := j.right.GetOutput()

	var out []sql.Row
	for _, lr := range leftRows {
		matched := false
		for _, rr := range rightRows {
			combined := append(append(sql.Row{}, lr...), rr...)
			v, err := j.Condition.Eval(combined)
			if err != nil {
				return err
			}
			if b, ok := v.(bool); ok && b {
				out = append(out, combined)
				matched = true
			}
		}
		if !matched && j.Kind == LeftJoin {
			padded := append(append(sql.Row{}, lr...), make(sql.Row, len(rightSchema))...)
			out = append(out, padded)
		}
	}
	j.rows = out
	j.schema = append(append(sql.Schema{}, leftSchema...), rightSchema...)
	j.executed = true
	return nil
}
func (j *JoinOperator) DeepCopy() Operator {
	return &JoinOperator{Kind: j.Kind, Condition: j.Condition, leftCols: j.leftCols,
		base: base{left: j.left.DeepCopy(), right: j.right.DeepCopy()}}
}
