package expression

import (
	"fmt"

	"github.com/coldb/flowengine/sql"
)

// Placeholder is a typed hole left by the parameter extractor (C3) in
// place of a literal, identified by ParameterID (assigned in traversal
// order starting at 0, per spec §4.3).
type Placeholder struct {
	ParameterID int
	typ         sql.DataType
}

func NewPlaceholder(id int, typ sql.DataType) *Placeholder {
	return &Placeholder{ParameterID: id, typ: typ}
}

func (p *Placeholder) Type() sql.DataType        { return p.typ }
func (p *Placeholder) Children() []sql.Expression { return nil }
func (p *Placeholder) WithChildren(c ...sql.Expression) sql.Expression {
	return p
}

// Eval returns an error if called directly: a Placeholder must be substituted by
// PreparedPlan.Instantiate before an LQP reaches translation. This mirrors
// the invariant that a prepared plan is never executed un-instantiated.
func (p *Placeholder) Eval(sql.Row) (interface{}, error) {
	return nil, fmt.Errorf("placeholder $%d evaluated before instantiation", p.ParameterID)
}

func (p *Placeholder) String() string { return fmt.Sprintf("$%d", p.ParameterID) }
