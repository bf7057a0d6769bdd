package expression

import (
	"fmt"

	"github.com/coldb/flowengine/sql"
)

// ColumnReference names a column by table/column name, resolved to a
// concrete position by translation. The statistics gate (C4) collects
// these to find which tables/columns a plan touches.
type ColumnReference struct {
	Table string
	Name  string
	typ   sql.DataType
	index int
}

func NewColumnReference(table, name string, typ sql.DataType, index int) *ColumnReference {
	return &ColumnReference{Table: table, Name: name, typ: typ, index: index}
}

func (c *ColumnReference) Type() sql.DataType        { return c.typ }
func (c *ColumnReference) Children() []sql.Expression { return nil }
func (c *ColumnReference) WithChildren(ch ...sql.Expression) sql.Expression {
	return c
}
func (c *ColumnReference) Eval(row sql.Row) (interface{}, error) {
	if c.index < 0 || c.index >= len(row) {
		return nil, fmt.Errorf("column reference %s.%s: index %d out of range for row of length %d", c.Table, c.Name, c.index, len(row))
	}
	return row[c.index], nil
}
func (c *ColumnReference) String() string { return fmt.Sprintf("%s.%s", c.Table, c.Name) }

// Index returns the resolved row position, set by translation.
func (c *ColumnReference) Index() int { return c.index }
