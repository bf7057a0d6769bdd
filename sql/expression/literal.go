// Package expression implements the Expression Tree variants of spec §3:
// literal value, typed placeholder, column reference, function
// application, and the binary predicate used by WHERE clauses.
package expression

import (
	"fmt"

	"github.com/coldb/flowengine/sql"
)

// Literal is a constant value with a declared type. The parameter
// extractor (paramextract) replaces Literal leaves with Placeholder leaves
// during extraction; NULL literals are left untouched per spec §4.3.
type Literal struct {
	Value interface{}
	typ   sql.DataType
}

func NewLiteral(value interface{}, typ sql.DataType) *Literal {
	return &Literal{Value: value, typ: typ}
}

func (l *Literal) Type() sql.DataType            { return l.typ }
func (l *Literal) Children() []sql.Expression     { return nil }
func (l *Literal) WithChildren(c ...sql.Expression) sql.Expression {
	return l
}
func (l *Literal) Eval(sql.Row) (interface{}, error) { return l.Value, nil }
func (l *Literal) String() string {
	if l.typ == sql.Null {
		return "NULL"
	}
	return fmt.Sprintf("%v", l.Value)
}

// IsNull reports whether this literal is the SQL NULL value, the one
// literal kind the parameter extractor never replaces (spec §4.3).
func (l *Literal) IsNull() bool { return l.typ == sql.Null }
