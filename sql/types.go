// Package sql holds the core relational types shared by the execution
// pipeline: data types, rows, schemas, nodes, expressions, and the
// error kinds raised at pipeline boundaries.
package sql

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DataType identifies the declared type of a literal, placeholder, or
// column. Kept as a small closed enum rather than an interface hierarchy
// since the pipeline never needs to add a type without also teaching the
// (out-of-scope) operator kernels about it.
type DataType int

const (
	Unknown DataType = iota
	Null
	Int64
	Float64
	Decimal
	Text
	Boolean
)

func (t DataType) String() string {
	switch t {
	case Null:
		return "NULL"
	case Int64:
		return "INT64"
	case Float64:
		return "FLOAT64"
	case Decimal:
		return "DECIMAL"
	case Text:
		return "TEXT"
	case Boolean:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// TypeOf returns the DataType that best matches a Go value's dynamic type.
// Used when a literal is constructed from a raw parsed token.
func TypeOf(v interface{}) DataType {
	switch v.(type) {
	case nil:
		return Null
	case int, int32, int64:
		return Int64
	case float32, float64:
		return Float64
	case decimal.Decimal:
		return Decimal
	case string:
		return Text
	case bool:
		return Boolean
	default:
		return Unknown
	}
}

// Column describes one column of a Schema.
type Column struct {
	Name     string
	Table    string
	Type     DataType
	Nullable bool
}

func (c Column) String() string {
	return fmt.Sprintf("%s.%s (%s)", c.Table, c.Name, c.Type)
}

// Schema is the ordered list of columns a Node or Operator produces.
type Schema []Column

// Row is a single tuple of column values, positional against a Schema.
type Row []interface{}
