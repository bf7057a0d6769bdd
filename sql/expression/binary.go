package expression

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coldb/flowengine/sql"
)

// BinaryOp enumerates the comparison/logical operators a BinaryPredicate
// supports — the minimal set needed to express WHERE a = 6 style
// predicates from the spec §8 scenarios.
type BinaryOp int

const (
	Eq BinaryOp = iota
	Neq
	Lt
	Lte
	Gt
	Gte
	And
	Or
)

func (op BinaryOp) String() string {
	switch op {
	case Eq:
		return "="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Gte:
		return ">="
	case And:
		return "AND"
	case Or:
		return "OR"
	default:
		return "?"
	}
}

// BinaryPredicate is a two-argument expression such as `a = 6` or
// `p0 AND p1`.
type BinaryPredicate struct {
	Op          BinaryOp
	Left, Right sql.Expression
}

func NewBinaryPredicate(op BinaryOp, left, right sql.Expression) *BinaryPredicate {
	return &BinaryPredicate{Op: op, Left: left, Right: right}
}

func (b *BinaryPredicate) Type() sql.DataType { return sql.Boolean }

func (b *BinaryPredicate) Children() []sql.Expression { return []sql.Expression{b.Left, b.Right} }

func (b *BinaryPredicate) WithChildren(children ...sql.Expression) sql.Expression {
	if len(children) != 2 {
		panic(fmt.Sprintf("BinaryPredicate.WithChildren: expected 2 children, got %d", len(children)))
	}
	clone := *b
	clone.Left, clone.Right = children[0], children[1]
	return &clone
}

func (b *BinaryPredicate) Eval(row sql.Row) (interface{}, error) {
	lv, err := b.Left.Eval(row)
	if err != nil {
		return nil, err
	}
	rv, err := b.Right.Eval(row)
	if err != nil {
		return nil, err
	}
	switch b.Op {
	case And:
		return asBool(lv) && asBool(rv), nil
	case Or:
		return asBool(lv) || asBool(rv), nil
	default:
		return compare(b.Op, lv, rv)
	}
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func compare(op BinaryOp, lv, rv interface{}) (bool, error) {
	lf, lok := toFloat(lv)
	rf, rok := toFloat(rv)
	if lok && rok {
		switch op {
		case Eq:
			return lf == rf, nil
		case Neq:
			return lf != rf, nil
		case Lt:
			return lf < rf, nil
		case Lte:
			return lf <= rf, nil
		case Gt:
			return lf > rf, nil
		case Gte:
			return lf >= rf, nil
		}
	}
	ls, lsok := lv.(string)
	rs, rsok := rv.(string)
	if lsok && rsok {
		switch op {
		case Eq:
			return ls == rs, nil
		case Neq:
			return ls != rs, nil
		case Lt:
			return ls < rs, nil
		case Lte:
			return ls <= rs, nil
		case Gt:
			return ls > rs, nil
		case Gte:
			return ls >= rs, nil
		}
	}
	return false, fmt.Errorf("cannot compare %T and %T", lv, rv)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, true
	default:
		return 0, false
	}
}

func (b *BinaryPredicate) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op.String(), b.Right.String())
}
