package expression

import (
	"fmt"
	"strings"

	"github.com/coldb/flowengine/sql"
)

// Func is the signature a registered scalar function implements. Kept
// minimal since operator kernels themselves are out of scope (spec §1);
// this just needs enough to exercise FunctionApplication nodes end to end.
type Func func(args []interface{}) (interface{}, error)

var registry = map[string]struct {
	fn      Func
	retType sql.DataType
}{
	"upper": {
		fn: func(args []interface{}) (interface{}, error) {
			s, _ := args[0].(string)
			return strings.ToUpper(s), nil
		},
		retType: sql.Text,
	},
	"abs": {
		fn: func(args []interface{}) (interface{}, error) {
			switch v := args[0].(type) {
			case int64:
				if v < 0 {
					return -v, nil
				}
				return v, nil
			case float64:
				if v < 0 {
					return -v, nil
				}
				return v, nil
			default:
				return nil, fmt.Errorf("abs: unsupported operand %T", v)
			}
		},
		retType: sql.Float64,
	},
}

// FunctionApplication applies a named, registered function to its
// argument expressions.
type FunctionApplication struct {
	Name string
	args []sql.Expression
}

func NewFunctionApplication(name string, args ...sql.Expression) (*FunctionApplication, error) {
	if _, ok := registry[strings.ToLower(name)]; !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return &FunctionApplication{Name: strings.ToLower(name), args: args}, nil
}

func (f *FunctionApplication) Type() sql.DataType { return registry[f.Name].retType }
func (f *FunctionApplication) Children() []sql.Expression { return f.args }
func (f *FunctionApplication) WithChildren(children ...sql.Expression) sql.Expression {
	clone := *f
	clone.args = children
	return &clone
}
func (f *FunctionApplication) Eval(row sql.Row) (interface{}, error) {
	argv := make([]interface{}, len(f.args))
	for i, a := range f.args {
		v, err := a.Eval(row)
		if err != nil {
			return nil, err
		}
		argv[i] = v
	}
	return registry[f.Name].fn(argv)
}
func (f *FunctionApplication) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(parts, ", "))
}
