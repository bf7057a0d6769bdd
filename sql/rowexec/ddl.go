package rowexec

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/storage"
)

// ddlLeaf is the shared shape of every DDL/IO operator: no children, a
// run function performing the side effect, executed exactly once.
type ddlLeaf struct {
	base
	name string
	run  func() error
}

func (d *ddlLeaf) Type() string    { return d.name }
func (d *ddlLeaf) Execute() error {
	if d.executed {
		return nil
	}
	err := d.run()
	d.executed = true
	return err
}
func (d *ddlLeaf) DeepCopy() Operator {
	return &ddlLeaf{name: d.name, run: d.run}
}

func NewCreateTable(sm *storage.Manager, name string, schema sql.Schema) Operator {
	return &ddlLeaf{name: "CreateTable", run: func() error {
		sm.CreateTable(name, schema)
		return nil
	}}
}

func NewDropTable(sm *storage.Manager, name string) Operator {
	return &ddlLeaf{name: "DropTable", run: func() error {
		sm.DropTable(name)
		return nil
	}}
}

func NewCreateView(sm *storage.Manager, name string, def sql.Node) Operator {
	return &ddlLeaf{name: "CreateView", run: func() error {
		sm.CreateView(name, def)
		return nil
	}}
}

func NewDropView(sm *storage.Manager, name string) Operator {
	return &ddlLeaf{name: "DropView", run: func() error {
		sm.DropView(name)
		return nil
	}}
}

func NewCreatePreparedPlan(sm *storage.Manager, name string) Operator {
	return &ddlLeaf{name: "CreatePreparedPlan", run: func() error {
		sm.RegisterPreparedPlan(name)
		return nil
	}}
}

// NewImport reads a naive comma-separated file and appends its rows to
// table `into`, typing each field by the destination column's declared
// type. Grounded in the teacher's LOAD DATA row-by-row insertion idiom;
// full CSV dialect handling is out of scope per spec §1.
func NewImport(sm *storage.Manager, file, into string) Operator {
	return &ddlLeaf{name: "Import", run: func() error {
		tbl, ok := sm.GetTable(into)
		if !ok {
			return sql.ErrNotFound.New(into)
		}
		concrete, ok := tbl.(*storage.Table)
		if !ok {
			return fmt.Errorf("import: table %s is not writable", into)
		}
		f, err := os.Open(file)
		if err != nil {
			return sql.ErrFileNotFound.New(file)
		}
		defer f.Close()

		schema := concrete.Schema()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			fields := strings.Split(line, ",")
			row := make(sql.Row, len(fields))
			for i, field := range fields {
				row[i] = coerce(field, schemaType(schema, i))
			}
			concrete.Insert(row)
		}
		return scanner.Err()
	}}
}

// NewExport writes every row of table `from` to file as comma-separated
// text, the inverse of NewImport.
func NewExport(sm *storage.Manager, file, from string) Operator {
	return &ddlLeaf{name: "Export", run: func() error {
		tbl, ok := sm.GetTable(from)
		if !ok {
			return sql.ErrNotFound.New(from)
		}
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		defer f.Close()

		w := bufio.NewWriter(f)
		defer w.Flush()
		for _, row := range tbl.Rows() {
			parts := make([]string, len(row))
			for i, v := range row {
				parts[i] = fmt.Sprintf("%v", v)
			}
			if _, err := w.WriteString(strings.Join(parts, ",") + "\n"); err != nil {
				return err
			}
		}
		return nil
	}}
}

func schemaType(schema sql.Schema, i int) sql.DataType {
	if i < 0 || i >= len(schema) {
		return sql.Text
	}
	return schema[i].Type
}

// coerce converts a raw CSV field to the destination column's declared
// type, mirroring engine.go's bindingsToExprs which converts a bound value
// by its declared sql type before it is wrapped in an expression.Literal.
// Uses spf13/cast for the numeric/bool conversions (the teacher's own
// go.mod dependency) and shopspring/decimal for exact fixed-point values.
func coerce(field string, typ sql.DataType) interface{} {
	switch typ {
	case sql.Int64:
		n, err := cast.ToInt64E(field)
		if err != nil {
			return field
		}
		return n
	case sql.Float64:
		f, err := cast.ToFloat64E(field)
		if err != nil {
			return field
		}
		return f
	case sql.Decimal:
		d, err := decimal.NewFromString(field)
		if err != nil {
			return field
		}
		return d
	case sql.Boolean:
		b, err := cast.ToBoolE(field)
		if err != nil {
			return field
		}
		return b
	default:
		return field
	}
}
