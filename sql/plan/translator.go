package plan

import (
	"github.com/coldb/flowengine/astshim"
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
)

// TranslationInfo records the flags translation computes per spec §4.5
// stage 2 ("records translation_info, notably the cacheable flag for
// non-DDL, non-view plans").
type TranslationInfo struct {
	Cacheable bool
}

// Translate converts a single parsed astshim.Statement into an
// unoptimized LQP root, resolving column references against sm. Returns
// sql.ErrTranslation if the statement references an unknown table/column
// or is otherwise structurally invalid.
func Translate(sm sql.StorageManager, stmt *astshim.Statement) (sql.Node, *TranslationInfo, error) {
	switch stmt.Kind {
	case astshim.Select:
		return translateSelect(sm, stmt)
	case astshim.CreateTable:
		cols := make(sql.Schema, len(stmt.ColumnDefs))
		for i, c := range stmt.ColumnDefs {
			cols[i] = sql.Column{Name: c.Name, Table: stmt.NewTable, Type: sqlTypeFromName(c.Type), Nullable: true}
		}
		return NewCreateTable(stmt.NewTable, cols, stmt.IfNotExists), &TranslationInfo{Cacheable: false}, nil
	case astshim.DropTable:
		return NewDropTable(stmt.DropName, stmt.IfExists), &TranslationInfo{Cacheable: false}, nil
	case astshim.CreateView:
		def, _, err := translateSelect(sm, stmt.ViewDef)
		if err != nil {
			return nil, nil, err
		}
		return NewCreateView(stmt.ViewName, def, stmt.IfNotExists), &TranslationInfo{Cacheable: false}, nil
	case astshim.DropView:
		return NewDropView(stmt.DropName, stmt.IfExists), &TranslationInfo{Cacheable: false}, nil
	case astshim.Import:
		return NewImport(stmt.File, stmt.Into), &TranslationInfo{Cacheable: false}, nil
	case astshim.Export:
		return NewExport(stmt.File, stmt.From), &TranslationInfo{Cacheable: false}, nil
	case astshim.Prepare:
		return NewCreatePreparedPlan(stmt.Name), &TranslationInfo{Cacheable: false}, nil
	default:
		return nil, nil, sql.ErrTranslation.New("unsupported statement kind")
	}
}

func sqlTypeFromName(name string) sql.DataType {
	switch name {
	case "INT", "INTEGER", "BIGINT":
		return sql.Int64
	case "FLOAT", "DOUBLE":
		return sql.Float64
	case "DECIMAL":
		return sql.Decimal
	case "BOOL", "BOOLEAN":
		return sql.Boolean
	default:
		return sql.Text
	}
}

func translateSelect(sm sql.StorageManager, stmt *astshim.Statement) (sql.Node, *TranslationInfo, error) {
	table, ok := sm.GetTable(stmt.Table)
	if !ok {
		return nil, nil, sql.ErrTranslation.New("unknown table: " + stmt.Table)
	}
	schema := table.Schema()

	var root sql.Node = NewStoredTable(stmt.Table, schema)

	if stmt.Where != nil {
		col, idx, err := resolveColumn(schema, stmt.Where.Column)
		if err != nil {
			return nil, nil, err
		}
		lit := expression.NewLiteral(stmt.Where.Value, sql.TypeOf(stmt.Where.Value))
		op, err := binaryOpFromText(stmt.Where.Op)
		if err != nil {
			return nil, nil, err
		}
		pred := expression.NewBinaryPredicate(op, expression.NewColumnReference(stmt.Table, col.Name, col.Type, idx), lit)
		root = NewFilter(pred, root)
	}

	var exprs []sql.Expression
	if len(stmt.Columns) == 1 && stmt.Columns[0] == "*" {
		for i, c := range schema {
			exprs = append(exprs, expression.NewColumnReference(stmt.Table, c.Name, c.Type, i))
		}
	} else {
		for _, name := range stmt.Columns {
			c, idx, err := resolveColumn(schema, name)
			if err != nil {
				return nil, nil, err
			}
			exprs = append(exprs, expression.NewColumnReference(stmt.Table, c.Name, c.Type, idx))
		}
	}
	root = NewProjection(exprs, root)

	if stmt.HasLimit {
		root = NewLimit(stmt.Limit, root)
	}

	return root, &TranslationInfo{Cacheable: true}, nil
}

func resolveColumn(schema sql.Schema, name string) (sql.Column, int, error) {
	for i, c := range schema {
		if c.Name == name {
			return c, i, nil
		}
	}
	return sql.Column{}, -1, sql.ErrTranslation.New("unknown column: " + name)
}

func binaryOpFromText(op string) (expression.BinaryOp, error) {
	switch op {
	case "=":
		return expression.Eq, nil
	case "!=", "<>":
		return expression.Neq, nil
	case "<":
		return expression.Lt, nil
	case "<=":
		return expression.Lte, nil
	case ">":
		return expression.Gt, nil
	case ">=":
		return expression.Gte, nil
	default:
		return 0, sql.ErrTranslation.New("unsupported operator: " + op)
	}
}
