package rowexec

import (
	"fmt"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/plan"
	"github.com/coldb/flowengine/storage"
)

// Translate converts an LQP into a PQP operator tree, one operator per
// node, per SPEC_FULL §3's 1:1 mapping note. DDL/IO nodes translate to a
// single leaf operator whose Execute performs the side effect directly.
func Translate(sm *storage.Manager, n sql.Node) (Operator, error) {
	switch node := n.(type) {
	case *plan.StoredTable:
		tbl, ok := sm.GetTable(node.Name)
		if !ok {
			return nil, sql.ErrNotFound.New(node.Name)
		}
		return NewScan(tbl), nil

	case *plan.Filter:
		child, err := Translate(sm, node.Children()[0])
		if err != nil {
			return nil, err
		}
		return NewFilter(node.Predicate(), child), nil

	case *plan.Projection:
		child, err := Translate(sm, node.Children()[0])
		if err != nil {
			return nil, err
		}
		return NewProject(node.Expressions(), child), nil

	case *plan.Limit:
		child, err := Translate(sm, node.Children()[0])
		if err != nil {
			return nil, err
		}
		return NewLimit(node.Count, child), nil

	case *plan.Sort:
		child, err := Translate(sm, node.Children()[0])
		if err != nil {
			return nil, err
		}
		return NewSort(node.Expressions(), child), nil

	case *plan.Aggregate:
		child, err := Translate(sm, node.Children()[0])
		if err != nil {
			return nil, err
		}
		return NewAggregate(node.GroupBy, node.Expressions(), child), nil

	case *plan.Join:
		left, err := Translate(sm, node.Children()[0])
		if err != nil {
			return nil, err
		}
		right, err := Translate(sm, node.Children()[1])
		if err != nil {
			return nil, err
		}
		kind := InnerJoin
		if node.JoinKind == plan.LeftJoin {
			kind = LeftJoin
		}
		return NewJoin(kind, node.Condition(), left, right, len(node.Children()[0].Schema())), nil

	case *plan.CreateTable:
		return NewCreateTable(sm, node.Name, node.Columns), nil
	case *plan.DropTable:
		return NewDropTable(sm, node.Name), nil
	case *plan.CreateView:
		return NewCreateView(sm, node.Name, node.Definition), nil
	case *plan.DropView:
		return NewDropView(sm, node.Name), nil
	case *plan.CreatePreparedPlan:
		return NewCreatePreparedPlan(sm, node.Name), nil
	case *plan.Import:
		return NewImport(sm, node.File, node.Into), nil
	case *plan.Export:
		return NewExport(sm, node.File, node.From), nil

	default:
		return nil, fmt.Errorf("rowexec: no translation for node kind %s", n.Kind())
	}
}
