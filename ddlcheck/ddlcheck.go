// Package ddlcheck implements the DDL precheck (C7): existence
// preconditions evaluated on the optimized LQP root before scheduling, grounded in
// the teacher's CREATE TABLE/DROP TABLE "if not exists"/"if exists"
// handling in the analyzer's resolve_create_like / resolve_drop_tables
// rules, generalized into a standalone pre-scheduling gate per spec §4.6.
package ddlcheck

import (
	"os"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/plan"
)

// Check inspects root and returns the precondition error for its DDL/IO
// kind, or nil if root is not a DDL/IO node or its precondition is
// satisfied. Only the PQP/LQP root is inspected (spec §4.6: "the DDL
// precheck is always evaluated against the plan root").
func Check(root sql.Node, sm sql.StorageManager) error {
	switch n := root.(type) {
	case *plan.CreateTable:
		if sm.HasTable(n.Name) && !n.IfNotExists {
			return sql.ErrNameConflict.New(n.Name)
		}
	case *plan.CreateView:
		if sm.HasView(n.Name) && !n.IfNotExists {
			return sql.ErrNameConflict.New(n.Name)
		}
	case *plan.CreatePreparedPlan:
		if sm.HasPreparedPlan(n.Name) {
			return sql.ErrNameConflict.New(n.Name)
		}
	case *plan.DropTable:
		if !sm.HasTable(n.Name) && !n.IfExists {
			return sql.ErrNotFound.New(n.Name)
		}
	case *plan.DropView:
		if !sm.HasView(n.Name) && !n.IfExists {
			return sql.ErrNotFound.New(n.Name)
		}
	case *plan.Import:
		if _, err := os.Stat(n.File); err != nil {
			return sql.ErrFileNotFound.New(n.File)
		}
	}
	return nil
}
