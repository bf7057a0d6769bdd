package plan

import (
	"fmt"

	"github.com/coldb/flowengine/sql"
)

// ddlBase gives every DDL/IO leaf node the common no-children, no-schema
// shape and marks itself non-cacheable, since spec §4.5 requires
// "non-DDL, non-view plans" to be the only cacheable ones.
type ddlBase struct {
	sql.BaseNode
}

func newDDLBase(kind sql.NodeKind) ddlBase {
	b := ddlBase{BaseNode: sql.NewBaseNode(kind, nil)}
	b.SetCacheable(false)
	return b
}

func (ddlBase) Schema() sql.Schema { return nil }

// CreateTable creates a table named Name with the given Columns.
type CreateTable struct {
	ddlBase
	Name          string
	Columns       sql.Schema
	IfNotExists   bool
}

func NewCreateTable(name string, columns sql.Schema, ifNotExists bool) *CreateTable {
	return &CreateTable{ddlBase: newDDLBase(sql.KindCreateTable), Name: name, Columns: columns, IfNotExists: ifNotExists}
}
func (c *CreateTable) WithExpressions(exprs ...sql.Expression) sql.Node { return c }
func (c *CreateTable) WithChildren(children ...sql.Node) sql.Node       { return c }
func (c *CreateTable) DeepCopy() sql.Node {
	clone := *c
	clone.Columns = append(sql.Schema(nil), c.Columns...)
	return &clone
}
func (c *CreateTable) String() string { return fmt.Sprintf("CreateTable(%s)", c.Name) }

// DropTable drops a table named Name.
type DropTable struct {
	ddlBase
	Name     string
	IfExists bool
}

func NewDropTable(name string, ifExists bool) *DropTable {
	return &DropTable{ddlBase: newDDLBase(sql.KindDropTable), Name: name, IfExists: ifExists}
}
func (d *DropTable) WithExpressions(exprs ...sql.Expression) sql.Node { return d }
func (d *DropTable) WithChildren(children ...sql.Node) sql.Node       { return d }
func (d *DropTable) DeepCopy() sql.Node                               { clone := *d; return &clone }
func (d *DropTable) String() string                                  { return fmt.Sprintf("DropTable(%s)", d.Name) }

// CreateView creates a view named Name over Definition.
type CreateView struct {
	ddlBase
	Name        string
	Definition  sql.Node
	IfNotExists bool
}

func NewCreateView(name string, definition sql.Node, ifNotExists bool) *CreateView {
	return &CreateView{ddlBase: newDDLBase(sql.KindCreateView), Name: name, Definition: definition, IfNotExists: ifNotExists}
}
func (c *CreateView) WithExpressions(exprs ...sql.Expression) sql.Node { return c }
func (c *CreateView) WithChildren(children ...sql.Node) sql.Node       { return c }
func (c *CreateView) DeepCopy() sql.Node {
	clone := *c
	if c.Definition != nil {
		clone.Definition = c.Definition.DeepCopy()
	}
	return &clone
}
func (c *CreateView) String() string { return fmt.Sprintf("CreateView(%s)", c.Name) }

// DropView drops a view named Name.
type DropView struct {
	ddlBase
	Name     string
	IfExists bool
}

func NewDropView(name string, ifExists bool) *DropView {
	return &DropView{ddlBase: newDDLBase(sql.KindDropView), Name: name, IfExists: ifExists}
}
func (d *DropView) WithExpressions(exprs ...sql.Expression) sql.Node { return d }
func (d *DropView) WithChildren(children ...sql.Node) sql.Node       { return d }
func (d *DropView) DeepCopy() sql.Node                               { clone := *d; return &clone }
func (d *DropView) String() string                                  { return fmt.Sprintf("DropView(%s)", d.Name) }

// CreatePreparedPlan registers a named prepared statement.
type CreatePreparedPlan struct {
	ddlBase
	Name string
}

func NewCreatePreparedPlan(name string) *CreatePreparedPlan {
	return &CreatePreparedPlan{ddlBase: newDDLBase(sql.KindCreatePreparedPlan), Name: name}
}
func (c *CreatePreparedPlan) WithExpressions(exprs ...sql.Expression) sql.Node { return c }
func (c *CreatePreparedPlan) WithChildren(children ...sql.Node) sql.Node       { return c }
func (c *CreatePreparedPlan) DeepCopy() sql.Node                               { clone := *c; return &clone }
func (c *CreatePreparedPlan) String() string {
	return fmt.Sprintf("CreatePreparedPlan(%s)", c.Name)
}

// Import loads rows from File into table Into.
type Import struct {
	ddlBase
	File string
	Into string
}

func NewImport(file, into string) *Import {
	return &Import{ddlBase: newDDLBase(sql.KindImport), File: file, Into: into}
}
func (i *Import) WithExpressions(exprs ...sql.Expression) sql.Node { return i }
func (i *Import) WithChildren(children ...sql.Node) sql.Node       { return i }
func (i *Import) DeepCopy() sql.Node                               { clone := *i; return &clone }
func (i *Import) String() string                                  { return fmt.Sprintf("Import(%s -> %s)", i.File, i.Into) }

// Export writes rows from table From to File.
type Export struct {
	ddlBase
	File string
	From string
}

func NewExport(file, from string) *Export {
	return &Export{ddlBase: newDDLBase(sql.KindExport), File: file, From: from}
}
func (e *Export) WithExpressions(exprs ...sql.Expression) sql.Node { return e }
func (e *Export) WithChildren(children ...sql.Node) sql.Node       { return e }
func (e *Export) DeepCopy() sql.Node                               { clone := *e; return &clone }
func (e *Export) String() string                                  { return fmt.Sprintf("Export(%s -> %s)", e.From, e.File) }
