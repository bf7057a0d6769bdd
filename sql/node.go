package sql

// NodeKind discriminates the relational-algebra node variants an LQP can
// contain. Kept as a closed enum so code that only holds a sql.Node can
// tell node variants apart (and IsDDL can classify them) without
// importing sql/plan.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindStoredTable
	KindFilter
	KindProjection
	KindLimit
	KindSort
	KindAggregate
	KindJoin
	KindCreateTable
	KindDropTable
	KindCreateView
	KindDropView
	KindCreatePreparedPlan
	KindImport
	KindExport
)

func (k NodeKind) String() string {
	names := map[NodeKind]string{
		KindStoredTable:        "StoredTable",
		KindFilter:             "Filter",
		KindProjection:         "Projection",
		KindLimit:              "Limit",
		KindSort:               "Sort",
		KindAggregate:          "Aggregate",
		KindJoin:               "Join",
		KindCreateTable:        "CreateTable",
		KindDropTable:          "DropTable",
		KindCreateView:         "CreateView",
		KindDropView:           "DropView",
		KindCreatePreparedPlan: "CreatePreparedPlan",
		KindImport:             "Import",
		KindExport:             "Export",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "Unknown"
}

// IsDDL reports whether a node kind is a DDL/IO root subject to the
// precheck in ddlcheck (spec §4.7).
func (k NodeKind) IsDDL() bool {
	switch k {
	case KindCreateTable, KindDropTable, KindCreateView, KindDropView,
		KindCreatePreparedPlan, KindImport, KindExport:
		return true
	default:
		return false
	}
}

// Node is a DAG node of the logical query plan (LQP). Attributes per
// spec §3: node kind, ordered expressions, up to two input children, and
// translation-computed flags (Cacheable).
//
// The With* methods return a new node rather than changing the receiver,
// and the optimizer returns a rewritten tree instead of mutating its input.
type Node interface {
	Kind() NodeKind
	Expressions() []Expression
	WithExpressions(exprs ...Expression) Node
	Children() []Node
	WithChildren(children ...Node) Node
	Schema() Schema

	// Cacheable reports whether translation marked this node (and its
	// subtree) eligible for the logical/physical plan caches. DDL and view
	// definitions are never cacheable.
	Cacheable() bool
	SetCacheable(bool)

	// DeepCopy returns a structurally identical but fully detached copy,
	// used whenever a cached LQP is handed out (spec §5: "the cached LQP
	// is never handed out directly").
	DeepCopy() Node
}

// Expression is an arguments-first tree hanging off a Node (spec §3
// "Expression Tree"). Variants: Literal, Placeholder, ColumnReference,
// FunctionApplication, BinaryPredicate.
type Expression interface {
	Type() DataType
	Children() []Expression
	WithChildren(children ...Expression) Expression
	Eval(row Row) (interface{}, error)
	String() string
}

// BaseNode provides the Children/WithChildren/Cacheable bookkeeping shared
// by every concrete LQP node, the way the teacher's plan nodes each embed
// a shared base (seen across sql/plan's _test.go construction helpers).
type BaseNode struct {
	kind      NodeKind
	exprs     []Expression
	children  []Node
	cacheable bool
}

func NewBaseNode(kind NodeKind, exprs []Expression, children ...Node) BaseNode {
	return BaseNode{kind: kind, exprs: exprs, children: children, cacheable: true}
}

func (b *BaseNode) Kind() NodeKind             { return b.kind }
func (b *BaseNode) Expressions() []Expression  { return b.exprs }
func (b *BaseNode) Children() []Node           { return b.children }
func (b *BaseNode) Cacheable() bool            { return b.cacheable }
func (b *BaseNode) SetCacheable(c bool)        { b.cacheable = c }
func (b *BaseNode) SetExpressions(e []Expression) { b.exprs = e }
func (b *BaseNode) SetChildren(c []Node)       { b.children = c }
