package stats

import (
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/sql/expression"
	"github.com/coldb/flowengine/sql/plan"
)

// Provider supplies per-table statistics, the catalog-backed lookup spec
// §4.4 describes as "loads the table's column statistics".
type Provider interface {
	GetTableStatistics(tableName string) (TableStatistics, bool)
}

// Gate implements C4: is_uniformly_distributed(lqp, threshold).
type Gate struct {
	Provider Provider
}

func NewGate(p Provider) *Gate { return &Gate{Provider: p} }

// DefaultThreshold is the permissive default the reference engine uses at
// one call site (spec §4.4, §9 open question (a)): kept here as a named
// constant rather than a magic number, and applied only where the caller
// does not pass an explicit threshold.
const DefaultThreshold = 100.0

// IsUniformlyDistributed walks lqp collecting every column reference, then
// walks it again looking for stored-table leaves; for each leaf, it loads
// the table's statistics and checks every referenced column of that table
// against its histogram's uniformity test. Returns true iff every
// referenced column is judged uniform (spec §4.4).
func (g *Gate) IsUniformlyDistributed(lqp sql.Node, threshold float64) bool {
	referenced := collectColumnRefs(lqp)
	if len(referenced) == 0 {
		return true
	}

	tables := collectStoredTables(lqp)
	for _, table := range tables {
		tableStats, ok := g.Provider.GetTableStatistics(table)
		if !ok {
			// No statistics recorded: treated as uniform, matching the
			// permissive default threshold's intent (spec §9 open
			// question (a)) rather than failing closed.
			continue
		}
		cols, ok := referenced[table]
		if !ok {
			continue
		}
		for col := range cols {
			colStats, ok := tableStats.Columns[col]
			if !ok {
				continue
			}
			if !colStats.Histogram.IsUniformlyDistributed(threshold) {
				return false
			}
		}
	}
	return true
}

func collectColumnRefs(n sql.Node) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	var walkNode func(sql.Node)
	var walkExpr func(sql.Expression)
	walkExpr = func(e sql.Expression) {
		if cr, ok := e.(*expression.ColumnReference); ok {
			if out[cr.Table] == nil {
				out[cr.Table] = make(map[string]struct{})
			}
			out[cr.Table][cr.Name] = struct{}{}
		}
		for _, c := range e.Children() {
			walkExpr(c)
		}
	}
	walkNode = func(n sql.Node) {
		for _, e := range n.Expressions() {
			walkExpr(e)
		}
		for _, c := range n.Children() {
			walkNode(c)
		}
	}
	walkNode(n)
	return out
}

func collectStoredTables(n sql.Node) []string {
	var out []string
	var walk func(sql.Node)
	walk = func(n sql.Node) {
		if st, ok := n.(*plan.StoredTable); ok {
			out = append(out, st.Name)
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(n)
	return out
}
