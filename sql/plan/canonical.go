package plan

import (
	"fmt"
	"strings"

	"github.com/coldb/flowengine/sql"
)

// Canonical renders a parameterized LQP (post-extraction, placeholders in
// place of literals) into a stable string key for the logical cache
// (spec §3 "keyed by a canonical form of the unoptimized LQP"). Two LQPs
// that differ only in which literal values were extracted produce the
// same canonical form, which is exactly the cache-reuse property C3/C1
// exist to provide.
func Canonical(n sql.Node) string {
	var b strings.Builder
	writeCanonical(&b, n)
	return b.String()
}

func writeCanonical(b *strings.Builder, n sql.Node) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	fmt.Fprintf(b, "%s[", n.Kind().String())
	for i, e := range n.Expressions() {
		if i > 0 {
			b.WriteString(",")
		}
		writeCanonicalExpr(b, e)
	}
	b.WriteString("](")
	for i, c := range n.Children() {
		if i > 0 {
			b.WriteString(",")
		}
		writeCanonical(b, c)
	}
	b.WriteString(")")

	// A StoredTable's name and a Limit's count aren't modeled as
	// expressions; fold them in explicitly so two scans of different tables,
	// or two limits with different counts, never collide. DDL/IO nodes are
	// not folded in: they are never cacheable, so never keyed.
	switch t := n.(type) {
	case *StoredTable:
		fmt.Fprintf(b, "@%s", t.Name)
	case *Limit:
		fmt.Fprintf(b, "#%d", t.Count)
	}
}

func writeCanonicalExpr(b *strings.Builder, e sql.Expression) {
	fmt.Fprintf(b, "%T(", e)
	b.WriteString(e.String())
	for _, c := range e.Children() {
		b.WriteString(";")
		writeCanonicalExpr(b, c)
	}
	b.WriteString(")")
}
