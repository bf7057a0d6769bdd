// Package rowexec implements the physical query plan (PQP): the operator
// interface spec §6.3 consumes, a one-to-one LQP→PQP translator, and the
// small set of concrete operators (scan/filter/project/limit/sort/
// aggregate/join, plus the DDL/IO leaves) needed to execute the spec §8
// scenarios end to end. Grounded in the teacher's iterator-style
// RowIter/Node execution model (sql.Node.RowIter in the pack's _test.go
// surface), adapted from a pull-iterator per-row model to the spec's
// execute-then-get_output staged operator contract.
package rowexec

import (
	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/txn"
)

// Operator is the PQP node contract spec §6.3 names. Execute is
// idempotent once run: calling it again after success is a no-op.
type Operator interface {
	Type() string
	Left() Operator
	Right() Operator
	Execute() error
	GetOutput() ([]sql.Row, sql.Schema)
	DeepCopy() Operator
	SetTransactionContextRecursively(ctx *txn.Context)
}

// base holds the bookkeeping shared by every concrete operator: the
// child operators, the transaction context, executed/output state.
type base struct {
	left, right Operator
	txnCtx      *txn.Context
	executed    bool
	rows        []sql.Row
	schema      sql.Schema
}

func (b *base) Left() Operator  { return b.left }
func (b *base) Right() Operator { return b.right }
func (b *base) GetOutput() ([]sql.Row, sql.Schema) {
	return b.rows, b.schema
}
func (b *base) SetTransactionContextRecursively(ctx *txn.Context) {
	b.txnCtx = ctx
	if b.left != nil {
		b.left.SetTransactionContextRecursively(ctx)
	}
	if b.right != nil {
		b.right.SetTransactionContextRecursively(ctx)
	}
}
