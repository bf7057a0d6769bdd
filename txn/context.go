// Package txn implements the Transaction Context (C9): MVCC lifecycle
// (active/committed/rolled-back) and auto-commit policy, grounded in the
// teacher's beginTransaction/clearAutocommitTransaction handling in
// engine.go, generalized from session-scoped to the spec's PQP-scoped
// recursive tagging.
package txn

import (
	"sync"

	"github.com/google/uuid"
)

// Phase is a transaction's lifecycle state. Terminal phases are sticky
// (spec §3, §8 property 7).
type Phase int

const (
	Active Phase = iota
	Committed
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Active:
		return "Active"
	case Committed:
		return "Committed"
	case RolledBack:
		return "RolledBack"
	default:
		return "Unknown"
	}
}

// Context is an MVCC transaction identity. A Context is created Active;
// Commit/Rollback are no-ops once a terminal phase is reached, so once
// RolledBack, nothing can transition it to Committed (spec §8 property 7).
type Context struct {
	mu         sync.Mutex
	id         uuid.UUID
	phase      Phase
	autoCommit bool
}

// New creates an Active transaction context. autoCommit marks a context
// the pipeline created itself (caller passed none) rather than one
// supplied externally by a user-bound session (spec §4.9).
func New(autoCommit bool) *Context {
	return &Context{id: uuid.New(), phase: Active, autoCommit: autoCommit}
}

func (c *Context) ID() uuid.UUID { return c.id }

func (c *Context) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Context) AutoCommit() bool { return c.autoCommit }

// Commit transitions Active to Committed. A no-op if the phase is already
// terminal (returns false in that case).
func (c *Context) Commit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Active {
		return false
	}
	c.phase = Committed
	return true
}

// Rollback transitions Active to RolledBack. A no-op if already
// Committed — commit is terminal and sticky just like rollback — but
// calling Rollback when already RolledBack is harmless and returns true,
// since that is the state being requested.
func (c *Context) Rollback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == Committed {
		return false
	}
	c.phase = RolledBack
	return true
}

func (c *Context) IsRolledBack() bool { return c.Phase() == RolledBack }
func (c *Context) IsActive() bool     { return c.Phase() == Active }
