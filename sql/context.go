package sql

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Context threads a cancellable context.Context, a query string, and a
// structured logger through every pipeline stage. Mirrors the teacher's
// *sql.Context carried through Engine.Query/QueryWithBindings in
// engine.go, trimmed to what this pipeline needs (no session/catalog
// coupling, which stays in sqlengine).
type Context struct {
	context.Context
	query  string
	log    *logrus.Entry
}

// NewContext builds a Context for a single statement's pipeline run.
func NewContext(parent context.Context, query string, log *logrus.Entry) *Context {
	if parent == nil {
		parent = context.Background()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Context{Context: parent, query: query, log: log.WithField("query", query)}
}

func (c *Context) Query() string        { return c.query }
func (c *Context) Logger() *logrus.Entry { return c.log }
