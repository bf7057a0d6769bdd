// Package storage provides the in-memory StorageManager adapter of
// SPEC_FULL §4.10: a concrete implementation of the consumed interface
// spec §6.2 names (GetTable, HasTable, HasView, HasPreparedPlan), grounded
// in the teacher's sql.DatabaseProvider/table-registry idiom.
package storage

import (
	"sync"

	"github.com/coldb/flowengine/sql"
	"github.com/coldb/flowengine/stats"
)

// Table is the in-memory implementation of sql.Table.
type Table struct {
	name   string
	schema sql.Schema
	mu     sync.RWMutex
	rows   []sql.Row
}

func NewTable(name string, schema sql.Schema) *Table {
	return &Table{name: name, schema: schema}
}

func (t *Table) Name() string       { return t.name }
func (t *Table) Schema() sql.Schema { return t.schema }
func (t *Table) Rows() []sql.Row {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]sql.Row(nil), t.rows...)
}

func (t *Table) Insert(row sql.Row) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row)
}

// Manager is the in-memory StorageManager: a table/view/prepared-plan-name
// registry, read-only from the pipeline's perspective except through DDL
// execution, which mutates it under its own lock (spec §5 "DDL through C7
// mutates it under its own internal serialization").
type Manager struct {
	mu       sync.RWMutex
	tables   map[string]*Table
	views    map[string]sql.Node
	prepared map[string]bool
	tblStats map[string]stats.TableStatistics
}

func NewManager() *Manager {
	return &Manager{
		tables:   make(map[string]*Table),
		views:    make(map[string]sql.Node),
		prepared: make(map[string]bool),
		tblStats: make(map[string]stats.TableStatistics),
	}
}

func (m *Manager) GetTable(name string) (sql.Table, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[name]
	if !ok {
		return nil, false
	}
	return t, true
}

func (m *Manager) HasTable(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[name]
	return ok
}

func (m *Manager) HasView(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.views[name]
	return ok
}

func (m *Manager) HasPreparedPlan(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prepared[name]
}

// CreateTable registers a new table. Callers (ddlcheck, then the DDL
// operator) are responsible for the existence precheck; this method
// always succeeds, mirroring the teacher's pattern of separating the
// precondition check from the mutation itself.
func (m *Manager) CreateTable(name string, schema sql.Schema) *Table {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := NewTable(name, schema)
	m.tables[name] = t
	return t
}

func (m *Manager) DropTable(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, name)
	delete(m.tblStats, name)
}

func (m *Manager) CreateView(name string, def sql.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[name] = def
}

func (m *Manager) DropView(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.views, name)
}

func (m *Manager) RegisterPreparedPlan(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prepared[name] = true
}

// SetTableStatistics installs per-column statistics for name, consumed by
// the statistics gate (stats.Provider).
func (m *Manager) SetTableStatistics(name string, s stats.TableStatistics) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tblStats[name] = s
}

func (m *Manager) GetTableStatistics(name string) (stats.TableStatistics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.tblStats[name]
	return s, ok
}
