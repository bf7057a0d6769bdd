package prepared

import "sync"

// NameRegistry maps a caller-chosen prepared-statement name to the SQL
// text it was registered for, grounded in the teacher's PreparedDataCache
// (engine.go) which maps a session id and query text to a parsed
// statement. This module has no session concept, so the registry is
// simplified to a flat name -> SQL text map shared by the whole engine.
type NameRegistry struct {
	mu    sync.Mutex
	names map[string]string
}

func NewNameRegistry() *NameRegistry {
	return &NameRegistry{names: make(map[string]string)}
}

// Register associates name with sqlText, overwriting any prior
// registration the way a second PREPARE of the same name does in
// standard SQL semantics.
func (r *NameRegistry) Register(name, sqlText string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[name] = sqlText
}

// Lookup returns the SQL text name was last registered for.
func (r *NameRegistry) Lookup(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	text, ok := r.names[name]
	return text, ok
}

// Forget removes name's registration.
func (r *NameRegistry) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.names, name)
}
