package sql

import errors "gopkg.in/src-d/go-errors.v1"

// Error kinds raised at pipeline stage boundaries, per the discriminated
// error design: each kind is constructed once and never overloaded to
// carry an unrelated meaning. Mirrors the teacher's
// `ErrTableNotFound = errors.NewKind(...)` idiom (sql/errors_test.go).
var (
	// ErrParse is returned by the parse stage on malformed SQL.
	ErrParse = errors.NewKind("parse error: %s")

	// ErrTranslation is returned when an AST cannot be translated into an
	// LQP.
	ErrTranslation = errors.NewKind("translation error: %s")

	// ErrOptimization is returned when an optimizer rule's precondition
	// fails.
	ErrOptimization = errors.NewKind("optimization error: %s")

	// ErrNameConflict is returned by the DDL precheck when a CREATE would
	// collide with an existing name.
	ErrNameConflict = errors.NewKind("name conflict: %s already exists")

	// ErrNotFound is returned by the DDL precheck when a DROP references a
	// name that does not exist.
	ErrNotFound = errors.NewKind("not found: %s")

	// ErrFileNotFound is returned by the DDL precheck when an IMPORT
	// source is unreadable.
	ErrFileNotFound = errors.NewKind("file not found: %s")

	// ErrArityMismatch is returned by prepared-plan instantiation when the
	// value vector length does not match the parameter id count.
	ErrArityMismatch = errors.NewKind("arity mismatch: expected %d parameters, got %d values")

	// ErrTypeMismatch is returned by prepared-plan instantiation when a
	// bound value's type does not match its placeholder's declared type.
	ErrTypeMismatch = errors.NewKind("type mismatch: placeholder %d expects %s, got %s")

	// ErrOperatorFailure is an error kind for operator task failures. The
	// scheduler does not wrap task errors in it; it returns them unchanged.
	ErrOperatorFailure = errors.NewKind("operator failure: %s")

	// ErrKeyNotFound names the teacher's sql/cache_test.go cache-miss error.
	// The plan caches do not return it: a miss is reported by TryGet's
	// ok == false.
	ErrKeyNotFound = errors.NewKind("key not found in cache")
)
