package schema

import (
	"fmt"
	"sync"
)

// UserType is a named refinement of a value-type with a custom
// pretty-printer and text parser (spec.md §3.1). Def is the underlying
// value-type, consulted whenever generic machinery (path navigation, the
// driver) needs to see through the refinement.
type UserType struct {
	Name  string
	Def   MaybeNullable
	Print func(MaybeNullable) string
	Parse func(string) (MaybeNullable, error)
}

// Catalog is a process-wide (but explicitly constructible) registry of
// user types, keyed by unique name. Registration is one-shot: duplicate
// registration fails. DESIGN NOTES calls for tests to "reset it or use a
// per-run handle" — Catalog is that handle; DefaultCatalog below is the
// convenience process-wide instance, but nothing in this repo requires
// using it.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]UserType
}

// NewCatalog constructs an empty, independent catalogue.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]UserType)}
}

// DefaultCatalog is the process-wide catalogue convenience instance.
// Generator runs that want isolation (tests, concurrent unrelated runs)
// should construct their own via NewCatalog instead.
var DefaultCatalog = NewCatalog()

// Register adds ut to the catalogue. Fails if a user type under the same
// name is already registered — registration is insert-monotonic and
// write-once, consistent with §5's "only process-wide mutable state... is
// insert-monotonic."
func (c *Catalog) Register(ut UserType) error {
	if ut.Name == "" {
		return fmt.Errorf("schema: user type must have a name")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.types[ut.Name]; dup {
		return fmt.Errorf("schema: user type %q already registered", ut.Name)
	}
	c.types[ut.Name] = ut
	return nil
}

// Lookup returns the registered user type by name.
func (c *Catalog) Lookup(name string) (UserType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ut, ok := c.types[name]
	return ut, ok
}

// Resolve follows a User value-type to its underlying def, through
// Catalog. It is an error to resolve a name the catalogue doesn't know.
func (c *Catalog) Resolve(vt ValueType) (MaybeNullable, error) {
	if vt.Kind != KUser {
		return MaybeNullable{}, fmt.Errorf("schema: Resolve called on non-user value-type")
	}
	ut, ok := c.Lookup(vt.UserV)
	if !ok {
		return MaybeNullable{}, fmt.Errorf("schema: unknown user type %q", vt.UserV)
	}
	return ut.Def, nil
}
