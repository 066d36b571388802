// Package backend defines the contract for emitting a type-checked
// ir.Expr as valid, compilable source code in some target language.
// Grounded on cmd/glint/structgenerator.go's structGenerator (a
// map[string]*structInfo keyed by generated name, built incrementally
// and rendered by template.go), generalized from "Go structs from a
// wire schema" to "any target language's source from an ir.Expr".
package backend

import (
	"fmt"
	"sort"

	"github.com/dessser-go/dessser/ir"
)

// State accumulates the declarations a Backend emits while lowering one
// or more top-level ir.Expr values: named helper functions discovered
// along the way (e.g. one generated function per ir.Function node) get
// registered once and referenced by name from every call site, rather
// than inlined repeatedly.
type State struct {
	backend     Backend
	signatures  map[string]string // name -> signature only, no body
	definitions map[string]string // name -> signature + body, ready to compile
	order       []string          // declaration names, in registration order (nested functions before their parent)
	seen        map[ir.FuncID]string
	counter     int
}

// NewState returns an empty emission state for backend b.
func NewState(b Backend) *State {
	return &State{
		backend:     b,
		signatures:  map[string]string{},
		definitions: map[string]string{},
		seen:        map[ir.FuncID]string{},
	}
}

// IdentifierOfExpression returns a stable, already-registered identifier
// for a Function expression, minting one (and asking the Backend to
// render its declaration) the first time a given FuncID is seen. Later
// calls for the same FuncID are idempotent, which is what lets the same
// ir.Function value be referenced from multiple call sites without
// re-emitting its body.
func (s *State) IdentifierOfExpression(e ir.Expr) (string, error) {
	fid := e.FuncIDV
	if name, ok := s.seen[fid]; ok {
		return name, nil
	}
	s.counter++
	name := fmt.Sprintf("%s%d", s.backend.NamePrefix(), s.counter)
	s.seen[fid] = name

	sig, def, err := s.backend.EmitDeclaration(s, name, e)
	if err != nil {
		return "", err
	}
	s.signatures[name] = sig
	s.definitions[name] = def
	s.order = append(s.order, name)
	return name, nil
}

// PrintDeclarations renders every declaration's signature (no body), in
// registration order: a name is registered only after EmitDeclaration
// returns, so functions nested inside a declaration are listed before it
// (matching structgenerator.go's incremental-build-then-render shape). This is the
// "what exists and what does it look like from the outside" file.
func (s *State) PrintDeclarations() string {
	out := ""
	for _, name := range s.order {
		out += s.signatures[name]
		out += "\n"
	}
	return out
}

// PrintDefinitions renders every declaration's full body, in sorted name
// order, for backends (or tests) that want a deterministic diff-stable
// dump rather than discovery order. This is the compilable file.
func (s *State) PrintDefinitions() string {
	names := make([]string, 0, len(s.definitions))
	for n := range s.definitions {
		names = append(names, n)
	}
	sort.Strings(names)
	out := ""
	for _, n := range names {
		out += s.definitions[n]
		out += "\n"
	}
	return out
}

// Backend is implemented once per target language. EmitDeclaration emits
// one named top-level declaration for a Function expression; EmitExpr
// lowers an arbitrary (non-Function) expression to an inline source
// fragment, calling back into State.IdentifierOfExpression whenever it
// encounters a nested Function that needs its own declaration.
type Backend interface {
	// NamePrefix is prepended to the counter when minting fresh
	// identifiers for anonymous declarations (e.g. "fn" -> fn1, fn2, ...).
	NamePrefix() string
	// EmitDeclaration renders fn (an ir.Function) named name, split into
	// its signature (no body, for PrintDeclarations) and its full
	// definition (signature + body, for PrintDefinitions).
	EmitDeclaration(s *State, name string, fn ir.Expr) (signature, definition string, err error)
	// EmitExpr renders an arbitrary expression as an inline source
	// fragment valid inside the body of some enclosing declaration.
	EmitExpr(s *State, e ir.Expr) (string, error)
}
