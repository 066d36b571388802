package backend

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dessser-go/dessser/ir"
)

// fakeBackend renders a Function declaration as a one-line stub and any
// other expression as its s-expression text, just enough to exercise
// State's memoization and ordering without a real target language.
type fakeBackend struct{}

func (fakeBackend) NamePrefix() string { return "fn" }

func (fakeBackend) EmitDeclaration(s *State, name string, fn ir.Expr) (string, string, error) {
	sig := fmt.Sprintf("func %s()", name)
	def := fmt.Sprintf("%s { /* %s */ }", sig, ir.Print(fn))
	return sig, def, nil
}

func (fakeBackend) EmitExpr(s *State, e ir.Expr) (string, error) {
	if e.Op == ir.OpFunction {
		return s.IdentifierOfExpression(e)
	}
	return ir.Print(e), nil
}

func TestIdentifierOfExpressionMemoizesByFuncID(t *testing.T) {
	s := NewState(fakeBackend{})
	b := ir.NewBuilder()
	fn := b.Func(nil, func(fid ir.FuncID) ir.Expr { return ir.BoolConst(true) })

	name1, err := s.IdentifierOfExpression(fn)
	if err != nil {
		t.Fatal(err)
	}
	name2, err := s.IdentifierOfExpression(fn)
	if err != nil {
		t.Fatal(err)
	}
	if name1 != name2 {
		t.Fatalf("expected the same FuncID to reuse its identifier, got %q and %q", name1, name2)
	}
	if len(s.order) != 1 {
		t.Fatalf("expected exactly one declaration to be registered, got %d", len(s.order))
	}
}

func TestIdentifierOfExpressionMintsDistinctNames(t *testing.T) {
	s := NewState(fakeBackend{})
	b := ir.NewBuilder()
	fn1 := b.Func(nil, func(fid ir.FuncID) ir.Expr { return ir.BoolConst(true) })
	fn2 := b.Func(nil, func(fid ir.FuncID) ir.Expr { return ir.BoolConst(false) })

	name1, _ := s.IdentifierOfExpression(fn1)
	name2, _ := s.IdentifierOfExpression(fn2)
	if name1 == name2 {
		t.Fatalf("expected distinct FuncIDs to mint distinct names, both got %q", name1)
	}
}

func TestPrintDeclarationsPreservesDiscoveryOrder(t *testing.T) {
	s := NewState(fakeBackend{})
	b := ir.NewBuilder()
	fn1 := b.Func(nil, func(fid ir.FuncID) ir.Expr { return ir.BoolConst(true) })
	fn2 := b.Func(nil, func(fid ir.FuncID) ir.Expr { return ir.BoolConst(false) })

	name1, _ := s.IdentifierOfExpression(fn2) // discover fn2 first
	name2, _ := s.IdentifierOfExpression(fn1)

	out := s.PrintDeclarations()
	if strings.Index(out, name1) > strings.Index(out, name2) {
		t.Fatalf("expected %q to be printed before %q in discovery order, got:\n%s", name1, name2, out)
	}
}

func TestDeclarationsAndDefinitionsAreNotTheSameText(t *testing.T) {
	s := NewState(fakeBackend{})
	b := ir.NewBuilder()
	fn := b.Func(nil, func(fid ir.FuncID) ir.Expr { return ir.BoolConst(true) })
	s.IdentifierOfExpression(fn)

	decls := s.PrintDeclarations()
	defs := s.PrintDefinitions()
	if strings.Contains(decls, "{") {
		t.Fatalf("expected PrintDeclarations to hold signatures only, no bodies: %q", decls)
	}
	if !strings.Contains(defs, "{") {
		t.Fatalf("expected PrintDefinitions to hold full bodies: %q", defs)
	}
	if decls == defs {
		t.Fatal("expected declarations and definitions to render different content")
	}
}

func TestPrintDefinitionsIsSortedRegardlessOfDiscoveryOrder(t *testing.T) {
	s := NewState(fakeBackend{})
	b := ir.NewBuilder()
	fnB := b.Func(nil, func(fid ir.FuncID) ir.Expr { return ir.BoolConst(true) })
	fnA := b.Func(nil, func(fid ir.FuncID) ir.Expr { return ir.BoolConst(false) })

	s.IdentifierOfExpression(fnB)
	s.IdentifierOfExpression(fnA)

	out := s.PrintDefinitions()
	if strings.Index(out, "fn1") > strings.Index(out, "fn2") {
		t.Fatalf("expected sorted order fn1 before fn2, got:\n%s", out)
	}
}
