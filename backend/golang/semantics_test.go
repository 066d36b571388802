package golang

import (
	"strings"
	"testing"

	"github.com/dessser-go/dessser/backend"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

func TestEmitLeafConstants(t *testing.T) {
	b := Backend{}
	s := backend.NewState(b)
	cases := []struct {
		e    ir.Expr
		want string
	}{
		{ir.BoolConst(true), "true"},
		{ir.StrConst("hi"), `"hi"`},
		{ir.IntConst(schema.U8, 5), "uint8(5)"},
	}
	for _, c := range cases {
		got, err := b.EmitExpr(s, c.e)
		if err != nil {
			t.Fatalf("EmitExpr: %v", err)
		}
		if got != c.want {
			t.Errorf("EmitExpr(%v) = %q, want %q", c.e, got, c.want)
		}
	}
}

func TestEmitArithmetic(t *testing.T) {
	b := Backend{}
	s := backend.NewState(b)
	e := ir.Add(ir.IntConst(schema.U32, 1), ir.IntConst(schema.U32, 2))
	got, err := b.EmitExpr(s, e)
	if err != nil {
		t.Fatal(err)
	}
	if got != "(uint32(1) + uint32(2))" {
		t.Errorf("got %q", got)
	}
}

func TestEmitFunctionDeclaration(t *testing.T) {
	gb := Backend{}
	s := backend.NewState(gb)
	builder := ir.NewBuilder()
	fn := builder.Func([]ir.Type{ir.BitT()}, func(fid ir.FuncID) ir.Expr {
		return ir.Choose(ir.Param(fid, 0), ir.IntConst(schema.U8, 1), ir.IntConst(schema.U8, 0))
	})
	name, err := s.IdentifierOfExpression(fn)
	if err != nil {
		t.Fatal(err)
	}
	decls := s.PrintDeclarations()
	if !strings.Contains(decls, "func "+name) {
		t.Errorf("expected a declaration for %s, got %s", name, decls)
	}
}

func TestTypeNameScalarAndCompound(t *testing.T) {
	mn, err := schema.Parse(schema.NewCatalog(), "{a: u8; b: string?}")
	if err != nil {
		t.Fatal(err)
	}
	name := TypeName(ir.Value(mn))
	if !strings.Contains(name, "A uint8") || !strings.Contains(name, "B *string") {
		t.Errorf("unexpected struct rendering: %s", name)
	}
}
