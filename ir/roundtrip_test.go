package ir

import (
	"testing"

	"github.com/dessser-go/dessser/schema"
)

func TestRoundTripLeaves(t *testing.T) {
	cases := []Expr{
		BoolConst(true),
		BoolConst(false),
		CharConst('x'),
		StrConst("hello \"world\"\n"),
		FloatConst(3.5),
		IntConst(schema.U8, 7),
		UintConst(schema.U64, 1<<40),
		Null(schema.ScalarType(schema.String)),
		Identifier("x"),
		Param(3, 1),
	}
	for _, e := range cases {
		s := Print(e)
		got, err := ParseExpr(s)
		if err != nil {
			t.Fatalf("ParseExpr(%q): %v", s, err)
		}
		if Print(got) != s {
			t.Errorf("round trip mismatch: %q != %q", Print(got), s)
		}
	}
}

func TestRoundTripCompound(t *testing.T) {
	e := Let("n", IntConst(schema.U32, 10),
		Add(Identifier("n"), IntConst(schema.U32, 1)))
	s := Print(e)
	got, err := ParseExpr(s)
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", s, err)
	}
	if Print(got) != s {
		t.Errorf("round trip mismatch: %q != %q", Print(got), s)
	}
}

func TestRoundTripFunctionAndChoose(t *testing.T) {
	b := NewBuilder()
	fn := b.Func([]Type{BoolT()}, func(fid FuncID) Expr {
		return Choose(Param(fid, 0), IntConst(schema.U8, 1), IntConst(schema.U8, 0))
	})
	s := Print(fn)
	got, err := ParseExpr(s)
	if err != nil {
		t.Fatalf("ParseExpr(%q): %v", s, err)
	}
	if Print(got) != s {
		t.Errorf("round trip mismatch: %q != %q", Print(got), s)
	}
}

func TestRoundTripCastAndEndian(t *testing.T) {
	cases := []Expr{
		ByteOfU8(IntConst(schema.U8, 5)),
		ReadWordLE(Identifier("ptr")),
		WriteDWordBE(Identifier("ptr"), Identifier("v")),
	}
	for _, e := range cases {
		s := Print(e)
		got, err := ParseExpr(s)
		if err != nil {
			t.Fatalf("ParseExpr(%q): %v", s, err)
		}
		if Print(got) != s {
			t.Errorf("round trip mismatch: %q != %q", Print(got), s)
		}
	}
}

func TestRoundTripType(t *testing.T) {
	cases := []Type{
		Void(), DataPtr(), SizeT(), BitT(), ByteT(), WordT(), DWordT(), QWordT(), OWordT(), BytesT(),
		Value(schema.NotNullable(schema.ScalarType(schema.U8))),
		ValuePtr(schema.MakeNullable(schema.ScalarType(schema.String))),
		PairT(ByteT(), DataPtr()),
		FunctionT([]Type{ByteT(), SizeT()}, BitT()),
	}
	for _, ty := range cases {
		s := ty.String()
		got, err := ParseType(s)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", s, err)
		}
		if !got.Equal(ty) {
			t.Errorf("ParseType(%q) = %v, want %v", s, got, ty)
		}
	}
}

func TestTypeOfArithmetic(t *testing.T) {
	env := NewEnv()
	e := Add(IntConst(schema.U32, 1), IntConst(schema.U32, 2))
	ty, err := TypeOf(env, e)
	if err != nil {
		t.Fatal(err)
	}
	want := Value(schema.NotNullable(schema.ScalarType(schema.U32)))
	if !ty.Equal(want) {
		t.Errorf("got %v want %v", ty, want)
	}
}

func TestTypeOfArithmeticMismatchIsError(t *testing.T) {
	env := NewEnv()
	e := Add(IntConst(schema.U32, 1), IntConst(schema.U8, 2))
	if _, err := TypeOf(env, e); err == nil {
		t.Fatal("expected a type error for mismatched operand widths")
	}
}

func TestTypeOfUndeclaredIdentifier(t *testing.T) {
	env := NewEnv()
	if _, err := TypeOf(env, Identifier("nope")); err == nil {
		t.Fatal("expected an UndeclaredError")
	} else if _, ok := err.(*UndeclaredError); !ok {
		t.Fatalf("expected *UndeclaredError, got %T", err)
	}
}

func TestTypeOfLetBindsName(t *testing.T) {
	env := NewEnv()
	e := Let("x", IntConst(schema.U8, 1), Identifier("x"))
	ty, err := TypeOf(env, e)
	if err != nil {
		t.Fatal(err)
	}
	want := Value(schema.NotNullable(schema.ScalarType(schema.U8)))
	if !ty.Equal(want) {
		t.Errorf("got %v want %v", ty, want)
	}
}

func TestTypeOfFunctionAndChoose(t *testing.T) {
	env := NewEnv()
	b := NewBuilder()
	fn := b.Func([]Type{BoolT()}, func(fid FuncID) Expr {
		return Choose(Param(fid, 0), IntConst(schema.U8, 1), IntConst(schema.U8, 0))
	})
	ty, err := TypeOf(env, fn)
	if err != nil {
		t.Fatal(err)
	}
	want := FunctionT([]Type{BoolT()}, Value(schema.NotNullable(schema.ScalarType(schema.U8))))
	if !ty.Equal(want) {
		t.Errorf("got %v want %v", ty, want)
	}
}

func TestTypeOfIsNullRequiresNullable(t *testing.T) {
	env := NewEnv()
	if _, err := TypeOf(env, IsNull(IntConst(schema.U8, 1))); err == nil {
		t.Fatal("expected a type error: IsNull on a non-nullable value")
	}
}

func TestTypeOfCoalesce(t *testing.T) {
	env := NewEnv()
	e := Coalesce(ToNullable(IntConst(schema.U16, 1)), IntConst(schema.U16, 0))
	ty, err := TypeOf(env, e)
	if err != nil {
		t.Fatal(err)
	}
	want := Value(schema.NotNullable(schema.ScalarType(schema.U16)))
	if !ty.Equal(want) {
		t.Errorf("got %v want %v", ty, want)
	}
}

func TestTypeOfPairFstSnd(t *testing.T) {
	env := NewEnv()
	p := Pair(IntConst(schema.U8, 1), BoolConst(true))
	fty, err := TypeOf(env, Fst(p))
	if err != nil {
		t.Fatal(err)
	}
	if !fty.Equal(Value(schema.NotNullable(schema.ScalarType(schema.U8)))) {
		t.Errorf("Fst type = %v", fty)
	}
	sty, err := TypeOf(env, Snd(p))
	if err != nil {
		t.Fatal(err)
	}
	if !sty.Equal(BitT()) {
		t.Errorf("Snd type = %v", sty)
	}
}

func TestTypeOfRepeat(t *testing.T) {
	env := NewEnv()
	b := NewBuilder()
	body := b.Func([]Type{SizeT(), Value(schema.NotNullable(schema.ScalarType(schema.U32)))}, func(fid FuncID) Expr {
		return Add(Param(fid, 1), NumConv(schema.U32, Param(fid, 0)))
	})
	e := Repeat(IntConst(schema.U32, 0), IntConst(schema.U32, 10), body, IntConst(schema.U32, 0))
	ty, err := TypeOf(env, e)
	if err != nil {
		t.Fatal(err)
	}
	want := Value(schema.NotNullable(schema.ScalarType(schema.U32)))
	if !ty.Equal(want) {
		t.Errorf("got %v want %v", ty, want)
	}
}
