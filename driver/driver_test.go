package driver

import (
	"strings"
	"testing"

	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

// fakeCodec is a minimal stand-in Deserializer+Serializer whose every
// method just advances its pointer by a constant, sufficient to exercise
// walk's structural recursion without depending on a real wire format.
// Grounded on glint's own test doubles style (table-driven fixtures built
// directly in the _test.go file rather than a separate mock package).
type fakeCodec struct{}

func bump(ptr ir.Expr, n uint64) ir.Expr { return ir.DataPtrAdd(ptr, ir.UintConst(schema.U32, n)) }

func (fakeCodec) SSizeOfValue(vt schema.MaybeNullable) codec.SSize { return codec.Const{Bytes: 1} }

func (fakeCodec) DScalar(sc schema.Scalar, ptr ir.Expr) ir.Expr {
	return ir.Pair(ir.IntConst(sc, 0), bump(ptr, 1))
}
func (fakeCodec) DNullEmpty(ptr ir.Expr) ir.Expr          { return ir.BoolConst(false) }
func (fakeCodec) OpenTup(ptr ir.Expr) ir.Expr             { return ptr }
func (fakeCodec) SepTup(ptr ir.Expr, i int) ir.Expr       { return ptr }
func (fakeCodec) ClsTup(ptr ir.Expr) ir.Expr              { return ptr }
func (fakeCodec) OpenRec(ptr ir.Expr) ir.Expr             { return ptr }
func (fakeCodec) SepRec(ptr ir.Expr, name string) ir.Expr { return ptr }
func (fakeCodec) ClsRec(ptr ir.Expr) ir.Expr              { return ptr }
func (fakeCodec) OpenVec(ptr ir.Expr, dim uint) ir.Expr   { return ptr }
func (fakeCodec) SepVec(ptr ir.Expr, i int) ir.Expr       { return ptr }
func (fakeCodec) ClsVec(ptr ir.Expr) ir.Expr              { return ptr }
func (fakeCodec) OpenList(ptr ir.Expr) (ir.Expr, codec.ListOpener) {
	return ptr, codec.KnownSize{
		ReadSize:  func(p ir.Expr) ir.Expr { return ir.Pair(ir.UintConst(schema.U32, 3), p) },
		WriteSize: func(p, n ir.Expr) ir.Expr { return p },
	}
}
func (fakeCodec) SepList(ptr ir.Expr) ir.Expr    { return ptr }
func (fakeCodec) ClsList(ptr ir.Expr) ir.Expr    { return ptr }
func (fakeCodec) OpenMap(ptr ir.Expr) ir.Expr    { return ptr }
func (fakeCodec) SepMapKV(ptr ir.Expr) ir.Expr   { return ptr }
func (fakeCodec) SepMapPair(ptr ir.Expr) ir.Expr { return ir.BoolConst(true) }
func (fakeCodec) ClsMap(ptr ir.Expr) ir.Expr     { return ptr }

func (fakeCodec) SScalar(sc schema.Scalar, ptr, v ir.Expr) ir.Expr                { return bump(ptr, 1) }
func (fakeCodec) SNullable(ptr ir.Expr, isNull ir.Expr) ir.Expr                   { return ptr }
func (fakeCodec) OpnTup(ptr ir.Expr) ir.Expr                                      { return ptr }
func (fakeCodec) SepTupW(ptr ir.Expr, i int) ir.Expr                              { return ptr }
func (fakeCodec) ClsTupW(ptr ir.Expr) ir.Expr                                     { return ptr }
func (fakeCodec) OpnRec(ptr ir.Expr) ir.Expr                                      { return ptr }
func (fakeCodec) SepRecW(ptr ir.Expr, name string) ir.Expr                        { return ptr }
func (fakeCodec) ClsRecW(ptr ir.Expr) ir.Expr                                     { return ptr }
func (fakeCodec) OpnVec(ptr ir.Expr, dim uint) ir.Expr                            { return ptr }
func (fakeCodec) SepVecW(ptr ir.Expr, i int) ir.Expr                              { return ptr }
func (fakeCodec) ClsVecW(ptr ir.Expr) ir.Expr                                     { return ptr }
func (fakeCodec) OpnList(ptr ir.Expr, n ir.Expr, opener codec.ListOpener) ir.Expr { return ptr }
func (fakeCodec) SepListW(ptr ir.Expr) ir.Expr                                    { return ptr }
func (fakeCodec) ClsListW(ptr ir.Expr) ir.Expr                                    { return ptr }
func (fakeCodec) OpnMap(ptr ir.Expr) ir.Expr                                      { return ptr }
func (fakeCodec) SepMapKVW(ptr ir.Expr) ir.Expr                                   { return ptr }
func (fakeCodec) SepMapPairW(ptr ir.Expr) ir.Expr                                 { return ptr }
func (fakeCodec) ClsMapW(ptr ir.Expr) ir.Expr                                     { return ptr }

func newTestDesser() *Desser {
	cat := schema.NewCatalog()
	fc := fakeCodec{}
	return New(cat, fc, fc)
}

func TestWalkScalarBuilds(t *testing.T) {
	d := newTestDesser()
	mn := schema.NotNullable(schema.ScalarType(schema.U8))
	e := d.Build(mn)
	s := ir.Print(e)
	if !strings.Contains(s, "Function") {
		t.Errorf("expected a Function shape, got %s", s)
	}
}

func TestWalkNullableBuilds(t *testing.T) {
	d := newTestDesser()
	mn := schema.MakeNullable(schema.ScalarType(schema.String))
	e := d.Build(mn)
	s := ir.Print(e)
	if !strings.Contains(s, "Choose") {
		t.Errorf("expected a Choose in the nullable lowering, got %s", s)
	}
}

func TestWalkRecordBuilds(t *testing.T) {
	d := newTestDesser()
	vt, err := schema.NewRec([]schema.NamedField{
		{Name: "a", Type: schema.NotNullable(schema.ScalarType(schema.U8))},
		{Name: "b", Type: schema.NotNullable(schema.ScalarType(schema.Bool))},
	})
	if err != nil {
		t.Fatal(err)
	}
	e := d.Build(schema.NotNullable(vt))
	if ir.Print(e) == "" {
		t.Fatal("expected non-empty IR")
	}
}

func TestWalkVectorUnrollVsRepeat(t *testing.T) {
	d1 := newTestDesser()
	small, err := schema.NewVec(4, schema.NotNullable(schema.ScalarType(schema.U8)))
	if err != nil {
		t.Fatal(err)
	}
	smallExpr := ir.Print(d1.Build(schema.NotNullable(small)))
	if strings.Contains(smallExpr, "Repeat") {
		t.Error("small vector should unroll, not use Repeat")
	}

	d2 := newTestDesser()
	big, err := schema.NewVec(UnrollThreshold+10, schema.NotNullable(schema.ScalarType(schema.U8)))
	if err != nil {
		t.Fatal(err)
	}
	bigExpr := ir.Print(d2.Build(schema.NotNullable(big)))
	if !strings.Contains(bigExpr, "Repeat") {
		t.Error("large vector should lower via Repeat")
	}
}

func TestWalkListBuilds(t *testing.T) {
	d := newTestDesser()
	vt := schema.NewList(schema.NotNullable(schema.ScalarType(schema.U8)))
	e := d.Build(schema.NotNullable(vt))
	if !strings.Contains(ir.Print(e), "Repeat") {
		t.Error("expected a KnownSize list to lower via Repeat")
	}
}

func TestWalkMapIsAStaticError(t *testing.T) {
	d := newTestDesser()
	vt := schema.NewMap(schema.NotNullable(schema.ScalarType(schema.String)), schema.NotNullable(schema.ScalarType(schema.U8)))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected walking a Map to panic with a StaticError")
		}
		se, ok := r.(*StaticError)
		if !ok {
			t.Fatalf("expected *StaticError, got %#v", r)
		}
		if se.Msg != "cannot walk into Map" {
			t.Errorf("unexpected StaticError message: %q", se.Msg)
		}
	}()
	d.Build(schema.NotNullable(vt))
}
