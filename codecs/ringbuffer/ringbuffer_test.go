package ringbuffer

import (
	"testing"

	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/driver"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

func TestFixedScalarsAreConst(t *testing.T) {
	c := Codec{}
	cases := map[schema.Scalar]uint{
		schema.U8:   1,
		schema.U16:  2,
		schema.U32:  4,
		schema.U64:  8,
		schema.U128: 16,
	}
	for sc, want := range cases {
		ss := c.SSizeOfValue(schema.NotNullable(schema.ScalarType(sc)))
		got, ok := ss.(codec.Const)
		if !ok || got.Bytes != want {
			t.Errorf("%v: expected Const{%d}, got %#v", sc, want, ss)
		}
	}
}

func TestNullableAddsOneByte(t *testing.T) {
	c := Codec{}
	ss := c.SSizeOfValue(schema.MakeNullable(schema.ScalarType(schema.U32)))
	got, ok := ss.(codec.Const)
	if !ok || got.Bytes != 5 {
		t.Fatalf("expected Const{5}, got %#v", ss)
	}
}

func TestRecordWidthIsSumOfFields(t *testing.T) {
	c := Codec{}
	vt, err := schema.NewRec([]schema.NamedField{
		{Name: "a", Type: schema.NotNullable(schema.ScalarType(schema.U8))},
		{Name: "b", Type: schema.NotNullable(schema.ScalarType(schema.U32))},
	})
	if err != nil {
		t.Fatal(err)
	}
	ss := c.SSizeOfValue(schema.NotNullable(vt))
	got, ok := ss.(codec.Const)
	if !ok || got.Bytes != 5 {
		t.Fatalf("expected Const{5}, got %#v", ss)
	}
}

func TestVecWidthIsElemTimesDim(t *testing.T) {
	c := Codec{}
	vt, err := schema.NewVec(4, schema.NotNullable(schema.ScalarType(schema.U16)))
	if err != nil {
		t.Fatal(err)
	}
	ss := c.SSizeOfValue(schema.NotNullable(vt))
	got, ok := ss.(codec.Const)
	if !ok || got.Bytes != 8 {
		t.Fatalf("expected Const{8}, got %#v", ss)
	}
}

func TestStringSizeOfValuePanics(t *testing.T) {
	c := Codec{}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unsizable string type")
		}
		if _, ok := r.(*UnsizableError); !ok {
			t.Fatalf("expected *UnsizableError, got %#v", r)
		}
	}()
	c.SSizeOfValue(schema.NotNullable(schema.ScalarType(schema.String)))
}

func TestListSizeOfValuePanics(t *testing.T) {
	c := Codec{}
	vt := schema.NewList(schema.NotNullable(schema.ScalarType(schema.U8)))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unsizable list type")
		}
	}()
	c.SSizeOfValue(schema.NotNullable(vt))
}

func TestBuildFixedRecordConverter(t *testing.T) {
	c := Codec{}
	cat := schema.NewCatalog()
	d := driver.New(cat, c, c)
	vt, err := schema.NewRec([]schema.NamedField{
		{Name: "a", Type: schema.NotNullable(schema.ScalarType(schema.U8))},
		{Name: "b", Type: schema.NotNullable(schema.ScalarType(schema.U64))},
	})
	if err != nil {
		t.Fatal(err)
	}
	e := d.Build(schema.NotNullable(vt))
	if ir.Print(e) == "" {
		t.Fatal("expected non-empty IR")
	}
}
