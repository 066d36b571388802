package rowbinary

import (
	"strings"
	"testing"

	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/driver"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

func TestFixedWidthScalarsAreConst(t *testing.T) {
	c := Codec{}
	cases := map[schema.Scalar]uint{
		schema.U8:  1,
		schema.U16: 2,
		schema.U32: 4,
		schema.U64: 8,
	}
	for sc, want := range cases {
		ss := c.SSizeOfValue(schema.NotNullable(schema.ScalarType(sc)))
		got, ok := ss.(codec.Const)
		if !ok || got.Bytes != want {
			t.Errorf("%v: expected Const{%d}, got %#v", sc, want, ss)
		}
	}
}

func TestStringIsDyn(t *testing.T) {
	c := Codec{}
	ss := c.SSizeOfValue(schema.NotNullable(schema.ScalarType(schema.String)))
	if _, ok := ss.(codec.Dyn); !ok {
		t.Fatalf("expected Dyn for string, got %#v", ss)
	}
}

func TestNullableAddsOneByteToConstWidth(t *testing.T) {
	c := Codec{}
	ss := c.SSizeOfValue(schema.MakeNullable(schema.ScalarType(schema.U32)))
	got, ok := ss.(codec.Const)
	if !ok || got.Bytes != 5 {
		t.Fatalf("expected Const{5}, got %#v", ss)
	}
}

func TestBuildListConverterUsesKnownSize(t *testing.T) {
	c := Codec{}
	cat := schema.NewCatalog()
	d := driver.New(cat, c, c)
	vt := schema.NewList(schema.NotNullable(schema.ScalarType(schema.U8)))
	e := d.Build(schema.NotNullable(vt))
	if !strings.Contains(ir.Print(e), "Repeat") {
		t.Error("RowBinary arrays are KnownSize and should lower via Repeat")
	}
}

func TestCompressedListWrapsDataPtrPushPop(t *testing.T) {
	c := Codec{Compressed: true}
	cat := schema.NewCatalog()
	d := driver.New(cat, c, c)
	vt := schema.NewList(schema.NotNullable(schema.ScalarType(schema.U8)))
	s := ir.Print(d.Build(schema.NotNullable(vt)))
	if !strings.Contains(s, "DataPtrPush") || !strings.Contains(s, "DataPtrPop") {
		t.Error("expected compressed list bodies to be wrapped in DataPtrPush/DataPtrPop")
	}
}

func TestWithCompressionOption(t *testing.T) {
	cfg := codec.NewConfig(WithCompression(true))
	c := New(cfg)
	if !c.Compressed {
		t.Error("expected WithCompression(true) to set Compressed")
	}
}
