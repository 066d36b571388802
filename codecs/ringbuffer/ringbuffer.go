// Package ringbuffer implements Ramen's RingBuffer wire format (named
// directly in spec.md's "Concrete codec modules" list): fixed-width
// machine-aligned fields written directly into pre-reserved ring-buffer
// slots, no length prefixes, no framing bytes at all. Because a slot's
// size must be known before any bytes are written into it (the ring
// buffer reserves the slot up front and only then lets the writer fill
// it in), every value this codec serializes must report a compile-time
// Const size; SSizeOfValue panics with *UnsizableError for anything that
// would need Dyn, which is the resolution to Open Question #3 recorded
// in DESIGN.md.
//
// Grounded on glint's Buffer append-at-fixed-width style (buffer.go's
// AppendUint32-family: aligned, no varint, no length prefix) for the
// "copy the bits in at their natural machine width" encoding.
package ringbuffer

import (
	"fmt"

	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

// UnsizableError reports that a value type has no compile-time-constant
// byte width and therefore cannot be placed in a ring-buffer slot.
type UnsizableError struct {
	Type schema.MaybeNullable
}

func (e *UnsizableError) Error() string {
	return fmt.Sprintf("ringbuffer: %s has no static size (ring-buffer slots must be reserved up front)", schema.Print(e.Type))
}

// Codec implements RingBuffer Deserializer and Serializer.
type Codec struct{}

var (
	_ codec.Deserializer = Codec{}
	_ codec.Serializer   = Codec{}
)

func fixedWidthBytes(sc schema.Scalar) (uint, bool) {
	switch sc {
	case schema.Bool, schema.Char, schema.U8, schema.I8:
		return 1, true
	case schema.U16, schema.I16:
		return 2, true
	case schema.U32, schema.I32, schema.Float:
		return 4, true
	case schema.U64, schema.I64:
		return 8, true
	case schema.U128, schema.I128:
		return 16, true
	}
	return 0, false
}

// SSizeOfValue panics with *UnsizableError for any shape without a
// compile-time-constant width: String, List, and Map in particular can
// never satisfy a ring-buffer slot, so there is no Dyn fallback to
// return the way codecs/rowbinary and codecs/sexpr do.
func (Codec) SSizeOfValue(mn schema.MaybeNullable) codec.SSize {
	bytes, err := staticWidth(mn)
	if err != nil {
		panic(err)
	}
	return codec.Const{Bytes: bytes}
}

func staticWidth(mn schema.MaybeNullable) (uint, error) {
	extra := uint(0)
	if mn.Nullable {
		extra = 1
	}
	w, err := staticWidthVT(mn.Type)
	if err != nil {
		return 0, err
	}
	return w + extra, nil
}

func staticWidthVT(vt schema.ValueType) (uint, error) {
	switch vt.Kind {
	case schema.KScalar:
		if w, ok := fixedWidthBytes(vt.ScalarV); ok {
			return w, nil
		}
		return 0, &UnsizableError{Type: schema.NotNullable(vt)}
	case schema.KVec:
		elem, err := staticWidth(vt.VecElem)
		if err != nil {
			return 0, err
		}
		return elem * vt.VecDim, nil
	case schema.KTup:
		total := uint(0)
		for _, it := range vt.TupItems {
			w, err := staticWidth(it)
			if err != nil {
				return 0, err
			}
			total += w
		}
		return total, nil
	case schema.KRec:
		total := uint(0)
		for _, f := range vt.RecFields {
			w, err := staticWidth(f.Type)
			if err != nil {
				return 0, err
			}
			total += w
		}
		return total, nil
	}
	return 0, &UnsizableError{Type: schema.NotNullable(vt)}
}

func (Codec) DScalar(sc schema.Scalar, ptr ir.Expr) ir.Expr {
	switch sc {
	case schema.U8, schema.Bool, schema.Char, schema.I8:
		return ir.ReadByte(ptr)
	case schema.U16, schema.I16:
		return ir.ReadWordLE(ptr)
	case schema.U32, schema.I32, schema.Float:
		return ir.ReadDWordLE(ptr)
	case schema.U64, schema.I64:
		return ir.ReadQWordLE(ptr)
	case schema.U128, schema.I128:
		return ir.ReadOWordLE(ptr)
	}
	return ir.ReadByte(ptr)
}

func (Codec) DNullEmpty(ptr ir.Expr) ir.Expr {
	return ir.Eq(ir.PeekByte(ptr, ir.IntConst(schema.U8, 0)), ir.IntConst(schema.U8, 1))
}

func (Codec) OpenTup(ptr ir.Expr) ir.Expr             { return ptr }
func (Codec) SepTup(ptr ir.Expr, i int) ir.Expr       { return ptr }
func (Codec) ClsTup(ptr ir.Expr) ir.Expr              { return ptr }
func (Codec) OpenRec(ptr ir.Expr) ir.Expr             { return ptr }
func (Codec) SepRec(ptr ir.Expr, name string) ir.Expr { return ptr }
func (Codec) ClsRec(ptr ir.Expr) ir.Expr              { return ptr }
func (Codec) OpenVec(ptr ir.Expr, dim uint) ir.Expr   { return ptr }
func (Codec) SepVec(ptr ir.Expr, i int) ir.Expr       { return ptr }
func (Codec) ClsVec(ptr ir.Expr) ir.Expr              { return ptr }

// OpenList/OpenMap exist to satisfy codec.Deserializer and panic with
// *UnsizableError: this codec has no list or map encoding. driver.walk
// does not consult SSizeOfValue before walking, so a schema containing a
// list reaches this panic directly.
func (Codec) OpenList(ptr ir.Expr) (ir.Expr, codec.ListOpener) {
	panic(&UnsizableError{})
}
func (Codec) SepList(ptr ir.Expr) ir.Expr    { return ptr }
func (Codec) ClsList(ptr ir.Expr) ir.Expr    { return ptr }
func (Codec) OpenMap(ptr ir.Expr) ir.Expr    { panic(&UnsizableError{}) }
func (Codec) SepMapKV(ptr ir.Expr) ir.Expr   { return ptr }
func (Codec) SepMapPair(ptr ir.Expr) ir.Expr { return ir.BoolConst(true) }
func (Codec) ClsMap(ptr ir.Expr) ir.Expr     { return ptr }

// ---- Serializer half ----

func (Codec) SScalar(sc schema.Scalar, ptr, v ir.Expr) ir.Expr {
	switch sc {
	case schema.U8, schema.Bool, schema.Char, schema.I8:
		return ir.WriteByte(ptr, ir.ByteOfU8(ir.NumConv(schema.U8, v)))
	case schema.U16, schema.I16:
		return ir.WriteWordLE(ptr, ir.WordOfU16(ir.NumConv(schema.U16, v)))
	case schema.U32, schema.I32, schema.Float:
		return ir.WriteDWordLE(ptr, ir.DWordOfU32(ir.NumConv(schema.U32, v)))
	case schema.U64, schema.I64:
		return ir.WriteQWordLE(ptr, ir.QWordOfU64(ir.NumConv(schema.U64, v)))
	case schema.U128, schema.I128:
		return ir.WriteOWordLE(ptr, ir.OWordOfU128(v))
	}
	return ir.WriteByte(ptr, ir.ByteOfU8(ir.NumConv(schema.U8, v)))
}

func (Codec) SNullable(ptr ir.Expr, isNull ir.Expr) ir.Expr {
	return ir.WriteByte(ptr, ir.ByteOfU8(ir.Choose(isNull, ir.IntConst(schema.U8, 1), ir.IntConst(schema.U8, 0))))
}

func (Codec) OpnTup(ptr ir.Expr) ir.Expr               { return ptr }
func (Codec) SepTupW(ptr ir.Expr, i int) ir.Expr       { return ptr }
func (Codec) ClsTupW(ptr ir.Expr) ir.Expr              { return ptr }
func (Codec) OpnRec(ptr ir.Expr) ir.Expr               { return ptr }
func (Codec) SepRecW(ptr ir.Expr, name string) ir.Expr { return ptr }
func (Codec) ClsRecW(ptr ir.Expr) ir.Expr              { return ptr }
func (Codec) OpnVec(ptr ir.Expr, dim uint) ir.Expr     { return ptr }
func (Codec) SepVecW(ptr ir.Expr, i int) ir.Expr       { return ptr }
func (Codec) ClsVecW(ptr ir.Expr) ir.Expr              { return ptr }

func (Codec) OpnList(ptr ir.Expr, n ir.Expr, opener codec.ListOpener) ir.Expr {
	panic(&UnsizableError{})
}
func (Codec) SepListW(ptr ir.Expr) ir.Expr    { return ptr }
func (Codec) ClsListW(ptr ir.Expr) ir.Expr    { return ptr }
func (Codec) OpnMap(ptr ir.Expr) ir.Expr      { panic(&UnsizableError{}) }
func (Codec) SepMapKVW(ptr ir.Expr) ir.Expr   { return ptr }
func (Codec) SepMapPairW(ptr ir.Expr) ir.Expr { return ptr }
func (Codec) ClsMapW(ptr ir.Expr) ir.Expr     { return ptr }
