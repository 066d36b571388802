// Package sexpr implements the reference codec named throughout spec.md:
// a human-readable, fully self-describing textual encoding where every
// compound value is parenthesised and every scalar is printed as a plain
// token, separated by whitespace. It exists primarily as an
// easy-to-eyeball format for tests and debugging, not for performance.
//
// Grounded on glint's Buffer/Reader low-level append/read primitives
// (buffer.go, reader.go) for the byte-at-a-time style of hand-rolled
// encoding, generalized from glint's fixed binary layout to a printed,
// delimiter-driven one. Because nothing about this format predicts a
// value's byte width ahead of time, SSizeOfValue always reports Dyn
// (Open Question #3, spec.md §9): only codecs with a fixed-width wire
// layout (codecs/ringbuffer) can promise Const.
package sexpr

import (
	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

const (
	openParen  = '('
	closeParen = ')'
	space      = ' '
	nullAtom   = 'n' // leading byte of the literal atom "null"
)

// Codec implements both codec.Deserializer and codec.Serializer for the
// s-expression format: the same zero-sized type drives both directions,
// since the format needs no asymmetric state between reading and
// writing (unlike, say, a codec with a separate length-prefix table).
type Codec struct{}

var (
	_ codec.Deserializer = Codec{}
	_ codec.Serializer   = Codec{}
)

// SSizeOfValue always reports Dyn: the printed format's byte width
// depends on the actual digits/characters written, never on the schema
// alone.
func (Codec) SSizeOfValue(vt schema.MaybeNullable) codec.SSize {
	return codec.Dyn{Compute: func(ptr ir.Expr) ir.Expr {
		return ir.RemSize(ptr)
	}}
}

func skipSpace(ptr ir.Expr) ir.Expr {
	return readWhileByte(ptr, func(b ir.Expr) ir.Expr { return ir.Eq(b, ir.CharConst(space)) })
}

// readWhileByte advances ptr past every leading byte satisfying pred,
// using ir.ReadWhile's own continuation-test shape (pred gets peeked
// bytes, not consumed ones, mirroring spec.md's ReadWhile semantics).
func readWhileByte(ptr ir.Expr, pred func(ir.Expr) ir.Expr) ir.Expr {
	b := ir.NewBuilder()
	condFn := b.Func([]ir.Type{ir.ByteT()}, func(fid ir.FuncID) ir.Expr {
		return pred(ir.Param(fid, 0))
	})
	reduceFn := b.Func([]ir.Type{ir.Void(), ir.ByteT()}, func(fid ir.FuncID) ir.Expr {
		return ir.Param(fid, 0)
	})
	pair := ir.ReadWhile(condFn, reduceFn, ir.Void(), ptr)
	return ir.Snd(pair)
}

// readToken scans the bytes of one atom starting at p (everything up to
// the next space or closing paren) and returns Pair(Bytes, DataPtr) of
// the bytes actually scanned and the cursor positioned right after them
// — the token's length is the difference between the remaining size at
// p and the remaining size at the scan's end, then read back with
// ReadBytes so callers get the real bytes instead of re-deriving them.
func readToken(p ir.Expr) ir.Expr {
	end := readWhileByte(p, func(b ir.Expr) ir.Expr {
		return ir.And(ir.Ne(b, ir.CharConst(space)), ir.Ne(b, ir.CharConst(closeParen)))
	})
	return ir.Let("tokend", end, func() ir.Expr {
		n := ir.Sub(ir.RemSize(p), ir.RemSize(ir.Identifier("tokend")))
		return ir.Pair(ir.Fst(ir.ReadBytes(p, n)), ir.Identifier("tokend"))
	}())
}

func (Codec) DScalar(sc schema.Scalar, ptr ir.Expr) ir.Expr {
	p := skipSpace(ptr)
	switch sc {
	case schema.Bool:
		isTrue := ir.Eq(ir.PeekByte(p, ir.IntConst(schema.U8, 0)), ir.CharConst('T'))
		tok := readToken(p)
		return ir.Let("tok", tok, ir.Pair(isTrue, ir.Snd(ir.Identifier("tok"))))
	case schema.String, schema.Char:
		return readToken(p)
	default:
		tok := readToken(p)
		return ir.Let("tok", tok, ir.Pair(
			ir.NumParse(sc, ir.Fst(ir.Identifier("tok"))),
			ir.Snd(ir.Identifier("tok")),
		))
	}
}

// DNullEmpty tests for the reserved "null" atom a nullable value's wire
// slot would otherwise start a scalar/compound with. Only the first
// non-blank byte is compared.
func (Codec) DNullEmpty(ptr ir.Expr) ir.Expr {
	return ir.Eq(ir.PeekByte(skipSpace(ptr), ir.IntConst(schema.U8, 0)), ir.CharConst(nullAtom))
}

func openP(ptr ir.Expr) ir.Expr  { return ir.DataPtrAdd(skipSpace(ptr), ir.IntConst(schema.U8, 1)) }
func closeP(ptr ir.Expr) ir.Expr { return ir.DataPtrAdd(skipSpace(ptr), ir.IntConst(schema.U8, 1)) }

func (Codec) OpenTup(ptr ir.Expr) ir.Expr       { return openP(ptr) }
func (Codec) SepTup(ptr ir.Expr, i int) ir.Expr { return skipSpace(ptr) }
func (Codec) ClsTup(ptr ir.Expr) ir.Expr        { return closeP(ptr) }

func (Codec) OpenRec(ptr ir.Expr) ir.Expr             { return openP(ptr) }
func (Codec) SepRec(ptr ir.Expr, name string) ir.Expr { return skipSpace(ptr) }
func (Codec) ClsRec(ptr ir.Expr) ir.Expr              { return closeP(ptr) }

func (Codec) OpenVec(ptr ir.Expr, dim uint) ir.Expr { return openP(ptr) }
func (Codec) SepVec(ptr ir.Expr, i int) ir.Expr     { return skipSpace(ptr) }
func (Codec) ClsVec(ptr ir.Expr) ir.Expr            { return closeP(ptr) }

// OpenList reports UnknownSize: the printed format frames a list with
// parens and relies on testing for the closing paren at each step,
// never an up-front element count (Open Question #3's "Dyn-only" note
// follows from the same fact).
func (Codec) OpenList(ptr ir.Expr) (ir.Expr, codec.ListOpener) {
	return openP(ptr), codec.UnknownSize{
		TestEnd: func(p ir.Expr) ir.Expr {
			return ir.Eq(ir.PeekByte(skipSpace(p), ir.IntConst(schema.U8, 0)), ir.CharConst(closeParen))
		},
	}
}
func (Codec) SepList(ptr ir.Expr) ir.Expr { return skipSpace(ptr) }
func (Codec) ClsList(ptr ir.Expr) ir.Expr { return closeP(ptr) }

func (Codec) OpenMap(ptr ir.Expr) ir.Expr  { return openP(ptr) }
func (Codec) SepMapKV(ptr ir.Expr) ir.Expr { return skipSpace(ptr) }
func (Codec) SepMapPair(ptr ir.Expr) ir.Expr {
	return ir.Eq(ir.PeekByte(skipSpace(ptr), ir.IntConst(schema.U8, 0)), ir.CharConst(closeParen))
}
func (Codec) ClsMap(ptr ir.Expr) ir.Expr { return closeP(ptr) }

// ---- Serializer half ----

func (Codec) SScalar(sc schema.Scalar, ptr, v ir.Expr) ir.Expr {
	switch sc {
	case schema.Bool:
		return ir.WriteByte(ptr, ir.Choose(v, ir.CharConst('T'), ir.CharConst('F')))
	case schema.String, schema.Char:
		return ir.WriteBytes(ptr, v)
	default:
		return ir.WriteBytes(ptr, ir.NumToStr(v))
	}
}

func (Codec) SNullable(ptr ir.Expr, isNull ir.Expr) ir.Expr {
	return ir.Choose(isNull, ir.WriteBytes(ptr, ir.StrConst("null")), ptr)
}

func wOpen(ptr ir.Expr) ir.Expr  { return ir.WriteByte(ptr, ir.CharConst(openParen)) }
func wClose(ptr ir.Expr) ir.Expr { return ir.WriteByte(ptr, ir.CharConst(closeParen)) }
func wSpace(ptr ir.Expr) ir.Expr { return ir.WriteByte(ptr, ir.CharConst(space)) }

func (Codec) OpnTup(ptr ir.Expr) ir.Expr         { return wOpen(ptr) }
func (Codec) SepTupW(ptr ir.Expr, i int) ir.Expr { return wSpace(ptr) }
func (Codec) ClsTupW(ptr ir.Expr) ir.Expr        { return wClose(ptr) }

func (Codec) OpnRec(ptr ir.Expr) ir.Expr               { return wOpen(ptr) }
func (Codec) SepRecW(ptr ir.Expr, name string) ir.Expr { return wSpace(ptr) }
func (Codec) ClsRecW(ptr ir.Expr) ir.Expr              { return wClose(ptr) }

func (Codec) OpnVec(ptr ir.Expr, dim uint) ir.Expr { return wOpen(ptr) }
func (Codec) SepVecW(ptr ir.Expr, i int) ir.Expr   { return wSpace(ptr) }
func (Codec) ClsVecW(ptr ir.Expr) ir.Expr          { return wClose(ptr) }

func (Codec) OpnList(ptr ir.Expr, n ir.Expr, opener codec.ListOpener) ir.Expr { return wOpen(ptr) }
func (Codec) SepListW(ptr ir.Expr) ir.Expr                                    { return wSpace(ptr) }
func (Codec) ClsListW(ptr ir.Expr) ir.Expr                                    { return wClose(ptr) }

func (Codec) OpnMap(ptr ir.Expr) ir.Expr      { return wOpen(ptr) }
func (Codec) SepMapKVW(ptr ir.Expr) ir.Expr   { return wSpace(ptr) }
func (Codec) SepMapPairW(ptr ir.Expr) ir.Expr { return wSpace(ptr) }
func (Codec) ClsMapW(ptr ir.Expr) ir.Expr     { return wClose(ptr) }
