// Package driver implements the schema-directed, format-agnostic
// traversal that composes any codec.Deserializer and codec.Serializer
// pair into a single IR expression: a generated converter that reads one
// wire format and writes another without ever decoding into a live Go
// value in between. Grounded on glint's walker.go Visitor traversal,
// which keeps the same two-cursors-in-lockstep invariant between a
// schema reader and a body reader that walk keeps between a Des pointer
// and a Ser pointer.
package driver

import (
	"fmt"

	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

// UnrollThreshold is the vector dimension at or below which walk emits
// straight-line per-element code instead of an ir.Repeat loop. Grounded
// on glint's slicedecoder.go/sliceencoder.go optimizable-fast-path split
// (decodeInstruction.optimizable), the same "straight line below a
// threshold, loop above it" shape applied to Vec lowering.
const UnrollThreshold = 16

// StaticError reports that a schema cannot be walked at all, independent
// of which codecs it would be walked with. Map is the one shape that
// falls in this category: no runtime Map value ever exists in the
// algebra, so there is no pair of cursors to thread through a loop the
// way Vec/List walking does.
type StaticError struct {
	Msg string
}

func (e *StaticError) Error() string { return "driver: " + e.Msg }

// Desser holds the two codec halves and the catalog needed to resolve
// user types while walking a schema. A converter is built once per
// (source format, destination format, schema) triple via Build.
type Desser struct {
	Cat *schema.Catalog
	Des codec.Deserializer
	Ser codec.Serializer
	b   *ir.Builder
}

// New constructs a Desser over cat, converting values read by des into
// values written by ser.
func New(cat *schema.Catalog, des codec.Deserializer, ser codec.Serializer) *Desser {
	return &Desser{Cat: cat, Des: des, Ser: ser, b: ir.NewBuilder()}
}

// Build returns a Function(DataPtr, DataPtr) -> Pair(DataPtr, DataPtr)
// converting one value of type mn: given a read cursor and a write
// cursor, it returns both cursors advanced past the value.
func (d *Desser) Build(mn schema.MaybeNullable) ir.Expr {
	return d.b.Func([]ir.Type{ir.DataPtr(), ir.DataPtr()}, func(fid ir.FuncID) ir.Expr {
		return d.walk(mn, ir.Param(fid, 0), ir.Param(fid, 1))
	})
}

// walk produces IR reading one value of type mn from ptrD with d.Des and
// writing it to ptrS with d.Ser, returning Pair(DataPtr, DataPtr) of the
// two advanced cursors.
//
// Ordering rule (critical, spec.md §4.4): every Opn/Cls/Sep call made
// against d.Des must be mirrored, in the same order, against d.Ser. Both
// codecs may hold implicit cursor state (a bit offset, a nesting depth)
// that only stays consistent if reads and writes interleave identically;
// reordering "read everything then write everything" breaks any codec
// that isn't purely positional.
func (d *Desser) walk(mn schema.MaybeNullable, ptrD, ptrS ir.Expr) ir.Expr {
	if mn.Nullable {
		return d.walkNullable(mn, ptrD, ptrS)
	}
	return d.walkNotNullable(mn.Type, ptrD, ptrS)
}

// walkNullable handles the nullability bit before dispatching to the
// inner (non-nullable) shape. The null test is read before the Choose
// so that both branches of the generated code are well-typed without
// re-testing: SNullable must be called on the serializing side before
// the Choose commits to a branch, mirroring the "test, then branch, then
// recurse" order glint's walkSubschema uses for its own optional fields.
func (d *Desser) walkNullable(mn schema.MaybeNullable, ptrD, ptrS ir.Expr) ir.Expr {
	isNull := d.Des.DNullEmpty(ptrD)
	return ir.Let("isnull", isNull,
		ir.Let("sn", d.Ser.SNullable(ptrS, ir.Identifier("isnull")),
			ir.Choose(ir.Identifier("isnull"),
				ir.Pair(ptrD, ir.Identifier("sn")),
				d.walkNotNullable(mn.Type, ptrD, ir.Identifier("sn")))),
	)
}

func (d *Desser) walkNotNullable(vt schema.ValueType, ptrD, ptrS ir.Expr) ir.Expr {
	switch vt.Kind {
	case schema.KScalar:
		return d.walkScalar(vt.ScalarV, ptrD, ptrS)
	case schema.KUser:
		resolved, err := d.Cat.Resolve(vt)
		if err != nil {
			panic(fmt.Sprintf("driver: unresolved user type %q: %v", vt.UserV, err))
		}
		return d.walk(resolved, ptrD, ptrS)
	case schema.KTup:
		return d.walkTup(vt, ptrD, ptrS)
	case schema.KRec:
		return d.walkRec(vt, ptrD, ptrS)
	case schema.KVec:
		return d.walkVec(vt, ptrD, ptrS)
	case schema.KList:
		return d.walkList(vt, ptrD, ptrS)
	case schema.KMap:
		panic(&StaticError{Msg: "cannot walk into Map"})
	}
	panic(fmt.Sprintf("driver: unhandled value-type kind %v", vt.Kind))
}

func (d *Desser) walkScalar(sc schema.Scalar, ptrD, ptrS ir.Expr) ir.Expr {
	read := d.Des.DScalar(sc, ptrD) // Pair(Value(sc), DataPtr)
	return ir.Let("rv", read,
		ir.Pair(
			ir.Snd(ir.Identifier("rv")),
			d.Ser.SScalar(sc, ptrS, ir.Fst(ir.Identifier("rv"))),
		),
	)
}

// walkTup threads the two cursors through each item in order, opening
// and closing both sides around the loop and separating between items.
func (d *Desser) walkTup(vt schema.ValueType, ptrD, ptrS ir.Expr) ir.Expr {
	dCur := d.Des.OpenTup(ptrD)
	sCur := d.Ser.OpnTup(ptrS)
	for i, item := range vt.TupItems {
		if i > 0 {
			dCur = d.Des.SepTup(dCur, i)
			sCur = d.Ser.SepTupW(sCur, i)
		}
		pair := d.walk(item, dCur, sCur)
		dCur = ir.Let("p", pair, ir.Fst(ir.Identifier("p")))
		sCur = ir.Let("p", pair, ir.Snd(ir.Identifier("p")))
	}
	dCur = d.Des.ClsTup(dCur)
	sCur = d.Ser.ClsTupW(sCur)
	return ir.Pair(dCur, sCur)
}

func (d *Desser) walkRec(vt schema.ValueType, ptrD, ptrS ir.Expr) ir.Expr {
	dCur := d.Des.OpenRec(ptrD)
	sCur := d.Ser.OpnRec(ptrS)
	for i, f := range vt.RecFields {
		if i > 0 {
			dCur = d.Des.SepRec(dCur, f.Name)
			sCur = d.Ser.SepRecW(sCur, f.Name)
		}
		pair := d.walk(f.Type, dCur, sCur)
		dCur = ir.Let("p", pair, ir.Fst(ir.Identifier("p")))
		sCur = ir.Let("p", pair, ir.Snd(ir.Identifier("p")))
	}
	dCur = d.Des.ClsRec(dCur)
	sCur = d.Ser.ClsRecW(sCur)
	return ir.Pair(dCur, sCur)
}

// walkVec lowers a fixed-dimension vector either as straight-line
// unrolled code (dim <= UnrollThreshold) or as an ir.Repeat loop over a
// freshly-allocated accumulator pair, matching glint's
// optimizable-fast-path split between small and large fixed collections.
func (d *Desser) walkVec(vt schema.ValueType, ptrD, ptrS ir.Expr) ir.Expr {
	dCur := d.Des.OpenVec(ptrD, vt.VecDim)
	sCur := d.Ser.OpnVec(ptrS, vt.VecDim)

	if vt.VecDim <= UnrollThreshold {
		for i := uint(0); i < vt.VecDim; i++ {
			if i > 0 {
				dCur = d.Des.SepVec(dCur, int(i))
				sCur = d.Ser.SepVecW(sCur, int(i))
			}
			pair := d.walk(vt.VecElem, dCur, sCur)
			dCur = ir.Let("p", pair, ir.Fst(ir.Identifier("p")))
			sCur = ir.Let("p", pair, ir.Snd(ir.Identifier("p")))
		}
		dCur = d.Des.ClsVec(dCur)
		sCur = d.Ser.ClsVecW(sCur)
		return ir.Pair(dCur, sCur)
	}

	// Element 0 is walked ahead of the loop; the loop then runs indices
	// 1..dim-1, each preceded by a separator on both sides.
	first := d.walk(vt.VecElem, dCur, sCur)
	body := d.b.Func([]ir.Type{ir.SizeT(), ir.PairT(ir.DataPtr(), ir.DataPtr())}, func(fid ir.FuncID) ir.Expr {
		cursors := ir.Param(fid, 1)
		curD := ir.Fst(cursors)
		curS := ir.Snd(cursors)
		sepD := d.Des.SepVec(curD, 0)
		sepS := d.Ser.SepVecW(curS, 0)
		return d.walk(vt.VecElem, sepD, sepS)
	})
	loop := ir.Repeat(ir.IntConst(schema.U32, 1), intConstFromDim(vt.VecDim), body, first)
	return ir.Let("final", loop,
		ir.Pair(d.Des.ClsVec(ir.Fst(ir.Identifier("final"))), d.Ser.ClsVecW(ir.Snd(ir.Identifier("final")))),
	)
}

func intConstFromDim(dim uint) ir.Expr {
	return ir.UintConst(schema.U32, uint64(dim))
}

// walkList dispatches on the Deserializer's reported ListOpener: a
// KnownSize codec reads an up-front count and the writer mirrors it with
// WriteSize before any elements; an UnknownSize codec instead loops on a
// per-element continuation test, with the writer framing each element as
// it goes (no up-front count to write).
func (d *Desser) walkList(vt schema.ValueType, ptrD, ptrS ir.Expr) ir.Expr {
	openD, opener := d.Des.OpenList(ptrD)

	switch op := opener.(type) {
	case codec.KnownSize:
		sizePair := op.ReadSize(openD) // Pair(Size, DataPtr)
		return ir.Let("sp", sizePair, func() ir.Expr {
			n := ir.Fst(ir.Identifier("sp"))
			curD := ir.Snd(ir.Identifier("sp"))
			curS := d.Ser.OpnList(ptrS, n, codec.KnownSize{WriteSize: op.WriteSize})
			loopInit := ir.Pair(curD, curS)
			body := d.b.Func([]ir.Type{ir.SizeT(), ir.PairT(ir.DataPtr(), ir.DataPtr())}, func(fid ir.FuncID) ir.Expr {
				cursors := ir.Param(fid, 1)
				cD := ir.Fst(cursors)
				cS := ir.Snd(cursors)
				return d.walk(vt.VecElem, cD, cS)
			})
			loop := ir.Repeat(ir.UintConst(schema.U32, 0), n, body, loopInit)
			return ir.Let("final", loop,
				ir.Pair(d.Des.ClsList(ir.Fst(ir.Identifier("final"))), d.Ser.ClsListW(ir.Snd(ir.Identifier("final")))),
			)
		}())

	case codec.UnknownSize:
		// UnknownSize codecs frame each element as it is written and never
		// consult the element count; it is passed through only to satisfy
		// Serializer.OpnList's uniform signature.
		curS := d.Ser.OpnList(ptrS, ir.UintConst(schema.U32, 0), codec.UnknownSize{TestEnd: op.TestEnd})
		condBody := d.b.Func([]ir.Type{ir.PairT(ir.DataPtr(), ir.DataPtr())}, func(fid ir.FuncID) ir.Expr {
			cursors := ir.Param(fid, 0)
			cD := ir.Fst(cursors)
			return ir.Not(op.TestEnd(cD))
		})
		stepBody := d.b.Func([]ir.Type{ir.PairT(ir.DataPtr(), ir.DataPtr())}, func(fid ir.FuncID) ir.Expr {
			cursors := ir.Param(fid, 0)
			cD := ir.Fst(cursors)
			cS := ir.Snd(cursors)
			elem := d.walk(vt.VecElem, cD, cS)
			return ir.Let("p", elem, ir.Pair(
				d.Des.SepList(ir.Fst(ir.Identifier("p"))),
				d.Ser.SepListW(ir.Snd(ir.Identifier("p"))),
			))
		})
		loop := ir.LoopWhile(condBody, stepBody, ir.Pair(openD, curS))
		return ir.Let("final", loop,
			ir.Pair(d.Des.ClsList(ir.Fst(ir.Identifier("final"))), d.Ser.ClsListW(ir.Snd(ir.Identifier("final")))),
		)
	}
	panic("driver: unknown ListOpener implementation")
}

