package driver

import (
	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

// Materialize returns a Function(DataPtr) -> Pair(ValuePtr(mn), DataPtr):
// read one value of type mn with d.Des, building it in heap memory rather
// than handing it to a Serializer. This is the "decode-only" half of the
// spec's Des-Ser split (a Materialize followed later by a Serialize over
// the same schema is equivalent to Build, but lets the value be inspected
// or held in between).
//
// Grounded on glint's reflectKindToReflectValue (glint.go, builds a
// reflect.Value straight from a Reader with no intervening Buffer write):
// the same "read into memory, stop" shape, reimplemented as an
// IR-generating function instead of a reflection-driven closure.
func (d *Desser) Materialize(mn schema.MaybeNullable) ir.Expr {
	return d.b.Func([]ir.Type{ir.DataPtr()}, func(fid ir.FuncID) ir.Expr {
		ptrD := ir.Param(fid, 0)
		return d.materialize(mn, ptrD)
	})
}

func (d *Desser) materialize(mn schema.MaybeNullable, ptrD ir.Expr) ir.Expr {
	if mn.Nullable {
		isNull := d.Des.DNullEmpty(ptrD)
		return ir.Let("isnull", isNull,
			ir.Choose(ir.Identifier("isnull"),
				ir.Pair(ir.Null(mn.Type), ptrD),
				ir.Let("nn", d.materializeNotNullable(mn.Type, ptrD),
					ir.Pair(ir.ToNullable(ir.Fst(ir.Identifier("nn"))), ir.Snd(ir.Identifier("nn")))),
			),
		)
	}
	return d.materializeNotNullable(mn.Type, ptrD)
}

func (d *Desser) materializeNotNullable(vt schema.ValueType, ptrD ir.Expr) ir.Expr {
	if vt.Kind == schema.KScalar {
		return d.Des.DScalar(vt.ScalarV, ptrD)
	}
	// Compound shapes go through walkReadOnly, which repeats walk's
	// Des-side Open/Sep/Cls sequence with no Serializer calls; List and
	// Map panic there.
	return d.walkReadOnly(vt, ptrD)
}

// walkReadOnly recurses through compound shapes advancing only the Des
// cursor, for use from Materialize where there is no Ser side.
func (d *Desser) walkReadOnly(vt schema.ValueType, ptrD ir.Expr) ir.Expr {
	switch vt.Kind {
	case schema.KUser:
		resolved, err := d.Cat.Resolve(vt)
		if err != nil {
			panic(err)
		}
		return d.materialize(resolved, ptrD)
	case schema.KTup:
		cur := d.Des.OpenTup(ptrD)
		for i, item := range vt.TupItems {
			if i > 0 {
				cur = d.Des.SepTup(cur, i)
			}
			pair := d.materialize(item, cur)
			cur = ir.Let("p", pair, ir.Snd(ir.Identifier("p")))
		}
		return d.Des.ClsTup(cur)
	case schema.KRec:
		cur := d.Des.OpenRec(ptrD)
		for i, f := range vt.RecFields {
			if i > 0 {
				cur = d.Des.SepRec(cur, f.Name)
			}
			pair := d.materialize(f.Type, cur)
			cur = ir.Let("p", pair, ir.Snd(ir.Identifier("p")))
		}
		return d.Des.ClsRec(cur)
	case schema.KVec:
		cur := d.Des.OpenVec(ptrD, vt.VecDim)
		for i := uint(0); i < vt.VecDim; i++ {
			if i > 0 {
				cur = d.Des.SepVec(cur, int(i))
			}
			pair := d.materialize(vt.VecElem, cur)
			cur = ir.Let("p", pair, ir.Snd(ir.Identifier("p")))
		}
		return d.Des.ClsVec(cur)
	default:
		panic("driver: Materialize does not support List/Map shapes in this reduced bridge")
	}
}

// Serialize returns a Function(ValuePtr(mn), DataPtr) -> DataPtr: write a
// heap value of type mn with d.Ser. Dual of Materialize.
//
// Grounded on glint's AppendDynamicValue (glint.go), which walks a
// reflect.Value and appends it to a Buffer; here the heap value is
// addressed by an ir.ValuePtr instead of reflect.Value, and the append
// target is any Serializer rather than glint's one fixed wire format.
func (d *Desser) Serialize(mn schema.MaybeNullable) ir.Expr {
	return d.b.Func([]ir.Type{ir.ValuePtr(mn), ir.DataPtr()}, func(fid ir.FuncID) ir.Expr {
		vptr := ir.Param(fid, 0)
		ptrS := ir.Param(fid, 1)
		return d.serialize(mn, vptr, ptrS)
	})
}

func (d *Desser) serialize(mn schema.MaybeNullable, vptr, ptrS ir.Expr) ir.Expr {
	return d.serializeValue(mn, ir.DerefValuePtr(vptr), ptrS)
}

// serializeValue writes out v, a Value already dereferenced out of the
// heap (either the top-level ValuePtr or a TupItem/RecField/VecElem
// projection of one), mirroring walkReadOnly's structural recursion on the
// opposite, read-only side.
func (d *Desser) serializeValue(mn schema.MaybeNullable, v, ptrS ir.Expr) ir.Expr {
	if mn.Nullable {
		return ir.Let("v", v,
			ir.Choose(ir.IsNull(ir.Identifier("v")),
				d.Ser.SNullable(ptrS, ir.BoolConst(true)),
				d.serializeNotNullable(mn.Type, ir.ToNotNullable(ir.Identifier("v")), ptrS),
			),
		)
	}
	return d.serializeNotNullable(mn.Type, v, ptrS)
}

func (d *Desser) serializeNotNullable(vt schema.ValueType, v, ptrS ir.Expr) ir.Expr {
	switch vt.Kind {
	case schema.KScalar:
		return d.Ser.SScalar(vt.ScalarV, ptrS, v)
	case schema.KUser:
		resolved, err := d.Cat.Resolve(vt)
		if err != nil {
			panic(err)
		}
		return d.serializeValue(resolved, v, ptrS)
	case schema.KTup:
		cur := d.Ser.OpnTup(ptrS)
		for i, item := range vt.TupItems {
			if i > 0 {
				cur = d.Ser.SepTupW(cur, i)
			}
			cur = d.serializeValue(item, ir.TupItem(v, i), cur)
		}
		return d.Ser.ClsTupW(cur)
	case schema.KRec:
		cur := d.Ser.OpnRec(ptrS)
		for i, f := range vt.RecFields {
			if i > 0 {
				cur = d.Ser.SepRecW(cur, f.Name)
			}
			cur = d.serializeValue(f.Type, ir.RecField(v, f.Name), cur)
		}
		return d.Ser.ClsRecW(cur)
	case schema.KVec:
		cur := d.Ser.OpnVec(ptrS, vt.VecDim)
		for i := uint(0); i < vt.VecDim; i++ {
			if i > 0 {
				cur = d.Ser.SepVecW(cur, int(i))
			}
			cur = d.serializeValue(vt.VecElem, ir.VecElem(v, int(i)), cur)
		}
		return d.Ser.ClsVecW(cur)
	default:
		panic("driver: Serialize does not support List/Map shapes in this reduced bridge; use Build for full Des-to-Ser conversion")
	}
}

// SerSize returns a Function(ValuePtr(mn)) -> Size computing the exact
// byte width d.Ser would write for a heap value of type mn, without
// writing anything: the dynamic half of codec.SSize for formats that
// report Dyn, or a plain constant for formats that report Const.
// Grounded on the same "ask the codec, don't assume" shape as
// codec.SSize itself.
func (d *Desser) SerSize(mn schema.MaybeNullable) ir.Expr {
	return d.b.Func([]ir.Type{ir.ValuePtr(mn)}, func(fid ir.FuncID) ir.Expr {
		vptr := ir.Param(fid, 0)
		switch ss := d.Ser.SSizeOfValue(mn).(type) {
		case codec.Const:
			return ir.UintConst(schema.U32, uint64(ss.Bytes))
		case codec.Dyn:
			return ss.Compute(vptr)
		}
		panic("driver: SSizeOfValue returned neither Const nor Dyn")
	})
}
