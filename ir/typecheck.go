package ir

import (
	"fmt"

	"github.com/dessser-go/dessser/schema"
)

// UndeclaredError reports a reference to a Let-bound identifier or Param
// that isn't in scope. This is a fatal IR-construction error (spec.md §7
// regime 2): the generator aborts rather than trying to recover.
type UndeclaredError struct {
	Name string
}

func (e *UndeclaredError) Error() string { return fmt.Sprintf("ir: undeclared identifier %q", e.Name) }

// TypeError reports that an expression's operand had a type other than
// the one its operator requires.
type TypeError struct {
	Op       Op
	Expected string
	Found    Type
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("ir: type error in %v: expected %s, found %s", e.Op, e.Expected, e.Found)
}

// Env is the typing environment: Let-bound names and Function parameter
// lists currently in scope. It is immutable from the caller's perspective;
// TypeOf threads extended copies down through Let and Function bodies
// rather than mutating a shared map, so a single Env can be safely reused
// across sibling subexpressions.
type Env struct {
	vars   map[string]Type
	params map[FuncID][]Type
}

// NewEnv returns an empty typing environment.
func NewEnv() *Env {
	return &Env{vars: map[string]Type{}, params: map[FuncID][]Type{}}
}

func (e *Env) withVar(name string, t Type) *Env {
	n := &Env{vars: make(map[string]Type, len(e.vars)+1), params: e.params}
	for k, v := range e.vars {
		n.vars[k] = v
	}
	n.vars[name] = t
	return n
}

func (e *Env) withParams(fid FuncID, params []Type) *Env {
	n := &Env{vars: e.vars, params: make(map[FuncID][]Type, len(e.params)+1)}
	for k, v := range e.params {
		n.params[k] = v
	}
	n.params[fid] = params
	return n
}

// TypeOf infers the IR type of e under env, or reports the first type
// error or undeclared-identifier error encountered (spec.md §3.4). It does
// not mutate env or e.
func TypeOf(env *Env, e Expr) (Type, error) {
	switch e.Op {

	case OpBoolConst:
		return BoolT(), nil
	case OpCharConst:
		return Value(schema.NotNullable(schema.ScalarType(schema.Char))), nil
	case OpStrConst:
		return Value(schema.NotNullable(schema.ScalarType(schema.String))), nil
	case OpFloatConst:
		return Value(schema.NotNullable(schema.ScalarType(schema.Float))), nil
	case OpIntConst:
		return Value(schema.NotNullable(schema.ScalarType(e.Scalar))), nil
	case OpNullConst:
		return Value(schema.MakeNullable(e.VT)), nil

	case OpIdentifier:
		t, ok := env.vars[e.Name]
		if !ok {
			return Type{}, &UndeclaredError{Name: e.Name}
		}
		return t, nil

	case OpParam:
		ps, ok := env.params[e.ParamFuncID]
		if !ok || e.ParamIndex < 0 || e.ParamIndex >= len(ps) {
			return Type{}, &UndeclaredError{Name: fmt.Sprintf("param#%d/%d", e.ParamFuncID, e.ParamIndex)}
		}
		return ps[e.ParamIndex], nil

	case OpLet:
		vt, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		return TypeOf(env.withVar(e.Name, vt), e.Kids[1])

	case OpFunction:
		inner := env.withParams(e.FuncIDV, e.Params)
		bodyT, err := TypeOf(inner, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		return FunctionT(e.Params, bodyT), nil

	case OpSeq:
		var last Type
		for _, sub := range e.SeqExprs {
			t, err := TypeOf(env, sub)
			if err != nil {
				return Type{}, err
			}
			last = t
		}
		return last, nil

	case OpNumConv:
		if _, err := TypeOf(env, e.Kids[0]); err != nil {
			return Type{}, err
		}
		return Value(schema.NotNullable(schema.ScalarType(e.Scalar))), nil

	case OpNumParse:
		st, err := requireValueKind(env, e, e.Kids[0], schema.String)
		if err != nil {
			return Type{}, err
		}
		_ = st
		return Value(schema.MakeNullable(schema.ScalarType(e.Scalar))), nil

	case OpNumToStr:
		if _, err := requireNumeric(env, e, e.Kids[0]); err != nil {
			return Type{}, err
		}
		return Value(schema.NotNullable(schema.ScalarType(schema.String))), nil

	case OpNot, OpBitNot:
		t, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if !t.Equal(BitT()) && !t.IsNumeric() {
			return Type{}, &TypeError{Op: e.Op, Expected: "Bit or numeric", Found: t}
		}
		return t, nil

	case OpIsNull:
		t, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if t.Kind != TValue || !t.MN.Nullable {
			return Type{}, &TypeError{Op: e.Op, Expected: "nullable Value", Found: t}
		}
		return BoolT(), nil

	case OpToNullable:
		t, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if t.Kind != TValue || t.MN.Nullable {
			return Type{}, &TypeError{Op: e.Op, Expected: "non-nullable Value", Found: t}
		}
		return Value(schema.MakeNullable(t.MN.Type)), nil

	case OpToNotNullable:
		t, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if t.Kind != TValue || !t.MN.Nullable {
			return Type{}, &TypeError{Op: e.Op, Expected: "nullable Value", Found: t}
		}
		return Value(schema.NotNullable(t.MN.Type)), nil

	case OpFst:
		t, err := requirePair(env, e, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		return *t.Fst, nil

	case OpSnd:
		t, err := requirePair(env, e, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		return *t.Snd, nil

	case OpTupItem:
		vt, err := requireValueShape(env, e, e.Kids[0], schema.KTup)
		if err != nil {
			return Type{}, err
		}
		if e.Int64V < 0 || int(e.Int64V) >= len(vt.TupItems) {
			return Type{}, &TypeError{Op: e.Op, Expected: "in-range Tup index", Found: Type{Kind: TValue, MN: schema.NotNullable(vt)}}
		}
		return Value(vt.TupItems[e.Int64V]), nil

	case OpRecField:
		vt, err := requireValueShape(env, e, e.Kids[0], schema.KRec)
		if err != nil {
			return Type{}, err
		}
		for _, f := range vt.RecFields {
			if f.Name == e.Name {
				return Value(f.Type), nil
			}
		}
		return Type{}, &TypeError{Op: e.Op, Expected: "Rec field " + e.Name, Found: Type{Kind: TValue, MN: schema.NotNullable(vt)}}

	case OpVecElem:
		vt, err := requireValueShape(env, e, e.Kids[0], schema.KVec)
		if err != nil {
			return Type{}, err
		}
		if e.Int64V < 0 || uint(e.Int64V) >= vt.VecDim {
			return Type{}, &TypeError{Op: e.Op, Expected: "in-range Vec index", Found: Type{Kind: TValue, MN: schema.NotNullable(vt)}}
		}
		return Value(vt.VecElem), nil

	case OpStrLen:
		if _, err := requireValueKind(env, e, e.Kids[0], schema.String); err != nil {
			return Type{}, err
		}
		return SizeT(), nil

	case OpListLen:
		if _, err := TypeOf(env, e.Kids[0]); err != nil {
			return Type{}, err
		}
		return SizeT(), nil

	case OpRemSize:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		return SizeT(), nil

	case OpReadByte:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		return PairT(ByteT(), DataPtr()), nil

	case OpDataPtrPush, OpDataPtrPop:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		return DataPtr(), nil

	case OpDerefValuePtr:
		t, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if t.Kind != TValuePtr {
			return Type{}, &TypeError{Op: e.Op, Expected: "ValuePtr", Found: t}
		}
		return Value(t.Root), nil

	case OpDump:
		return TypeOf(env, e.Kids[0])

	case OpIgnore:
		if _, err := TypeOf(env, e.Kids[0]); err != nil {
			return Type{}, err
		}
		return Void(), nil

	case OpCastRepr:
		have, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if !have.Equal(*e.From) {
			return Type{}, &TypeError{Op: e.Op, Expected: e.From.String(), Found: have}
		}
		return *e.To, nil

	case OpGt, OpGe, OpEq, OpNe:
		a, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		b, err := TypeOf(env, e.Kids[1])
		if err != nil {
			return Type{}, err
		}
		if !a.Equal(b) {
			return Type{}, &TypeError{Op: e.Op, Expected: a.String(), Found: b}
		}
		return BoolT(), nil

	case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpLShift, OpRShift:
		a, err := requireNumeric(env, e, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		b, err := requireNumeric(env, e, e.Kids[1])
		if err != nil {
			return Type{}, err
		}
		if !a.Equal(b) {
			return Type{}, &TypeError{Op: e.Op, Expected: a.String(), Found: b}
		}
		return a, nil

	case OpLogAnd, OpLogOr, OpLogXor, OpAnd, OpOr:
		if err := requireKind(env, e, e.Kids[0], TBit); err != nil {
			return Type{}, err
		}
		if err := requireKind(env, e, e.Kids[1], TBit); err != nil {
			return Type{}, err
		}
		return BitT(), nil

	case OpAppendBytes, OpAppendString:
		a, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if _, err := TypeOf(env, e.Kids[1]); err != nil {
			return Type{}, err
		}
		return a, nil

	case OpTestBit:
		if err := requireKind(env, e, e.Kids[0], TByte); err != nil {
			return Type{}, err
		}
		if _, err := requireNumeric(env, e, e.Kids[1]); err != nil {
			return Type{}, err
		}
		return BitT(), nil

	case OpReadBytes:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		if _, err := requireNumeric(env, e, e.Kids[1]); err != nil {
			return Type{}, err
		}
		return PairT(BytesT(), DataPtr()), nil

	case OpPeekByte:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		if _, err := requireNumeric(env, e, e.Kids[1]); err != nil {
			return Type{}, err
		}
		return ByteT(), nil

	case OpWriteByte:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		if err := requireKind(env, e, e.Kids[1], TByte); err != nil {
			return Type{}, err
		}
		return DataPtr(), nil

	case OpWriteBytes:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		if err := requireKind(env, e, e.Kids[1], TBytes); err != nil {
			return Type{}, err
		}
		return DataPtr(), nil

	case OpPokeByte:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		if _, err := requireNumeric(env, e, e.Kids[1]); err != nil {
			return Type{}, err
		}
		if err := requireKind(env, e, e.Kids[2], TByte); err != nil {
			return Type{}, err
		}
		return Void(), nil

	case OpDataPtrAdd, OpDataPtrSub:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		if _, err := requireNumeric(env, e, e.Kids[1]); err != nil {
			return Type{}, err
		}
		return DataPtr(), nil

	case OpCoalesce:
		a, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if a.Kind != TValue || !a.MN.Nullable {
			return Type{}, &TypeError{Op: e.Op, Expected: "nullable Value", Found: a}
		}
		b, err := TypeOf(env, e.Kids[1])
		if err != nil {
			return Type{}, err
		}
		want := Value(schema.NotNullable(a.MN.Type))
		if !b.Equal(want) {
			return Type{}, &TypeError{Op: e.Op, Expected: want.String(), Found: b}
		}
		return want, nil

	case OpPair:
		a, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		b, err := TypeOf(env, e.Kids[1])
		if err != nil {
			return Type{}, err
		}
		return PairT(a, b), nil

	case OpMapPair:
		pt, err := requirePair(env, e, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		ft, err := TypeOf(env, e.Kids[1])
		if err != nil {
			return Type{}, err
		}
		if ft.Kind != TFunction || len(ft.Args) != 2 {
			return Type{}, &TypeError{Op: e.Op, Expected: "binary Function", Found: ft}
		}
		if !ft.Args[0].Equal(*pt.Fst) || !ft.Args[1].Equal(*pt.Snd) {
			return Type{}, &TypeError{Op: e.Op, Expected: pt.String(), Found: ft}
		}
		return *ft.Result, nil

	case OpSetBit:
		if err := requireKind(env, e, e.Kids[0], TByte); err != nil {
			return Type{}, err
		}
		if _, err := requireNumeric(env, e, e.Kids[1]); err != nil {
			return Type{}, err
		}
		if err := requireKind(env, e, e.Kids[2], TBit); err != nil {
			return Type{}, err
		}
		return ByteT(), nil

	case OpBlitByte:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		if err := requireKind(env, e, e.Kids[1], TByte); err != nil {
			return Type{}, err
		}
		if _, err := requireNumeric(env, e, e.Kids[2]); err != nil {
			return Type{}, err
		}
		return DataPtr(), nil

	case OpChoose:
		if err := requireKind(env, e, e.Kids[0], TBit); err != nil {
			return Type{}, err
		}
		a, err := TypeOf(env, e.Kids[1])
		if err != nil {
			return Type{}, err
		}
		b, err := TypeOf(env, e.Kids[2])
		if err != nil {
			return Type{}, err
		}
		if !a.Equal(b) {
			return Type{}, &TypeError{Op: e.Op, Expected: a.String(), Found: b}
		}
		return a, nil

	case OpLoopWhile, OpLoopUntil:
		condIdx, bodyIdx := 0, 1
		if e.Op == OpLoopUntil {
			condIdx, bodyIdx = 1, 0
		}
		init, err := TypeOf(env, e.Kids[2])
		if err != nil {
			return Type{}, err
		}
		condT, err := TypeOf(env, e.Kids[condIdx])
		if err != nil {
			return Type{}, err
		}
		if condT.Kind != TFunction || len(condT.Args) != 1 || !condT.Args[0].Equal(init) || !condT.Result.Equal(BitT()) {
			return Type{}, &TypeError{Op: e.Op, Expected: fmt.Sprintf("Function(%s)->Bit", init), Found: condT}
		}
		bodyT, err := TypeOf(env, e.Kids[bodyIdx])
		if err != nil {
			return Type{}, err
		}
		if bodyT.Kind != TFunction || len(bodyT.Args) != 1 || !bodyT.Args[0].Equal(init) || !bodyT.Result.Equal(init) {
			return Type{}, &TypeError{Op: e.Op, Expected: fmt.Sprintf("Function(%s)->%s", init, init), Found: bodyT}
		}
		return init, nil

	case OpReadWhile:
		condT, err := TypeOf(env, e.Kids[0])
		if err != nil {
			return Type{}, err
		}
		if condT.Kind != TFunction || len(condT.Args) != 1 || !condT.Args[0].Equal(ByteT()) || !condT.Result.Equal(BitT()) {
			return Type{}, &TypeError{Op: e.Op, Expected: "Function(Byte)->Bit", Found: condT}
		}
		init, err := TypeOf(env, e.Kids[2])
		if err != nil {
			return Type{}, err
		}
		reduceT, err := TypeOf(env, e.Kids[1])
		if err != nil {
			return Type{}, err
		}
		wantReduce := FunctionT([]Type{init, ByteT()}, init)
		if !reduceT.Equal(wantReduce) {
			return Type{}, &TypeError{Op: e.Op, Expected: wantReduce.String(), Found: reduceT}
		}
		if err := requireKind(env, e, e.Kids[3], TDataPtr); err != nil {
			return Type{}, err
		}
		return PairT(init, DataPtr()), nil

	case OpRepeat:
		if _, err := requireNumeric(env, e, e.Kids[0]); err != nil {
			return Type{}, err
		}
		if _, err := requireNumeric(env, e, e.Kids[1]); err != nil {
			return Type{}, err
		}
		init, err := TypeOf(env, e.Kids[3])
		if err != nil {
			return Type{}, err
		}
		bodyT, err := TypeOf(env, e.Kids[2])
		if err != nil {
			return Type{}, err
		}
		wantBody := FunctionT([]Type{SizeT(), init}, init)
		if !bodyT.Equal(wantBody) {
			return Type{}, &TypeError{Op: e.Op, Expected: wantBody.String(), Found: bodyT}
		}
		return init, nil

	case OpReadWordE:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		return PairT(widthType(e.Width), DataPtr()), nil

	case OpWriteWordE:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		if err := requireKind(env, e, e.Kids[1], widthType(e.Width).Kind); err != nil {
			return Type{}, err
		}
		return DataPtr(), nil

	case OpPeekWordE:
		if err := requireKind(env, e, e.Kids[0], TDataPtr); err != nil {
			return Type{}, err
		}
		return widthType(e.Width), nil
	}

	return Type{}, fmt.Errorf("ir: TypeOf: unhandled op %v", e.Op)
}

func widthType(w Width) Type {
	switch w {
	case WWord:
		return WordT()
	case WDWord:
		return DWordT()
	case WQWord:
		return QWordT()
	case WOWord:
		return OWordT()
	}
	return Void()
}

func requireKind(env *Env, parent Expr, sub Expr, want TypeKind) error {
	t, err := TypeOf(env, sub)
	if err != nil {
		return err
	}
	if t.Kind != want {
		return &TypeError{Op: parent.Op, Expected: Type{Kind: want}.String(), Found: t}
	}
	return nil
}

func requireNumeric(env *Env, parent Expr, sub Expr) (Type, error) {
	t, err := TypeOf(env, sub)
	if err != nil {
		return Type{}, err
	}
	if !t.IsNumeric() {
		return Type{}, &TypeError{Op: parent.Op, Expected: "numeric", Found: t}
	}
	return t, nil
}

func requirePair(env *Env, parent Expr, sub Expr) (Type, error) {
	t, err := TypeOf(env, sub)
	if err != nil {
		return Type{}, err
	}
	if t.Kind != TPair {
		return Type{}, &TypeError{Op: parent.Op, Expected: "Pair", Found: t}
	}
	return t, nil
}

// requireValueShape requires sub to type as a non-nullable Value of the
// given compound Kind (Tup/Rec/Vec), returning its ValueType for the
// caller to index into.
func requireValueShape(env *Env, parent Expr, sub Expr, want schema.Kind) (schema.ValueType, error) {
	t, err := TypeOf(env, sub)
	if err != nil {
		return schema.ValueType{}, err
	}
	if t.Kind != TValue || t.MN.Nullable || t.MN.Type.Kind != want {
		return schema.ValueType{}, &TypeError{Op: parent.Op, Expected: fmt.Sprintf("non-nullable Value of kind %v", want), Found: t}
	}
	return t.MN.Type, nil
}

func requireValueKind(env *Env, parent Expr, sub Expr, want schema.Scalar) (Type, error) {
	t, err := TypeOf(env, sub)
	if err != nil {
		return Type{}, err
	}
	if t.Kind != TValue || t.MN.Nullable || t.MN.Type.Kind != schema.KScalar || t.MN.Type.ScalarV != want {
		return Type{}, &TypeError{Op: parent.Op, Expected: "Value(" + want.String() + ")", Found: t}
	}
	return t, nil
}
