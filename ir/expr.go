package ir

import "github.com/dessser-go/dessser/schema"

// Op tags which constructor an Expr is. The shape of each Op's payload is
// documented next to its constructor function below. Where spec.md names a
// whole family of near-identical operators (the eighteen ToU8..ToI128
// widening/narrowing casts, the ParseU8..ParseI128/ParseFloat family, the
// Word/DWord/QWord/OWord-by-endianness stream ops), the Op tag set keeps
// one tag per family and carries the distinguishing scalar/endianness as a
// payload field, rather than minting one Go constant per named operator —
// the semantic surface (one constructor per name spec.md lists) is
// preserved at the exported-function level, not at the Op-enum level.
type Op uint16

const (
	opInvalid Op = iota

	// constants
	OpBoolConst
	OpCharConst
	OpStrConst
	OpIntConst // Int64/Uint64 payload, Scalar names the width/signedness
	OpFloatConst
	OpNullConst // VT names the inner value-type

	// variables / binding
	OpIdentifier
	OpParam
	OpLet
	OpFunction
	OpSeq

	// unary
	OpNumConv  // widening/narrowing numeric cast; Scalar = target width
	OpNumParse // string -> numeric; Scalar = target width ("" float -> Float)
	OpNumToStr // numeric -> string
	OpCastRepr // representation cast between two fixed IR types; From/To set
	OpNot      // logical not
	OpBitNot   // bitwise not
	OpIsNull
	OpToNullable
	OpToNotNullable
	OpFst
	OpSnd
	OpStrLen
	OpListLen
	OpRemSize
	OpReadByte
	OpDataPtrPush
	OpDataPtrPop
	OpDerefValuePtr
	OpDump
	OpIgnore
	OpTupItem  // project item i out of a Tup Value; Int64V holds i
	OpRecField // project field by name out of a Rec Value; Name holds it
	OpVecElem  // project element i out of a Vec Value; Int64V holds i

	// binary
	OpGt
	OpGe
	OpEq
	OpNe
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpLogAnd
	OpLogOr
	OpLogXor
	OpLShift
	OpRShift
	OpAnd
	OpOr
	OpAppendBytes
	OpAppendString
	OpTestBit
	OpReadBytes
	OpPeekByte
	OpWriteByte
	OpWriteBytes
	OpPokeByte
	OpDataPtrAdd
	OpDataPtrSub
	OpCoalesce
	OpPair
	OpMapPair

	// ternary
	OpSetBit
	OpBlitByte
	OpChoose
	OpLoopWhile
	OpLoopUntil

	// quaternary
	OpReadWhile
	OpRepeat

	// endian-parameterised stream ops; Width names Word/DWord/QWord/OWord,
	// Endian names LittleEndian/BigEndian
	OpReadWordE
	OpWriteWordE
	OpPeekWordE
)

// Endian selects byte order for the endian-parameterised stream ops.
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) String() string {
	if e == BigEndian {
		return "BE"
	}
	return "LE"
}

// Width selects the machine word size for the endian-parameterised stream
// ops and for OpCastRepr's fixed representation casts.
type Width uint8

const (
	WWord Width = iota
	WDWord
	WQWord
	WOWord
)

// FuncID is a fresh per-Builder function identifier (spec.md invariant:
// "the function-identifier counter is strictly monotonic; no two live
// lambdas share a function id" -- scoped per Builder rather than
// process-wide, per the DESIGN NOTES recommendation).
type FuncID uint64

// Expr is a closed tagged tree (spec.md §3.3). Exactly the fields relevant
// to Op are populated; Kids holds the 0..4 positional operands every
// non-special-shape op has, Seq and Function are the two special shapes.
type Expr struct {
	Op   Op
	Kids []Expr

	// leaf payloads
	BoolV   bool
	Int64V  int64
	Uint64V uint64
	FloatV  float64
	StrV    string
	Scalar  schema.Scalar // OpIntConst width/sign, OpNumConv/OpNumParse target
	VT      schema.ValueType
	Name    string // OpIdentifier, OpLet binder name
	Endian  Endian
	Width   Width
	From    *Type // OpCastRepr
	To      *Type // OpCastRepr

	// OpParam
	ParamFuncID FuncID
	ParamIndex  int

	// OpFunction
	FuncIDV FuncID
	Params  []Type

	// OpSeq
	SeqExprs []Expr
}

func leaf(op Op) Expr { return Expr{Op: op} }

func unary(op Op, a Expr) Expr               { return Expr{Op: op, Kids: []Expr{a}} }
func binary(op Op, a, b Expr) Expr           { return Expr{Op: op, Kids: []Expr{a, b}} }
func ternary(op Op, a, b, c Expr) Expr       { return Expr{Op: op, Kids: []Expr{a, b, c}} }
func quaternary(op Op, a, b, c, d Expr) Expr { return Expr{Op: op, Kids: []Expr{a, b, c, d}} }

// ---- constants ----

func BoolConst(v bool) Expr     { return Expr{Op: OpBoolConst, BoolV: v} }
func CharConst(v byte) Expr     { return Expr{Op: OpCharConst, Uint64V: uint64(v)} }
func StrConst(v string) Expr    { return Expr{Op: OpStrConst, StrV: v} }
func FloatConst(v float64) Expr { return Expr{Op: OpFloatConst, FloatV: v} }

// IntConst constructs a constant of the given integer scalar width. v is
// interpreted as signed if sc.IsSigned(), else unsigned.
func IntConst(sc schema.Scalar, v int64) Expr {
	return Expr{Op: OpIntConst, Scalar: sc, Int64V: v, Uint64V: uint64(v)}
}

// UintConst constructs an unsigned-width integer constant directly from a
// uint64 (needed for U64/U128 literals that don't fit in int64).
func UintConst(sc schema.Scalar, v uint64) Expr {
	return Expr{Op: OpIntConst, Scalar: sc, Uint64V: v, Int64V: int64(v)}
}

// Null constructs Null(vt), of type Value(Nullable(vt)) (spec.md invariant).
func Null(vt schema.ValueType) Expr { return Expr{Op: OpNullConst, VT: vt} }

// ---- variables ----

func Identifier(name string) Expr { return Expr{Op: OpIdentifier, Name: name} }

func Param(fid FuncID, index int) Expr {
	return Expr{Op: OpParam, ParamFuncID: fid, ParamIndex: index}
}

func Let(name string, value, body Expr) Expr {
	return Expr{Op: OpLet, Name: name, Kids: []Expr{value, body}}
}

// Function constructs a k-ary abstraction with a fresh id (minted by the
// caller's Builder, see builder.go) and typed parameters.
func Function(fid FuncID, params []Type, body Expr) Expr {
	cp := make([]Type, len(params))
	copy(cp, params)
	return Expr{Op: OpFunction, FuncIDV: fid, Params: cp, Kids: []Expr{body}}
}

// Seq sequences expressions; its value is that of the last one.
func Seq(exprs ...Expr) Expr {
	cp := make([]Expr, len(exprs))
	copy(cp, exprs)
	return Expr{Op: OpSeq, SeqExprs: cp}
}

// ---- unary ----

func NumConv(target schema.Scalar, x Expr) Expr {
	return Expr{Op: OpNumConv, Scalar: target, Kids: []Expr{x}}
}

// NumParse parses a string to the target numeric scalar. Pass
// schema.Float as the target to request the float parser.
func NumParse(target schema.Scalar, x Expr) Expr {
	return Expr{Op: OpNumParse, Scalar: target, Kids: []Expr{x}}
}

func NumToStr(x Expr) Expr        { return unary(OpNumToStr, x) }
func Not(x Expr) Expr             { return unary(OpNot, x) }
func BitNot(x Expr) Expr          { return unary(OpBitNot, x) }
func IsNull(x Expr) Expr          { return unary(OpIsNull, x) }
func ToNullable(x Expr) Expr      { return unary(OpToNullable, x) }
func ToNotNullable(x Expr) Expr   { return unary(OpToNotNullable, x) }
func Fst(x Expr) Expr             { return unary(OpFst, x) }
func Snd(x Expr) Expr             { return unary(OpSnd, x) }
func StrLen(x Expr) Expr          { return unary(OpStrLen, x) }
func ListLen(x Expr) Expr         { return unary(OpListLen, x) }
func RemSize(x Expr) Expr         { return unary(OpRemSize, x) }
func ReadByte(ptr Expr) Expr      { return unary(OpReadByte, ptr) }
func DataPtrPush(ptr Expr) Expr   { return unary(OpDataPtrPush, ptr) }
func DataPtrPop(ptr Expr) Expr    { return unary(OpDataPtrPop, ptr) }
func DerefValuePtr(ptr Expr) Expr { return unary(OpDerefValuePtr, ptr) }
func Dump(x Expr) Expr            { return unary(OpDump, x) }
func Ignore(x Expr) Expr          { return unary(OpIgnore, x) }

// TupItem projects item i out of a Value(Tup) at IR-generation time: i is a
// Go int baked into the tree, not a runtime Size, the same way SepTup/SepVec
// take a plain int rather than an ir.Expr.
func TupItem(v Expr, i int) Expr { return Expr{Op: OpTupItem, Int64V: int64(i), Kids: []Expr{v}} }

// RecField projects a named field out of a Value(Rec).
func RecField(v Expr, name string) Expr { return Expr{Op: OpRecField, Name: name, Kids: []Expr{v}} }

// VecElem projects element i out of a Value(Vec).
func VecElem(v Expr, i int) Expr { return Expr{Op: OpVecElem, Int64V: int64(i), Kids: []Expr{v}} }

// castRepr builds one of the eighteen fixed representation casts spec.md
// names (byte<->u8, word<->u16, ..., bit<->bool, char<->u8).
func castRepr(from, to Type, x Expr) Expr {
	f, t := from, to
	return Expr{Op: OpCastRepr, From: &f, To: &t, Kids: []Expr{x}}
}

func ByteOfU8(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.U8))), ByteT(), x)
}
func U8OfByte(x Expr) Expr {
	return castRepr(ByteT(), Value(schema.NotNullable(schema.ScalarType(schema.U8))), x)
}
func WordOfU16(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.U16))), WordT(), x)
}
func U16OfWord(x Expr) Expr {
	return castRepr(WordT(), Value(schema.NotNullable(schema.ScalarType(schema.U16))), x)
}
func DWordOfU32(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.U32))), DWordT(), x)
}
func U32OfDWord(x Expr) Expr {
	return castRepr(DWordT(), Value(schema.NotNullable(schema.ScalarType(schema.U32))), x)
}
func QWordOfU64(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.U64))), QWordT(), x)
}
func U64OfQWord(x Expr) Expr {
	return castRepr(QWordT(), Value(schema.NotNullable(schema.ScalarType(schema.U64))), x)
}
func OWordOfU128(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.U128))), OWordT(), x)
}
func U128OfOWord(x Expr) Expr {
	return castRepr(OWordT(), Value(schema.NotNullable(schema.ScalarType(schema.U128))), x)
}
func QWordOfFloat(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.Float))), QWordT(), x)
}
func FloatOfQWord(x Expr) Expr {
	return castRepr(QWordT(), Value(schema.NotNullable(schema.ScalarType(schema.Float))), x)
}
func DWordOfSize(x Expr) Expr { return castRepr(SizeT(), DWordT(), x) }
func SizeOfDWord(x Expr) Expr { return castRepr(DWordT(), SizeT(), x) }
func BoolOfBit(x Expr) Expr {
	return castRepr(BitT(), Value(schema.NotNullable(schema.ScalarType(schema.Bool))), x)
}
func BitOfBool(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.Bool))), BitT(), x)
}
func U8OfChar(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.Char))), Value(schema.NotNullable(schema.ScalarType(schema.U8))), x)
}
func CharOfU8(x Expr) Expr {
	return castRepr(Value(schema.NotNullable(schema.ScalarType(schema.U8))), Value(schema.NotNullable(schema.ScalarType(schema.Char))), x)
}

// ---- binary ----

func Gt(a, b Expr) Expr              { return binary(OpGt, a, b) }
func Ge(a, b Expr) Expr              { return binary(OpGe, a, b) }
func Eq(a, b Expr) Expr              { return binary(OpEq, a, b) }
func Ne(a, b Expr) Expr              { return binary(OpNe, a, b) }
func Add(a, b Expr) Expr             { return binary(OpAdd, a, b) }
func Sub(a, b Expr) Expr             { return binary(OpSub, a, b) }
func Mul(a, b Expr) Expr             { return binary(OpMul, a, b) }
func Div(a, b Expr) Expr             { return binary(OpDiv, a, b) }
func Rem(a, b Expr) Expr             { return binary(OpRem, a, b) }
func LogAnd(a, b Expr) Expr          { return binary(OpLogAnd, a, b) }
func LogOr(a, b Expr) Expr           { return binary(OpLogOr, a, b) }
func LogXor(a, b Expr) Expr          { return binary(OpLogXor, a, b) }
func LShift(a, b Expr) Expr          { return binary(OpLShift, a, b) }
func RShift(a, b Expr) Expr          { return binary(OpRShift, a, b) }
func And(a, b Expr) Expr             { return binary(OpAnd, a, b) }
func Or(a, b Expr) Expr              { return binary(OpOr, a, b) }
func AppendBytes(a, b Expr) Expr     { return binary(OpAppendBytes, a, b) }
func AppendString(a, b Expr) Expr    { return binary(OpAppendString, a, b) }
func TestBit(a, b Expr) Expr         { return binary(OpTestBit, a, b) }
func ReadBytes(ptr, n Expr) Expr     { return binary(OpReadBytes, ptr, n) }
func PeekByte(ptr, off Expr) Expr    { return binary(OpPeekByte, ptr, off) }
func WriteByte(ptr, v Expr) Expr     { return binary(OpWriteByte, ptr, v) }
func WriteBytes(ptr, v Expr) Expr    { return binary(OpWriteBytes, ptr, v) }
func PokeByte(ptr, off, v Expr) Expr { return ternary(OpPokeByte, ptr, off, v) }
func DataPtrAdd(ptr, n Expr) Expr    { return binary(OpDataPtrAdd, ptr, n) }
func DataPtrSub(ptr, n Expr) Expr    { return binary(OpDataPtrSub, ptr, n) }
func Coalesce(a, b Expr) Expr        { return binary(OpCoalesce, a, b) }
func Pair(a, b Expr) Expr            { return binary(OpPair, a, b) }
func MapPair(p, fn Expr) Expr        { return binary(OpMapPair, p, fn) }

// ---- ternary ----

func SetBit(ptr, off, v Expr) Expr         { return ternary(OpSetBit, ptr, off, v) }
func BlitByte(ptr, v, n Expr) Expr         { return ternary(OpBlitByte, ptr, v, n) }
func Choose(cond, then, els Expr) Expr     { return ternary(OpChoose, cond, then, els) }
func LoopWhile(cond, body, init Expr) Expr { return ternary(OpLoopWhile, cond, body, init) }
func LoopUntil(body, cond, init Expr) Expr { return ternary(OpLoopUntil, body, cond, init) }

// ---- quaternary ----

func ReadWhile(cond, reduce, init, pos Expr) Expr {
	return quaternary(OpReadWhile, cond, reduce, init, pos)
}
func Repeat(from, to, body, init Expr) Expr {
	return quaternary(OpRepeat, from, to, body, init)
}

// ---- endian-parameterised stream ops ----

func endianOp(op Op, w Width, e Endian, kids ...Expr) Expr {
	return Expr{Op: op, Width: w, Endian: e, Kids: kids}
}

func ReadWordLE(ptr Expr) Expr  { return endianOp(OpReadWordE, WWord, LittleEndian, ptr) }
func ReadWordBE(ptr Expr) Expr  { return endianOp(OpReadWordE, WWord, BigEndian, ptr) }
func ReadDWordLE(ptr Expr) Expr { return endianOp(OpReadWordE, WDWord, LittleEndian, ptr) }
func ReadDWordBE(ptr Expr) Expr { return endianOp(OpReadWordE, WDWord, BigEndian, ptr) }
func ReadQWordLE(ptr Expr) Expr { return endianOp(OpReadWordE, WQWord, LittleEndian, ptr) }
func ReadQWordBE(ptr Expr) Expr { return endianOp(OpReadWordE, WQWord, BigEndian, ptr) }
func ReadOWordLE(ptr Expr) Expr { return endianOp(OpReadWordE, WOWord, LittleEndian, ptr) }
func ReadOWordBE(ptr Expr) Expr { return endianOp(OpReadWordE, WOWord, BigEndian, ptr) }

func WriteWordLE(ptr, v Expr) Expr  { return endianOp(OpWriteWordE, WWord, LittleEndian, ptr, v) }
func WriteWordBE(ptr, v Expr) Expr  { return endianOp(OpWriteWordE, WWord, BigEndian, ptr, v) }
func WriteDWordLE(ptr, v Expr) Expr { return endianOp(OpWriteWordE, WDWord, LittleEndian, ptr, v) }
func WriteDWordBE(ptr, v Expr) Expr { return endianOp(OpWriteWordE, WDWord, BigEndian, ptr, v) }
func WriteQWordLE(ptr, v Expr) Expr { return endianOp(OpWriteWordE, WQWord, LittleEndian, ptr, v) }
func WriteQWordBE(ptr, v Expr) Expr { return endianOp(OpWriteWordE, WQWord, BigEndian, ptr, v) }
func WriteOWordLE(ptr, v Expr) Expr { return endianOp(OpWriteWordE, WOWord, LittleEndian, ptr, v) }
func WriteOWordBE(ptr, v Expr) Expr { return endianOp(OpWriteWordE, WOWord, BigEndian, ptr, v) }

func PeekWordLE(ptr Expr) Expr  { return endianOp(OpPeekWordE, WWord, LittleEndian, ptr) }
func PeekWordBE(ptr Expr) Expr  { return endianOp(OpPeekWordE, WWord, BigEndian, ptr) }
func PeekDWordLE(ptr Expr) Expr { return endianOp(OpPeekWordE, WDWord, LittleEndian, ptr) }
func PeekDWordBE(ptr Expr) Expr { return endianOp(OpPeekWordE, WDWord, BigEndian, ptr) }
func PeekQWordLE(ptr Expr) Expr { return endianOp(OpPeekWordE, WQWord, LittleEndian, ptr) }
func PeekQWordBE(ptr Expr) Expr { return endianOp(OpPeekWordE, WQWord, BigEndian, ptr) }
func PeekOWordLE(ptr Expr) Expr { return endianOp(OpPeekWordE, WOWord, LittleEndian, ptr) }
func PeekOWordBE(ptr Expr) Expr { return endianOp(OpPeekWordE, WOWord, BigEndian, ptr) }
