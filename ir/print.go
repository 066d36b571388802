package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dessser-go/dessser/schema"
)

// kidsOnlyOps are every Op whose entire payload is its Kids slice: no
// literal, name, scalar, or type annotation rides along. Print/Parse treat
// these generically as `(OpName kid...)`.
var kidsOnlyOps = map[Op]bool{
	OpNumToStr: true, OpNot: true, OpBitNot: true, OpIsNull: true,
	OpToNullable: true, OpToNotNullable: true, OpFst: true, OpSnd: true,
	OpStrLen: true, OpListLen: true, OpRemSize: true, OpReadByte: true,
	OpDataPtrPush: true, OpDataPtrPop: true, OpDerefValuePtr: true,
	OpDump: true, OpIgnore: true,
	OpGt: true, OpGe: true, OpEq: true, OpNe: true, OpAdd: true, OpSub: true,
	OpMul: true, OpDiv: true, OpRem: true, OpLogAnd: true, OpLogOr: true,
	OpLogXor: true, OpLShift: true, OpRShift: true, OpAnd: true, OpOr: true,
	OpAppendBytes: true, OpAppendString: true, OpTestBit: true,
	OpReadBytes: true, OpPeekByte: true, OpWriteByte: true, OpWriteBytes: true,
	OpPokeByte: true, OpDataPtrAdd: true, OpDataPtrSub: true,
	OpCoalesce: true, OpPair: true, OpMapPair: true,
	OpSetBit: true, OpBlitByte: true, OpChoose: true,
	OpLoopWhile: true, OpLoopUntil: true, OpReadWhile: true, OpRepeat: true,
}

// Print renders e as an s-expression. Parse(Print(e)) reconstructs an
// Expr equal to e field-by-field (the round-trip law exercised by
// roundtrip_test.go).
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

func printExpr(b *strings.Builder, e Expr) {
	switch e.Op {
	case OpBoolConst:
		fmt.Fprintf(b, "(Bool %v)", e.BoolV)
	case OpCharConst:
		fmt.Fprintf(b, "(Char %d)", e.Uint64V)
	case OpStrConst:
		fmt.Fprintf(b, "(Str %s)", strconv.Quote(e.StrV))
	case OpFloatConst:
		fmt.Fprintf(b, "(Float %s)", strconv.FormatFloat(e.FloatV, 'g', -1, 64))
	case OpIntConst:
		fmt.Fprintf(b, "(Int %s %d)", e.Scalar.String(), e.Uint64V)
	case OpNullConst:
		fmt.Fprintf(b, "(Null %s)", strconv.Quote(schema.Print(schema.NotNullable(e.VT))))
	case OpIdentifier:
		fmt.Fprintf(b, "(Id %s)", e.Name)
	case OpParam:
		fmt.Fprintf(b, "(Param %d %d)", e.ParamFuncID, e.ParamIndex)
	case OpLet:
		b.WriteString("(Let ")
		b.WriteString(e.Name)
		b.WriteByte(' ')
		printExpr(b, e.Kids[0])
		b.WriteByte(' ')
		printExpr(b, e.Kids[1])
		b.WriteByte(')')
	case OpFunction:
		fmt.Fprintf(b, "(Function %d (", e.FuncIDV)
		for i, p := range e.Params {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.String())
		}
		b.WriteString(") ")
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	case OpSeq:
		b.WriteString("(Seq")
		for _, s := range e.SeqExprs {
			b.WriteByte(' ')
			printExpr(b, s)
		}
		b.WriteByte(')')
	case OpNumConv:
		fmt.Fprintf(b, "(NumConv %s ", e.Scalar.String())
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	case OpNumParse:
		fmt.Fprintf(b, "(NumParse %s ", e.Scalar.String())
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	case OpCastRepr:
		fmt.Fprintf(b, "(CastRepr %s %s ", e.From.String(), e.To.String())
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	case OpTupItem:
		fmt.Fprintf(b, "(TupItem %d ", e.Int64V)
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	case OpRecField:
		fmt.Fprintf(b, "(RecField %s ", e.Name)
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	case OpVecElem:
		fmt.Fprintf(b, "(VecElem %d ", e.Int64V)
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	case OpReadWordE:
		fmt.Fprintf(b, "(ReadWord %s %s ", widthName(e.Width), e.Endian)
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	case OpWriteWordE:
		fmt.Fprintf(b, "(WriteWord %s %s ", widthName(e.Width), e.Endian)
		printExpr(b, e.Kids[0])
		b.WriteByte(' ')
		printExpr(b, e.Kids[1])
		b.WriteByte(')')
	case OpPeekWordE:
		fmt.Fprintf(b, "(PeekWord %s %s ", widthName(e.Width), e.Endian)
		printExpr(b, e.Kids[0])
		b.WriteByte(')')
	default:
		if !kidsOnlyOps[e.Op] {
			fmt.Fprintf(b, "(?unknown-op-%d?)", e.Op)
			return
		}
		b.WriteByte('(')
		b.WriteString(e.Op.String())
		for _, k := range e.Kids {
			b.WriteByte(' ')
			printExpr(b, k)
		}
		b.WriteByte(')')
	}
}

func widthName(w Width) string {
	switch w {
	case WWord:
		return "Word"
	case WDWord:
		return "DWord"
	case WQWord:
		return "QWord"
	case WOWord:
		return "OWord"
	}
	return "?"
}
