// Package golang implements backend.Backend for Go source: every
// ir.Function becomes a named Go func, every other ir.Expr lowers to an
// inline Go expression fragment. Grounded on cmd/glint/template.go's
// text-template-based source emission generalized from glint's one fixed
// struct-decoding shape to an arbitrary typed ir.Expr tree, and on
// golang.org/x/tools/imports (rather than bare go/format) for formatting
// and import resolution of the final file, the way a multi-package
// generator needs.
package golang

import (
	"fmt"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/dessser-go/dessser/backend"
	"github.com/dessser-go/dessser/ir"
)

// Backend is the Go source backend. It carries no state of its own; all
// mutable emission state lives in the shared backend.State.
type Backend struct{}

func (Backend) NamePrefix() string { return "conv" }

// TypeName renders an ir.Type as the Go type it's represented by.
func TypeName(t ir.Type) string {
	switch t.Kind {
	case ir.TVoid:
		return "struct{}"
	case ir.TDataPtr:
		return "dessser.DataPtr"
	case ir.TValuePtr:
		return "*" + goValueTypeName(t.Root)
	case ir.TSize:
		return "int"
	case ir.TBit:
		return "bool"
	case ir.TByte:
		return "byte"
	case ir.TWord:
		return "uint16"
	case ir.TDWord:
		return "uint32"
	case ir.TQWord:
		return "uint64"
	case ir.TOWord:
		return "[16]byte"
	case ir.TBytes:
		return "[]byte"
	case ir.TPair:
		return fmt.Sprintf("dessser.Pair[%s, %s]", TypeName(*t.Fst), TypeName(*t.Snd))
	case ir.TFunction:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = TypeName(a)
		}
		return fmt.Sprintf("func(%s) %s", strings.Join(args, ", "), TypeName(*t.Result))
	case ir.TValue:
		return goValueTypeName(t.MN)
	}
	return "any"
}

func (b Backend) EmitDeclaration(s *backend.State, name string, fn ir.Expr) (string, string, error) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("p%d %s", i, TypeName(p))
	}
	fnType, err := ir.TypeOf(ir.NewEnv(), fn)
	if err != nil {
		return "", "", err
	}
	resultType := TypeName(*fnType.Result)
	bodySrc, err := b.EmitExpr(s, fn.Kids[0])
	if err != nil {
		return "", "", err
	}
	sig := fmt.Sprintf("func %s(%s) %s", name, strings.Join(params, ", "), resultType)
	def := fmt.Sprintf("%s {\n\treturn %s\n}\n", sig, bodySrc)
	return sig, def, nil
}

// Format runs the emitted source through golang.org/x/tools/imports,
// resolving/grouping imports the way a generated multi-declaration file
// needs (plain go/format would only gofmt, never touch imports).
func Format(src string) ([]byte, error) {
	return imports.Process("generated.go", []byte(src), nil)
}

func (b Backend) EmitExpr(s *backend.State, e ir.Expr) (string, error) {
	switch e.Op {
	case ir.OpBoolConst:
		return fmt.Sprintf("%v", e.BoolV), nil
	case ir.OpCharConst:
		return fmt.Sprintf("byte(%d)", e.Uint64V), nil
	case ir.OpStrConst:
		return fmt.Sprintf("%q", e.StrV), nil
	case ir.OpFloatConst:
		return fmt.Sprintf("%v", e.FloatV), nil
	case ir.OpIntConst:
		if e.Scalar.IsSigned() {
			return fmt.Sprintf("%s(%d)", goScalarGoType(e.Scalar), e.Int64V), nil
		}
		return fmt.Sprintf("%s(%d)", goScalarGoType(e.Scalar), e.Uint64V), nil
	case ir.OpNullConst:
		return "nil", nil
	case ir.OpIdentifier:
		return e.Name, nil
	case ir.OpParam:
		return fmt.Sprintf("p%d", e.ParamIndex), nil
	case ir.OpLet:
		val, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		body, err := b.EmitExpr(s, e.Kids[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func() any { %s := %s; return %s }()", e.Name, val, body), nil
	case ir.OpFunction:
		name, err := s.IdentifierOfExpression(e)
		if err != nil {
			return "", err
		}
		return name, nil
	case ir.OpSeq:
		parts := make([]string, len(e.SeqExprs))
		for i, sub := range e.SeqExprs {
			p, err := b.EmitExpr(s, sub)
			if err != nil {
				return "", err
			}
			parts[i] = p
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	case ir.OpNot:
		return unary(b, s, "!", e)
	case ir.OpBitNot:
		return unary(b, s, "^", e)
	case ir.OpFst:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return x + ".Fst", nil
	case ir.OpSnd:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return x + ".Snd", nil
	case ir.OpTupItem:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.TupItem(%s, %d)", x, e.Int64V), nil
	case ir.OpRecField:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.RecField(%s, %q)", x, e.Name), nil
	case ir.OpVecElem:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.VecElem(%s, %d)", x, e.Int64V), nil
	case ir.OpGt:
		return binop(b, s, ">", e)
	case ir.OpGe:
		return binop(b, s, ">=", e)
	case ir.OpEq:
		return binop(b, s, "==", e)
	case ir.OpNe:
		return binop(b, s, "!=", e)
	case ir.OpAdd:
		return binop(b, s, "+", e)
	case ir.OpSub:
		return binop(b, s, "-", e)
	case ir.OpMul:
		return binop(b, s, "*", e)
	case ir.OpDiv:
		return binop(b, s, "/", e)
	case ir.OpRem:
		return binop(b, s, "%", e)
	case ir.OpLogAnd, ir.OpAnd:
		return binop(b, s, "&&", e)
	case ir.OpLogOr, ir.OpOr:
		return binop(b, s, "||", e)
	case ir.OpLogXor:
		return binop(b, s, "!=", e)
	case ir.OpLShift:
		return binop(b, s, "<<", e)
	case ir.OpRShift:
		return binop(b, s, ">>", e)
	case ir.OpPair:
		fst, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		snd, err := b.EmitExpr(s, e.Kids[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.MakePair(%s, %s)", fst, snd), nil
	case ir.OpChoose:
		cond, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		then, err := b.EmitExpr(s, e.Kids[1])
		if err != nil {
			return "", err
		}
		els, err := b.EmitExpr(s, e.Kids[2])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func() any { if %s { return %s }; return %s }()", cond, then, els), nil
	case ir.OpIsNull:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return x + " == nil", nil
	case ir.OpToNullable, ir.OpToNotNullable, ir.OpDump:
		return b.EmitExpr(s, e.Kids[0])
	case ir.OpIgnore:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func() struct{} { _ = %s; return struct{}{} }()", x), nil
	case ir.OpDataPtrAdd:
		return binopCall(b, s, "dessser.PtrAdd", e)
	case ir.OpDataPtrSub:
		return binopCall(b, s, "dessser.PtrSub", e)
	case ir.OpDataPtrPush:
		return unaryCall(b, s, "dessser.PtrPush", e)
	case ir.OpDataPtrPop:
		return unaryCall(b, s, "dessser.PtrPop", e)
	case ir.OpReadByte:
		return unaryCall(b, s, "dessser.ReadByte", e)
	case ir.OpWriteByte:
		return binopCall(b, s, "dessser.WriteByte", e)
	case ir.OpRemSize:
		return unaryCall(b, s, "dessser.RemSize", e)
	case ir.OpStrLen:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("len(%s)", x), nil
	case ir.OpListLen:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("len(%s)", x), nil
	case ir.OpNumToStr:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("fmt.Sprint(%s)", x), nil
	case ir.OpNumConv:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", goScalarGoType(e.Scalar), x), nil
	case ir.OpCastRepr:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", TypeName(*e.To), x), nil
	case ir.OpAppendBytes, ir.OpAppendString:
		return binopCall(b, s, "append", e)
	case ir.OpCoalesce:
		a, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		bb, err := b.EmitExpr(s, e.Kids[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("func() any { if %s != nil { return %s }; return %s }()", a, a, bb), nil
	case ir.OpReadWordE:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.Read%s%s(%s)", widthFnName(e.Width), e.Endian, x), nil
	case ir.OpWriteWordE:
		a, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		bb, err := b.EmitExpr(s, e.Kids[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.Write%s%s(%s, %s)", widthFnName(e.Width), e.Endian, a, bb), nil
	case ir.OpPeekWordE:
		x, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.Peek%s%s(%s)", widthFnName(e.Width), e.Endian, x), nil
	case ir.OpLoopWhile:
		return loopExpr(b, s, e, true)
	case ir.OpLoopUntil:
		return loopExpr(b, s, e, false)
	case ir.OpRepeat:
		from, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		to, err := b.EmitExpr(s, e.Kids[1])
		if err != nil {
			return "", err
		}
		body, err := b.EmitExpr(s, e.Kids[2])
		if err != nil {
			return "", err
		}
		init, err := b.EmitExpr(s, e.Kids[3])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.Repeat(%s, %s, %s, %s)", from, to, body, init), nil
	case ir.OpReadWhile:
		cond, err := b.EmitExpr(s, e.Kids[0])
		if err != nil {
			return "", err
		}
		reduce, err := b.EmitExpr(s, e.Kids[1])
		if err != nil {
			return "", err
		}
		init, err := b.EmitExpr(s, e.Kids[2])
		if err != nil {
			return "", err
		}
		pos, err := b.EmitExpr(s, e.Kids[3])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("dessser.ReadWhile(%s, %s, %s, %s)", cond, reduce, init, pos), nil
	}

	// Fallback: render every remaining kids-only op as a call to a
	// runtime helper named after the op's String() form (e.g. ReadBytes).
	args := make([]string, len(e.Kids))
	for i, k := range e.Kids {
		a, err := b.EmitExpr(s, k)
		if err != nil {
			return "", err
		}
		args[i] = a
	}
	return fmt.Sprintf("dessser.%s(%s)", e.Op, strings.Join(args, ", ")), nil
}

func unary(b Backend, s *backend.State, op string, e ir.Expr) (string, error) {
	x, err := b.EmitExpr(s, e.Kids[0])
	if err != nil {
		return "", err
	}
	return op + x, nil
}

func binop(b Backend, s *backend.State, op string, e ir.Expr) (string, error) {
	a, err := b.EmitExpr(s, e.Kids[0])
	if err != nil {
		return "", err
	}
	bb, err := b.EmitExpr(s, e.Kids[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s)", a, op, bb), nil
}

func binopCall(b Backend, s *backend.State, fn string, e ir.Expr) (string, error) {
	a, err := b.EmitExpr(s, e.Kids[0])
	if err != nil {
		return "", err
	}
	bb, err := b.EmitExpr(s, e.Kids[1])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s, %s)", fn, a, bb), nil
}

func unaryCall(b Backend, s *backend.State, fn string, e ir.Expr) (string, error) {
	x, err := b.EmitExpr(s, e.Kids[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", fn, x), nil
}

func loopExpr(b Backend, s *backend.State, e ir.Expr, whileFirst bool) (string, error) {
	condIdx, bodyIdx := 0, 1
	if !whileFirst {
		condIdx, bodyIdx = 1, 0
	}
	cond, err := b.EmitExpr(s, e.Kids[condIdx])
	if err != nil {
		return "", err
	}
	body, err := b.EmitExpr(s, e.Kids[bodyIdx])
	if err != nil {
		return "", err
	}
	init, err := b.EmitExpr(s, e.Kids[2])
	if err != nil {
		return "", err
	}
	if whileFirst {
		return fmt.Sprintf("dessser.LoopWhile(%s, %s, %s)", cond, body, init), nil
	}
	return fmt.Sprintf("dessser.LoopUntil(%s, %s, %s)", body, cond, init), nil
}

func widthFnName(w ir.Width) string {
	switch w {
	case ir.WWord:
		return "Word"
	case ir.WDWord:
		return "DWord"
	case ir.WQWord:
		return "QWord"
	case ir.WOWord:
		return "OWord"
	}
	return "Word"
}
