// Package ir implements the staged expression intermediate representation:
// a typed tree of constructors producing pointers, bytes, integers, pairs,
// and user values, plus a small-step type system over it (spec.md §3.2-3.4,
// §4.2).
package ir

import (
	"fmt"
	"strconv"

	"github.com/dessser-go/dessser/schema"
)

// TypeKind tags which alternative of Type is populated.
type TypeKind uint8

const (
	TVoid TypeKind = iota
	TDataPtr
	TValuePtr
	TSize
	TBit
	TByte
	TWord
	TDWord
	TQWord
	TOWord
	TBytes
	TPair
	TFunction
	TValue
)

// Type is the closed sum of IR-level types (spec.md §3.2). Equality is
// structural (Type.Equal).
type Type struct {
	Kind TypeKind

	// TValuePtr
	Root schema.MaybeNullable

	// TPair
	Fst, Snd *Type

	// TFunction
	Args   []Type
	Result *Type

	// TValue
	MN schema.MaybeNullable
}

func Void() Type    { return Type{Kind: TVoid} }
func DataPtr() Type { return Type{Kind: TDataPtr} }
func SizeT() Type   { return Type{Kind: TSize} }
func BitT() Type    { return Type{Kind: TBit} }
func ByteT() Type   { return Type{Kind: TByte} }
func WordT() Type   { return Type{Kind: TWord} }
func DWordT() Type  { return Type{Kind: TDWord} }
func QWordT() Type  { return Type{Kind: TQWord} }
func OWordT() Type  { return Type{Kind: TOWord} }
func BytesT() Type  { return Type{Kind: TBytes} }

func ValuePtr(root schema.MaybeNullable) Type { return Type{Kind: TValuePtr, Root: root} }
func Value(mn schema.MaybeNullable) Type      { return Type{Kind: TValue, MN: mn} }

func PairT(a, b Type) Type { return Type{Kind: TPair, Fst: &a, Snd: &b} }

func FunctionT(args []Type, result Type) Type {
	cp := make([]Type, len(args))
	copy(cp, args)
	return Type{Kind: TFunction, Args: cp, Result: &result}
}

// Bool is an alias: the IR's boolean values are carried as TBit.
func BoolT() Type { return BitT() }

// Equal reports structural equality of two IR types.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TValuePtr:
		return schema.Equal(t.Root, o.Root)
	case TValue:
		return schema.Equal(t.MN, o.MN)
	case TPair:
		return t.Fst.Equal(*o.Fst) && t.Snd.Equal(*o.Snd)
	case TFunction:
		if len(t.Args) != len(o.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return t.Result.Equal(*o.Result)
	default:
		return true
	}
}

// String renders t in a small parenthesised form that Type round-trips
// through ParseType (ir/parse.go): atoms for the zero-payload kinds, an
// s-expression for the rest, e.g. `(Pair Byte (Value "u8"))`.
func (t Type) String() string {
	switch t.Kind {
	case TVoid:
		return "Void"
	case TDataPtr:
		return "DataPtr"
	case TValuePtr:
		return fmt.Sprintf("(ValuePtr %s)", strconv.Quote(schema.Print(t.Root)))
	case TSize:
		return "Size"
	case TBit:
		return "Bit"
	case TByte:
		return "Byte"
	case TWord:
		return "Word"
	case TDWord:
		return "DWord"
	case TQWord:
		return "QWord"
	case TOWord:
		return "OWord"
	case TBytes:
		return "Bytes"
	case TPair:
		return fmt.Sprintf("(Pair %s %s)", t.Fst, t.Snd)
	case TFunction:
		s := "(Function ("
		for i, a := range t.Args {
			if i > 0 {
				s += " "
			}
			s += a.String()
		}
		return s + ") " + t.Result.String() + ")"
	case TValue:
		return fmt.Sprintf("(Value %s)", strconv.Quote(schema.Print(t.MN)))
	}
	return "?"
}

// IsNumeric reports whether t is one of the IR's numeric representations
// eligible as an arithmetic/comparison operand (spec.md §4.2): any of the
// Byte/Word/DWord/QWord/OWord/Size machine-level types, or a Value(mn)
// wrapping a non-nullable integer or float scalar.
func (t Type) IsNumeric() bool {
	switch t.Kind {
	case TByte, TWord, TDWord, TQWord, TOWord, TSize:
		return true
	case TValue:
		if t.MN.Nullable {
			return false
		}
		if t.MN.Type.Kind != schema.KScalar {
			return false
		}
		s := t.MN.Type.ScalarV
		return s.IsInteger() || s == schema.Float
	}
	return false
}
