package golang

import (
	"fmt"
	"strings"

	"github.com/dessser-go/dessser/schema"
)

// goScalarGoType maps a schema.Scalar to the Go type that represents it.
// Odd bit widths (U24, I40, ...) widen to the next machine width, the
// same "round up to a real machine integer" choice glint's
// wireTypeToGoType makes for its own sub-byte/sub-word wire types.
func goScalarGoType(sc schema.Scalar) string {
	switch sc {
	case schema.Bool:
		return "bool"
	case schema.Char:
		return "byte"
	case schema.Float:
		return "float64"
	case schema.String:
		return "string"
	case schema.U8:
		return "uint8"
	case schema.U16:
		return "uint16"
	case schema.U24:
		return "uint32"
	case schema.U32:
		return "uint32"
	case schema.U40, schema.U48, schema.U56, schema.U64:
		return "uint64"
	case schema.U128:
		return "[16]byte"
	case schema.I8:
		return "int8"
	case schema.I16:
		return "int16"
	case schema.I24:
		return "int32"
	case schema.I32:
		return "int32"
	case schema.I40, schema.I48, schema.I56, schema.I64:
		return "int64"
	case schema.I128:
		return "[16]byte"
	}
	return "any"
}

// goValueTypeName maps a schema.MaybeNullable to the Go type its decoded
// value takes, wrapping with a pointer when Nullable (Go's idiomatic
// nil-as-absent, rather than carrying a separate bool).
func goValueTypeName(mn schema.MaybeNullable) string {
	base := goVT(mn.Type)
	if mn.Nullable {
		return "*" + base
	}
	return base
}

func goVT(vt schema.ValueType) string {
	switch vt.Kind {
	case schema.KScalar:
		return goScalarGoType(vt.ScalarV)
	case schema.KUser:
		return exportedGoName(vt.UserV)
	case schema.KVec:
		return fmt.Sprintf("[%d]%s", vt.VecDim, goValueTypeName(vt.VecElem))
	case schema.KList:
		return "[]" + goValueTypeName(vt.VecElem)
	case schema.KMap:
		return fmt.Sprintf("map[%s]%s", goValueTypeName(vt.MapKey), goValueTypeName(vt.MapVal))
	case schema.KTup:
		fields := make([]string, len(vt.TupItems))
		for i, it := range vt.TupItems {
			fields[i] = fmt.Sprintf("F%d %s", i, goValueTypeName(it))
		}
		return "struct{ " + strings.Join(fields, "; ") + " }"
	case schema.KRec:
		fields := make([]string, len(vt.RecFields))
		for i, f := range vt.RecFields {
			fields[i] = fmt.Sprintf("%s %s", exportedGoName(f.Name), goValueTypeName(f.Type))
		}
		return "struct{ " + strings.Join(fields, "; ") + " }"
	}
	return "any"
}

func exportedGoName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
