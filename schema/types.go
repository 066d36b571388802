// Package schema implements the closed inductive description of
// serialisable types: machine scalars, user-type refinements, and the
// compound shapes (vector, list, tuple, record, map) that a schema term
// can take, plus the nullability bit and path algebra used to address
// sub-fields of a schema.
package schema

import "fmt"

// Scalar enumerates the fixed closed set of machine scalars.
type Scalar uint8

const (
	Bool Scalar = iota + 1
	Char
	Float
	String
	I8
	I16
	I24
	I32
	I40
	I48
	I56
	I64
	I128
	U8
	U16
	U24
	U32
	U40
	U48
	U56
	U64
	U128
)

var scalarNames = map[Scalar]string{
	Bool: "bool", Char: "char", Float: "float", String: "string",
	I8: "i8", I16: "i16", I24: "i24", I32: "i32", I40: "i40", I48: "i48", I56: "i56", I64: "i64", I128: "i128",
	U8: "u8", U16: "u16", U24: "u24", U32: "u32", U40: "u40", U48: "u48", U56: "u56", U64: "u64", U128: "u128",
}

func (s Scalar) String() string {
	if n, ok := scalarNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Scalar(%d)", uint8(s))
}

// IsInteger reports whether s is one of the signed/unsigned integer widths.
func (s Scalar) IsInteger() bool {
	return s >= I8 && s <= U128
}

// IsSigned reports whether s is a signed integer width.
func (s Scalar) IsSigned() bool { return s >= I8 && s <= I128 }

// BitWidth returns the declared bit width of an integer scalar, or 0 for
// non-integer scalars.
func (s Scalar) BitWidth() int {
	switch s {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I24, U24:
		return 24
	case I32, U32:
		return 32
	case I40, U40:
		return 40
	case I48, U48:
		return 48
	case I56, U56:
		return 56
	case I64, U64:
		return 64
	case I128, U128:
		return 128
	}
	return 0
}

// ValueType is the closed sum of type shapes described in spec.md §3.1.
// Exactly one of the typed fields is meaningful per Kind; Kind acts as the
// tag of this sum-of-constructors value.
type ValueType struct {
	Kind Kind

	ScalarV Scalar
	UserV   string // name, resolved against a Catalog

	VecDim  uint
	VecElem MaybeNullable // Vec, List share Elem

	TupItems  []MaybeNullable
	RecFields []NamedField

	MapKey MaybeNullable
	MapVal MaybeNullable
}

// Kind tags which alternative of ValueType is populated.
type Kind uint8

const (
	KScalar Kind = iota
	KUser
	KVec
	KList
	KTup
	KRec
	KMap
)

// NamedField is a single declared field of a Rec value-type.
type NamedField struct {
	Name string
	Type MaybeNullable
}

// MaybeNullable pairs a value-type with its nullability bit (spec.md §3.1).
type MaybeNullable struct {
	Type     ValueType
	Nullable bool
}

// NotNullable wraps vt as a non-nullable maybe-nullable.
func NotNullable(vt ValueType) MaybeNullable { return MaybeNullable{Type: vt} }

// MakeNullable wraps vt as a nullable maybe-nullable.
func MakeNullable(vt ValueType) MaybeNullable { return MaybeNullable{Type: vt, Nullable: true} }

// ScalarType constructs a scalar value-type.
func ScalarType(s Scalar) ValueType { return ValueType{Kind: KScalar, ScalarV: s} }

// UserValueType constructs a reference to a catalogued user type by name.
// The def itself is looked up through a Catalog when the generic machinery
// needs to see through it.
func UserValueType(name string) ValueType { return ValueType{Kind: KUser, UserV: name} }

// NewVec constructs a Vec(dim, elem) value-type. dim must be >= 1 (spec.md
// invariant); this is a schema error (regime 1), not a panic.
func NewVec(dim uint, elem MaybeNullable) (ValueType, error) {
	if dim < 1 {
		return ValueType{}, fmt.Errorf("schema: vector dimension must be >= 1, got %d", dim)
	}
	return ValueType{Kind: KVec, VecDim: dim, VecElem: elem}, nil
}

// NewList constructs a List(elem) value-type.
func NewList(elem MaybeNullable) ValueType {
	return ValueType{Kind: KList, VecElem: elem}
}

// NewTup constructs a Tup(mn1,...,mnk) value-type. k must be >= 1.
func NewTup(items []MaybeNullable) (ValueType, error) {
	if len(items) < 1 {
		return ValueType{}, fmt.Errorf("schema: tuple must have at least one item")
	}
	cp := make([]MaybeNullable, len(items))
	copy(cp, items)
	return ValueType{Kind: KTup, TupItems: cp}, nil
}

// NewRec constructs a Rec value-type. Field names must be unique within the
// record (spec.md invariant); duplicates are a schema error.
func NewRec(fields []NamedField) (ValueType, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return ValueType{}, fmt.Errorf("schema: duplicate record field %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	cp := make([]NamedField, len(fields))
	copy(cp, fields)
	return ValueType{Kind: KRec, RecFields: cp}, nil
}

// NewMap constructs a Map(key, value) value-type. Declared for type
// expressions only: no runtime value of this shape exists, and the driver
// rejects walking into one (spec.md §3.1, §4.4).
func NewMap(key, val MaybeNullable) ValueType {
	return ValueType{Kind: KMap, MapKey: key, MapVal: val}
}
