// Package codec defines the format-agnostic contract a concrete wire
// format must satisfy to be driven by package driver: a capability
// record of IR-expression-producing methods, not an interpreter. Each
// concrete codec (codecs/sexpr, codecs/rowbinary, codecs/ringbuffer,
// codecs/devnull) is a zero-sized type implementing Deserializer and/or
// Serializer, grounded on glint's three-decoder-behind-one-interface
// split (decoder.go/slicedecoder.go/mapdecoder.go).
package codec

import (
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

// Config carries per-codec construction options (spec.md's "codecs may
// be parameterised, e.g. a maximum string length, or whether to trust
// the input" note). Options are stored by string key in a map; concrete
// codecs define typed ConfigOption constructors on top of Set.
type Config struct {
	opts map[string]any
}

// ConfigOption mutates a Config under construction.
type ConfigOption func(*Config)

// NewConfig builds a Config from zero or more options.
func NewConfig(opts ...ConfigOption) Config {
	c := Config{opts: map[string]any{}}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Set stores an option value under key; concrete codecs use this from
// their own typed ConfigOption constructors.
func Set(key string, val any) ConfigOption {
	return func(c *Config) { c.opts[key] = val }
}

// Get retrieves an option value previously stored with Set.
func (c Config) Get(key string) (any, bool) {
	v, ok := c.opts[key]
	return v, ok
}

// PtrKind distinguishes the two cursor shapes walk threads through a
// traversal: a raw byte cursor into wire data, or a pointer into an
// in-memory heap value being built or read (driver.Materialize/Serialize).
type PtrKind uint8

const (
	DataCursor PtrKind = iota
	ValueCursor
)

// ListOpener is returned by a Deserializer's OpenList (and handed on to
// the Serializer's OpnList by the driver): formats
// that frame a list with an up-front element count implement KnownSize,
// formats that frame it with a sentinel (end marker, parenthesis) at
// write time implement UnknownSize. driver.walk dispatches structurally
// different IR on which variant a codec reports, which is the whole
// reason List framing is a codec capability instead of a fixed shape.
type ListOpener interface {
	isListOpener()
}

// KnownSize is reported by codecs (RowBinary, glint's own length-prefixed
// slices) that read/write the element count before the elements.
type KnownSize struct {
	// ReadSize produces IR computing the element count and the advanced
	// pointer, given the list's opening pointer.
	ReadSize func(ptr ir.Expr) ir.Expr // -> Pair(Size, DataPtr)
	// WriteSize produces IR writing n elements' count, returning the
	// advanced pointer.
	WriteSize func(ptr ir.Expr, n ir.Expr) ir.Expr // -> DataPtr
}

func (KnownSize) isListOpener() {}

// UnknownSize is reported by codecs (the s-expression reference codec)
// that frame a list with per-element continuation tests instead of an
// up-front count.
type UnknownSize struct {
	// TestEnd produces IR testing whether the cursor is at the list's end.
	TestEnd func(ptr ir.Expr) ir.Expr // -> Bit
}

func (UnknownSize) isListOpener() {}

// SSize is the static-size hint a ValueType may or may not admit: some
// wire layouts (RingBuffer's fixed slots) require every field to report
// a compile-time-constant byte width; others (anything with a dynamic
// or length-prefixed encoding) report Dyn and the generated code computes
// the size at write time.
type SSize interface {
	isSSize()
}

// Const is a compile-time-known byte width.
type Const struct {
	Bytes uint
}

func (Const) isSSize() {}

// Dyn means the size is known only by running IR against an actual value.
type Dyn struct {
	// Compute produces IR computing the size in bytes of the value
	// addressed by ptr.
	Compute func(ptr ir.Expr) ir.Expr // -> Size
}

func (Dyn) isSSize() {}

// Deserializer is the capability record a codec implements to be driven
// reading a wire format. Every method returns IR, not a decoded value:
// package driver composes these into a single generated traversal.
type Deserializer interface {
	// SSizeOfValue reports whether vt has a format-independent static
	// width under this codec, or must be measured dynamically.
	SSizeOfValue(vt schema.MaybeNullable) SSize

	DScalar(sc schema.Scalar, ptr ir.Expr) ir.Expr // -> Pair(Value(sc), DataPtr)
	DNullEmpty(ptr ir.Expr) ir.Expr                // -> Bit (true if the nullable's wire slot encodes null)

	OpenTup(ptr ir.Expr) ir.Expr // -> DataPtr
	SepTup(ptr ir.Expr, i int) ir.Expr
	ClsTup(ptr ir.Expr) ir.Expr

	OpenRec(ptr ir.Expr) ir.Expr
	SepRec(ptr ir.Expr, name string) ir.Expr
	ClsRec(ptr ir.Expr) ir.Expr

	OpenVec(ptr ir.Expr, dim uint) ir.Expr
	SepVec(ptr ir.Expr, i int) ir.Expr
	ClsVec(ptr ir.Expr) ir.Expr

	OpenList(ptr ir.Expr) (ir.Expr, ListOpener)
	SepList(ptr ir.Expr) ir.Expr
	ClsList(ptr ir.Expr) ir.Expr

	// Map has no static-size story (spec.md non-goal: static-size Maps
	// are out of scope); codecs implement only the dynamic traversal.
	OpenMap(ptr ir.Expr) ir.Expr
	SepMapKV(ptr ir.Expr) ir.Expr
	SepMapPair(ptr ir.Expr) ir.Expr
	ClsMap(ptr ir.Expr) ir.Expr
}

// Serializer is the dual capability record for writing a wire format.
type Serializer interface {
	SSizeOfValue(vt schema.MaybeNullable) SSize

	SScalar(sc schema.Scalar, ptr, v ir.Expr) ir.Expr // -> DataPtr
	SNullable(ptr ir.Expr, isNull ir.Expr) ir.Expr    // -> DataPtr

	OpnTup(ptr ir.Expr) ir.Expr
	SepTupW(ptr ir.Expr, i int) ir.Expr
	ClsTupW(ptr ir.Expr) ir.Expr

	OpnRec(ptr ir.Expr) ir.Expr
	SepRecW(ptr ir.Expr, name string) ir.Expr
	ClsRecW(ptr ir.Expr) ir.Expr

	OpnVec(ptr ir.Expr, dim uint) ir.Expr
	SepVecW(ptr ir.Expr, i int) ir.Expr
	ClsVecW(ptr ir.Expr) ir.Expr

	OpnList(ptr ir.Expr, n ir.Expr, opener ListOpener) ir.Expr
	SepListW(ptr ir.Expr) ir.Expr
	ClsListW(ptr ir.Expr) ir.Expr

	OpnMap(ptr ir.Expr) ir.Expr
	SepMapKVW(ptr ir.Expr) ir.Expr
	SepMapPairW(ptr ir.Expr) ir.Expr
	ClsMapW(ptr ir.Expr) ir.Expr
}
