// Package devnull implements the reference no-op Serializer named in
// spec.md's "Concrete codec modules" list: every write returns the
// DataPtr cursor unchanged without touching memory, and SSizeOfValue
// reports Const{Bytes: 0} for every shape. Useful as the write side of a
// converter whose only purpose is measuring or validating a Deserializer,
// the same role glint's ErrSkipVisit plays for "decode this field, keep
// nothing."
package devnull

import (
	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

// Serializer is the zero-sized devnull codec. It implements
// codec.Serializer only: there is nothing to deserialize from /dev/null.
type Serializer struct{}

var _ codec.Serializer = Serializer{}

func (Serializer) SSizeOfValue(vt schema.MaybeNullable) codec.SSize {
	return codec.Const{Bytes: 0}
}

func (Serializer) SScalar(sc schema.Scalar, ptr, v ir.Expr) ir.Expr { return ptr }
func (Serializer) SNullable(ptr ir.Expr, isNull ir.Expr) ir.Expr    { return ptr }

func (Serializer) OpnTup(ptr ir.Expr) ir.Expr         { return ptr }
func (Serializer) SepTupW(ptr ir.Expr, i int) ir.Expr { return ptr }
func (Serializer) ClsTupW(ptr ir.Expr) ir.Expr        { return ptr }

func (Serializer) OpnRec(ptr ir.Expr) ir.Expr               { return ptr }
func (Serializer) SepRecW(ptr ir.Expr, name string) ir.Expr { return ptr }
func (Serializer) ClsRecW(ptr ir.Expr) ir.Expr              { return ptr }

func (Serializer) OpnVec(ptr ir.Expr, dim uint) ir.Expr { return ptr }
func (Serializer) SepVecW(ptr ir.Expr, i int) ir.Expr   { return ptr }
func (Serializer) ClsVecW(ptr ir.Expr) ir.Expr          { return ptr }

func (Serializer) OpnList(ptr ir.Expr, n ir.Expr, opener codec.ListOpener) ir.Expr { return ptr }
func (Serializer) SepListW(ptr ir.Expr) ir.Expr                                    { return ptr }
func (Serializer) ClsListW(ptr ir.Expr) ir.Expr                                    { return ptr }

func (Serializer) OpnMap(ptr ir.Expr) ir.Expr      { return ptr }
func (Serializer) SepMapKVW(ptr ir.Expr) ir.Expr   { return ptr }
func (Serializer) SepMapPairW(ptr ir.Expr) ir.Expr { return ptr }
func (Serializer) ClsMapW(ptr ir.Expr) ir.Expr     { return ptr }
