// Package bigint splits a decimal string into the hi/lo halves of a
// 128-bit integer. The naive approach — cut the digit string exactly in
// half — misaligns the radix boundary the moment the string carries a
// leading sign, because the sign character shifts every digit one
// place to the right without anyone accounting for it. This package
// never slices the digit string: it parses the whole signed value with
// math/big, reduces it to its 128-bit two's-complement form, and only
// then takes the high and low 64 bits.
package bigint

import (
	"fmt"
	"math/big"
	"strings"
)

// SplitDecimal128 parses s as a signed decimal integer and returns its
// value as two uint64 halves, hi being the more significant 64 bits of
// the two's-complement 128-bit representation.
//
// The sign, if present, is stripped before any splitting happens: the
// magnitude is parsed and negated as a whole through math/big, never by
// slicing the digit run in half first and trying to patch the sign back
// in afterward.
func SplitDecimal128(s string) (hi, lo uint64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("bigint: empty decimal string")
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return 0, 0, fmt.Errorf("bigint: %q is not a valid decimal integer", s)
	}

	const bits = 128
	var mod big.Int
	mod.Lsh(big.NewInt(1), bits)

	u := new(big.Int).Mod(n, &mod)
	if u.Sign() < 0 {
		u.Add(u, &mod)
	}

	var hiBig, loMask big.Int
	loMask.SetUint64(^uint64(0))
	var lowPart big.Int
	lowPart.And(u, &loMask)
	hiBig.Rsh(u, 64)

	return hiBig.Uint64(), lowPart.Uint64(), nil
}

// JoinDecimal128 reverses SplitDecimal128, rendering the two's-complement
// 128-bit value (hi, lo) as a signed base-10 string.
func JoinDecimal128(hi, lo uint64) string {
	var v big.Int
	v.Lsh(new(big.Int).SetUint64(hi), 64)
	v.Or(&v, new(big.Int).SetUint64(lo))

	const bits = 128
	var signBit big.Int
	signBit.Lsh(big.NewInt(1), bits-1)
	if v.Cmp(&signBit) >= 0 {
		var mod big.Int
		mod.Lsh(big.NewInt(1), bits)
		v.Sub(&v, &mod)
	}
	return v.String()
}
