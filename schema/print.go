package schema

import "strings"

// Print renders mn in the grammar of spec.md §4.1. Print(Parse(s)) == s is
// not guaranteed (whitespace/comments/case are not preserved), but
// Parse(Print(mn)) == mn is, for every constructible mn whose tuples
// have at least two items (the round-trip law of spec.md §8). NewTup
// accepts a one-item tuple, but the grammar has no form for one, so its
// printed "(t)" does not parse back.
func Print(mn MaybeNullable) string {
	var b strings.Builder
	printVT(&b, mn.Type)
	if mn.Nullable {
		b.WriteByte('?')
	}
	return b.String()
}

func printVT(b *strings.Builder, vt ValueType) {
	switch vt.Kind {
	case KScalar:
		b.WriteString(vt.ScalarV.String())
	case KUser:
		b.WriteString(vt.UserV)
	case KVec:
		b.WriteString(Print(vt.VecElem))
		b.WriteByte('[')
		b.WriteString(itoa(int(vt.VecDim)))
		b.WriteByte(']')
	case KList:
		b.WriteString(Print(vt.VecElem))
		b.WriteString("[]")
	case KMap:
		b.WriteString(Print(vt.MapKey))
		b.WriteByte('[')
		b.WriteString(Print(vt.MapVal))
		b.WriteByte(']')
	case KTup:
		b.WriteByte('(')
		for i, it := range vt.TupItems {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(Print(it))
		}
		b.WriteByte(')')
	case KRec:
		b.WriteByte('{')
		for i, f := range vt.RecFields {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			b.WriteString(Print(f.Type))
		}
		b.WriteByte('}')
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
