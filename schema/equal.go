package schema

// Equal reports structural equality of two maybe-nullables, with the one
// concession spec.md §3.1 names: two user types are equal iff their names
// match (their defs are assumed consistent because the catalogue is
// write-once).
func Equal(a, b MaybeNullable) bool {
	if a.Nullable != b.Nullable {
		return false
	}
	return equalVT(a.Type, b.Type)
}

func equalVT(a, b ValueType) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KScalar:
		return a.ScalarV == b.ScalarV
	case KUser:
		return a.UserV == b.UserV
	case KVec:
		return a.VecDim == b.VecDim && Equal(a.VecElem, b.VecElem)
	case KList:
		return Equal(a.VecElem, b.VecElem)
	case KTup:
		if len(a.TupItems) != len(b.TupItems) {
			return false
		}
		for i := range a.TupItems {
			if !Equal(a.TupItems[i], b.TupItems[i]) {
				return false
			}
		}
		return true
	case KRec:
		if len(a.RecFields) != len(b.RecFields) {
			return false
		}
		for i := range a.RecFields {
			if a.RecFields[i].Name != b.RecFields[i].Name {
				return false
			}
			if !Equal(a.RecFields[i].Type, b.RecFields[i].Type) {
				return false
			}
		}
		return true
	case KMap:
		return Equal(a.MapKey, b.MapKey) && Equal(a.MapVal, b.MapVal)
	}
	return false
}
