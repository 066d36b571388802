package schema

import "fmt"

// Path is a finite ordered sequence of non-negative integers addressing a
// subtree of a schema term (spec.md §3.1). Path{} (nil or empty) denotes
// the root.
type Path []int

// Push returns a new path with i appended, leaving p untouched.
func (p Path) Push(i int) Path {
	q := make(Path, len(p)+1)
	copy(q, p)
	q[len(p)] = i
	return q
}

// String renders a path as e.g. "[0,2,1]", matching the positional-index
// addressing spec.md describes (no field-name component — Rec is
// addressed positionally by declared order, same as Tup).
func (p Path) String() string {
	s := "["
	for i, c := range p {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%d", c)
	}
	return s + "]"
}

// PathError reports a failed navigation: crossing a terminal (Map or
// scalar) shape, or an out-of-bounds Vec index.
type PathError struct {
	Path Path
	Msg  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("schema: path %s: %s", e.Path.String(), e.Msg)
}

// Into navigates one child index i into vt, returning the child's
// maybe-nullable type. Nullable wrappers and User refinements are
// transparent: navigating into a MaybeNullable does not consume a path
// element and a User's Def is entered silently. Map and scalars are
// terminal: navigating into either is an error (spec.md §3.1).
func Into(cat *Catalog, mn MaybeNullable, i int) (MaybeNullable, error) {
	vt := mn.Type
	if vt.Kind == KUser {
		def, err := cat.Resolve(vt)
		if err != nil {
			return MaybeNullable{}, err
		}
		return Into(cat, def, i)
	}

	switch vt.Kind {
	case KVec:
		if i < 0 || uint(i) >= vt.VecDim {
			return MaybeNullable{}, &PathError{Msg: fmt.Sprintf("index %d out of bounds for vector of dimension %d", i, vt.VecDim)}
		}
		return vt.VecElem, nil
	case KList:
		return vt.VecElem, nil
	case KTup:
		if i < 0 || i >= len(vt.TupItems) {
			return MaybeNullable{}, &PathError{Msg: fmt.Sprintf("index %d out of bounds for tuple of arity %d", i, len(vt.TupItems))}
		}
		return vt.TupItems[i], nil
	case KRec:
		if i < 0 || i >= len(vt.RecFields) {
			return MaybeNullable{}, &PathError{Msg: fmt.Sprintf("index %d out of bounds for record of arity %d", i, len(vt.RecFields))}
		}
		return vt.RecFields[i].Type, nil
	case KMap:
		return MaybeNullable{}, &PathError{Msg: "cannot navigate into a Map: type-expression only, no runtime values"}
	default:
		return MaybeNullable{}, &PathError{Msg: fmt.Sprintf("cannot navigate into scalar %v", vt.ScalarV)}
	}
}

// Navigate resolves a whole path against mn, applying Into once per path
// element in order.
func Navigate(cat *Catalog, mn MaybeNullable, p Path) (MaybeNullable, error) {
	cur := mn
	for _, i := range p {
		next, err := Into(cat, cur, i)
		if err != nil {
			return MaybeNullable{}, err
		}
		cur = next
	}
	return cur, nil
}
