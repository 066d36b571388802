package ir

// Builder mints fresh FuncIDs for a single generation run. The counter is
// scoped to the Builder instance rather than a package-level global so
// that two unrelated generation runs (e.g. two tests in the same process)
// never see colliding function ids.
type Builder struct {
	next FuncID
}

// NewBuilder returns a Builder whose first minted id is 1 (0 is reserved
// as the never-valid zero value of FuncID).
func NewBuilder() *Builder {
	return &Builder{next: 1}
}

// Func mints a new function id and wraps body as a Function over params.
func (b *Builder) Func(params []Type, makeBody func(fid FuncID) Expr) Expr {
	fid := b.next
	b.next++
	return Function(fid, params, makeBody(fid))
}
