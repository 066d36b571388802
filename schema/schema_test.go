package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, cat *Catalog, s string) MaybeNullable {
	t.Helper()
	mn, err := Parse(cat, s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return mn
}

func TestRoundTripScalars(t *testing.T) {
	cat := NewCatalog()
	cases := []string{
		"bool", "boolean", "char", "float", "string",
		"u8", "u16", "u24", "u32", "u40", "u48", "u56", "u64", "u128",
		"i8", "i16", "i24", "i32", "i40", "i48", "i56", "i64", "i128",
		"u8?", "string?",
	}
	for _, c := range cases {
		mn := mustParse(t, cat, c)
		printed := Print(mn)
		mn2 := mustParse(t, cat, printed)
		if !Equal(mn, mn2) {
			t.Errorf("round trip mismatch for %q: printed %q, re-parsed differs", c, printed)
		}
	}
}

func TestRoundTripCompounds(t *testing.T) {
	cat := NewCatalog()
	cases := []string{
		"(u8; bool)",
		"(u8; bool; string)",
		"{a: u8; b: string?}",
		"char[2]",
		"u8[]",
		"u8[][string]",
		"(u8; bool[string])[]?[string?[u8?]]",
	}
	for _, c := range cases {
		mn := mustParse(t, cat, c)
		printed := Print(mn)
		mn2, err := Parse(cat, printed)
		if err != nil {
			t.Fatalf("re-parse of printed form %q (from %q) failed: %v", printed, c, err)
		}
		if !Equal(mn, mn2) {
			t.Errorf("round trip mismatch for %q: printed %q", c, printed)
		}
	}
}

func TestCaseInsensitiveKeywords(t *testing.T) {
	cat := NewCatalog()
	a := mustParse(t, cat, "U8")
	b := mustParse(t, cat, "u8")
	if !Equal(a, b) {
		t.Error("keywords should match case-insensitively")
	}
}

func TestCommentsAndBlanks(t *testing.T) {
	cat := NewCatalog()
	src := "  -- a comment\n { a : u8 ; -- another\n b : string? } \n"
	mn, err := Parse(cat, src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := mustParse(t, cat, "{a: u8; b: string?}")
	if !Equal(mn, want) {
		t.Errorf("got %v want %v", Print(mn), Print(want))
	}
}

func TestZeroDimensionVectorIsSchemaError(t *testing.T) {
	cat := NewCatalog()
	_, err := Parse(cat, "u8[0]")
	if err == nil {
		t.Fatal("expected an error for a zero-dimension vector")
	}
	var se *SyntaxError
	if !asSyntaxError(err, &se) {
		t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
	}
}

func asSyntaxError(err error, out **SyntaxError) bool {
	se, ok := err.(*SyntaxError)
	if ok {
		*out = se
	}
	return ok
}

func TestDuplicateRecordFieldIsSchemaError(t *testing.T) {
	_, err := NewRec([]NamedField{
		{Name: "a", Type: NotNullable(ScalarType(U8))},
		{Name: "a", Type: NotNullable(ScalarType(Bool))},
	})
	if err == nil {
		t.Fatal("expected an error for a duplicate record field")
	}
}

func TestUnknownUserTypeIsSchemaError(t *testing.T) {
	cat := NewCatalog()
	_, err := Parse(cat, "ipv4")
	if err == nil {
		t.Fatal("expected an error for an unregistered user type")
	}
}

func TestUserTypeEqualityByNameOnly(t *testing.T) {
	cat := NewCatalog()
	if err := cat.Register(UserType{Name: "ipv4", Def: NotNullable(ScalarType(U32))}); err != nil {
		t.Fatal(err)
	}
	a := NotNullable(UserValueType("ipv4"))
	b := NotNullable(UserValueType("ipv4"))
	if !Equal(a, b) {
		t.Error("two references to the same registered user type must be equal")
	}
}

func TestCatalogDuplicateRegistrationFails(t *testing.T) {
	cat := NewCatalog()
	ut := UserType{Name: "ipv4", Def: NotNullable(ScalarType(U32))}
	if err := cat.Register(ut); err != nil {
		t.Fatal(err)
	}
	if err := cat.Register(ut); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestPathNavigation(t *testing.T) {
	cat := NewCatalog()
	rec := mustParse(t, cat, "{a: u8; b: (bool; string)}")

	a, err := Navigate(cat, rec, Path{0})
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(a, NotNullable(ScalarType(U8))) {
		t.Errorf("path [0] = %v, want u8", Print(a))
	}

	b1, err := Navigate(cat, rec, Path{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(b1, NotNullable(ScalarType(String))) {
		t.Errorf("path [1,1] = %v, want string", Print(b1))
	}
}

func TestPathTransparentThroughNullableAndUser(t *testing.T) {
	cat := NewCatalog()
	if err := cat.Register(UserType{Name: "ipv4", Def: NotNullable(ScalarType(U32))}); err != nil {
		t.Fatal(err)
	}
	rec := mustParse(t, cat, "{addr: ipv4}")
	v, err := Navigate(cat, rec, Path{0})
	if err != nil {
		t.Fatal(err)
	}
	// navigating into a user type field returns the field's own MN
	// (ipv4, not yet resolved) -- seeing through Def only happens when the
	// caller itself navigates one level further, which for a scalar is an
	// error, exercising the "user types are transparent" rule indirectly.
	if v.Type.Kind != KUser {
		t.Fatalf("expected KUser at [0], got %v", v.Type.Kind)
	}
	if _, err := Into(cat, v, 0); err == nil {
		t.Fatal("expected navigating into a resolved scalar (through user) to fail")
	}
}

func TestPathIntoMapIsError(t *testing.T) {
	cat := NewCatalog()
	m := NotNullable(NewMap(NotNullable(ScalarType(String)), NotNullable(ScalarType(U8))))
	if _, err := Into(cat, m, 0); err == nil {
		t.Fatal("expected navigating into a Map to fail")
	}
}

func TestPathOutOfBoundsVec(t *testing.T) {
	cat := NewCatalog()
	vt, err := NewVec(2, NotNullable(ScalarType(U8)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Into(cat, NotNullable(vt), 5); err == nil {
		t.Fatal("expected out-of-bounds vector index to fail")
	}
}

func TestEqualDiff(t *testing.T) {
	cat := NewCatalog()
	a := mustParse(t, cat, "{a: u8; b: string}")
	b := mustParse(t, cat, "{a: u8; b: string?}")
	if Equal(a, b) {
		t.Error("expected a and b to differ (nullability of b)")
	}
	if diff := cmp.Diff(Print(a), "{a: u8; b: string}"); diff != "" {
		t.Errorf("Print mismatch (-got +want):\n%s", diff)
	}
}

func TestBoundaryScenario4VectorOfChars(t *testing.T) {
	cat := NewCatalog()
	mn := mustParse(t, cat, "char[2]")
	if mn.Type.Kind != KVec || mn.Type.VecDim != 2 {
		t.Fatalf("expected Vec(2, char), got %v", Print(mn))
	}
}
