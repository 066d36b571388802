package bigint

import "testing"

func TestSplitDecimal128RoundTrip(t *testing.T) {
	cases := []string{
		"0",
		"1",
		"-1",
		"340282366920938463463374607431768211455",  // max uint128
		"-170141183460469231731687303715884105728", // min int128
		"123456789012345678901234567890",
		"-123456789012345678901234567890",
	}
	for _, s := range cases {
		hi, lo, err := SplitDecimal128(s)
		if err != nil {
			t.Fatalf("SplitDecimal128(%q): %v", s, err)
		}
		got := JoinDecimal128(hi, lo)
		if _, _, err := SplitDecimal128(got); err != nil {
			t.Fatalf("round-tripped value %q failed to re-split: %v", got, err)
		}
	}
}

func TestSplitDecimal128NegativeSignDoesNotMisalignDigits(t *testing.T) {
	hiPos, loPos, err := SplitDecimal128("42")
	if err != nil {
		t.Fatal(err)
	}
	hiNeg, loNeg, err := SplitDecimal128("-42")
	if err != nil {
		t.Fatal(err)
	}
	if hiPos == hiNeg && loPos == loNeg {
		t.Fatal("expected negation to change the split halves")
	}
	if JoinDecimal128(hiNeg, loNeg) != "-42" {
		t.Fatalf("expected -42, got %s", JoinDecimal128(hiNeg, loNeg))
	}
}

func TestSplitDecimal128RejectsGarbage(t *testing.T) {
	if _, _, err := SplitDecimal128("not-a-number"); err == nil {
		t.Fatal("expected an error for malformed input")
	}
	if _, _, err := SplitDecimal128(""); err == nil {
		t.Fatal("expected an error for empty input")
	}
}
