package rowbinary

import (
	"bytes"
	"testing"
)

func TestCompressBlockRoundTrip(t *testing.T) {
	raw := []byte("the quick brown fox jumps over the lazy dog, repeated a few times, repeated a few times")
	compressed, err := CompressBlock(raw)
	if err != nil {
		t.Fatalf("CompressBlock: %v", err)
	}
	if len(compressed) == 0 {
		t.Fatal("expected non-empty compressed output")
	}
	got, err := DecompressBlock(compressed)
	if err != nil {
		t.Fatalf("DecompressBlock: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, raw)
	}
}
