package dump

import (
	"strings"
	"testing"

	"github.com/dessser-go/dessser/ir"
	"github.com/dessser-go/dessser/schema"
)

func TestBytesRendersHumanReadable(t *testing.T) {
	if got := Bytes(512); got != "512 B" {
		t.Errorf("expected \"512 B\", got %q", got)
	}
	if got := Bytes(1400); !strings.Contains(got, "kB") {
		t.Errorf("expected a kB suffix, got %q", got)
	}
}

func TestCountAddsThousandsSeparators(t *testing.T) {
	if got := Count(1234567); got != "1,234,567" {
		t.Errorf("expected \"1,234,567\", got %q", got)
	}
}

func TestExprIncludesInferredType(t *testing.T) {
	e := ir.IntConst(schema.I32, 7)
	got := Expr(e)
	if !strings.Contains(got, "(Int ") || !strings.Contains(got, ":") {
		t.Errorf("expected s-expression plus inferred type, got %q", got)
	}
}

func TestDeclarationTableListsEachEntry(t *testing.T) {
	names := []string{"conv1", "conv2"}
	bodies := map[string]string{
		"conv1": "func conv1() {}",
		"conv2": "func conv2() { return }",
	}
	out := DeclarationTable(names, bodies)
	if !strings.Contains(out, "conv1") || !strings.Contains(out, "conv2") {
		t.Errorf("expected both declaration names in output, got %q", out)
	}
	if !strings.Contains(out, "2 declarations") {
		t.Errorf("expected a declaration count header, got %q", out)
	}
}
