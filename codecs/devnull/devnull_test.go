package devnull

import (
	"testing"

	"github.com/dessser-go/dessser/codec"
	"github.com/dessser-go/dessser/schema"
)

func TestSSizeAlwaysConstZero(t *testing.T) {
	s := Serializer{}
	ss := s.SSizeOfValue(schema.NotNullable(schema.ScalarType(schema.U32)))
	c, ok := ss.(codec.Const)
	if !ok || c.Bytes != 0 {
		t.Fatalf("expected Const{0}, got %#v", ss)
	}
}
