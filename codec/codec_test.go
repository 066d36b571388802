package codec

import "testing"

func TestConfigSetGet(t *testing.T) {
	cfg := NewConfig(Set("max-len", 128), Set("trusted", true))

	v, ok := cfg.Get("max-len")
	if !ok || v.(int) != 128 {
		t.Fatalf("expected max-len=128, got %v, %v", v, ok)
	}

	v, ok = cfg.Get("trusted")
	if !ok || v.(bool) != true {
		t.Fatalf("expected trusted=true, got %v, %v", v, ok)
	}

	if _, ok := cfg.Get("missing"); ok {
		t.Fatal("expected missing key to report not-found")
	}
}

func TestListOpenerVariantsImplementInterface(t *testing.T) {
	var opener ListOpener = KnownSize{}
	if _, ok := opener.(KnownSize); !ok {
		t.Fatal("KnownSize should satisfy ListOpener")
	}
	opener = UnknownSize{}
	if _, ok := opener.(UnknownSize); !ok {
		t.Fatal("UnknownSize should satisfy ListOpener")
	}
}

func TestSSizeVariantsImplementInterface(t *testing.T) {
	var ss SSize = Const{Bytes: 4}
	if c, ok := ss.(Const); !ok || c.Bytes != 4 {
		t.Fatal("Const should satisfy SSize and retain its width")
	}
	ss = Dyn{}
	if _, ok := ss.(Dyn); !ok {
		t.Fatal("Dyn should satisfy SSize")
	}
}
