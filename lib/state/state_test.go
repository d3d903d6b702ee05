package state

import (
	"errors"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestSignedRoundTrip(t *testing.T) {
	c := NewCodec([]byte("test-key"))

	encoded, err := c.Encode(State{Route: "about", Path: "/about"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(encoded, ".") {
		t.Fatalf("signed entry %q has no signature", encoded)
	}

	got, err := c.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Route != "about" || got.Path != "/about" {
		t.Errorf("Decode = %+v", got)
	}
}

func TestUnsignedRoundTrip(t *testing.T) {
	c := NewCodec(nil)

	encoded, err := c.Encode(State{Route: "home"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Contains(encoded, ".") {
		t.Errorf("unsigned entry %q carries a signature", encoded)
	}
	got, err := c.Decode(encoded)
	if err != nil || got.Route != "home" {
		t.Errorf("Decode = %+v, %v", got, err)
	}
}

func TestRouteUnderFixedKey(t *testing.T) {
	encoded, _ := NewCodec(nil).Encode(State{Route: "home"})
	got, err := NewCodec(nil).Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	packed, _ := msgpack.Marshal(got)
	var raw map[string]any
	if err := msgpack.Unmarshal(packed, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if raw["subpage"] != "home" {
		t.Errorf("raw entry = %v, want subpage=home", raw)
	}
}

func TestTamperedSignature(t *testing.T) {
	c := NewCodec([]byte("test-key"))
	encoded, _ := c.Encode(State{Route: "about"})

	tampered := encoded[:len(encoded)-2] + "XX"
	if _, err := c.Decode(tampered); !errors.Is(err, ErrSignatureInvalid) && !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("err = %v, want signature error", err)
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	encoded, _ := NewCodec([]byte("key-one")).Encode(State{Route: "about"})
	if _, err := NewCodec([]byte("key-two")).Decode(encoded); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestInvalidFormat(t *testing.T) {
	tests := []struct {
		name  string
		codec *Codec
		input string
	}{
		{"missing signature", NewCodec([]byte("k")), "invalidbase64withoutseparator"},
		{"unexpected signature", NewCodec(nil), "abc.def"},
		{"bad base64", NewCodec(nil), "!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.codec.Decode(tt.input); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("err = %v, want ErrInvalidFormat", err)
			}
		})
	}
}
