// Package state encodes the route stored in a history entry.
//
// Entries are msgpack, base64url encoded and, when the codec has a key,
// followed by a truncated HMAC-SHA256 so a forged entry cannot navigate to a
// route the application never pushed.
package state

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidFormat    = errors.New("state: invalid format")
	ErrSignatureInvalid = errors.New("state: signature verification failed")
)

// State is one history entry.
type State struct {
	// Route is stored under the fixed key "subpage".
	Route string `msgpack:"subpage"`
	// Path is the URL path that was shown for Route.
	Path string `msgpack:"path,omitempty"`
}

// Codec encodes and decodes State values.
type Codec struct {
	key []byte
}

// NewCodec returns a codec signing with key. An empty key disables signing.
func NewCodec(key []byte) *Codec {
	if len(key) > 0 && len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}
	return &Codec{key: key}
}

// Encode serializes s.
func (c *Codec) Encode(s State) (string, error) {
	packed, err := msgpack.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("state: encode: %w", err)
	}
	b64 := base64.RawURLEncoding.EncodeToString(packed)
	if len(c.key) == 0 {
		return b64, nil
	}
	return b64 + "." + base64.RawURLEncoding.EncodeToString(c.mac(packed)), nil
}

// Decode parses an encoded entry.
func (c *Codec) Decode(encoded string) (State, error) {
	var s State
	body, sig, signed := strings.Cut(encoded, ".")
	if signed != (len(c.key) > 0) {
		return s, ErrInvalidFormat
	}

	packed, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return s, ErrInvalidFormat
	}
	if signed {
		got, err := base64.RawURLEncoding.DecodeString(sig)
		if err != nil {
			return s, ErrInvalidFormat
		}
		if !hmac.Equal(got, c.mac(packed)) {
			return s, ErrSignatureInvalid
		}
	}

	if err := msgpack.Unmarshal(packed, &s); err != nil {
		return s, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return s, nil
}

func (c *Codec) mac(data []byte) []byte {
	m := hmac.New(sha256.New, c.key)
	m.Write(data)
	return m.Sum(nil)[:16]
}
