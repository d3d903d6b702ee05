// Package hashutil derives stable keys from source text.
package hashutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"
	"unicode/utf16"
)

// Rolling32 returns the 32-bit rolling hash of s (h = h*31 + c over UTF-16
// code units, wrapping on overflow). It matches the string hash used by
// browser-side code, so keys computed on either side agree.
func Rolling32(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	return h
}

// Digest returns the hex-encoded SHA-256 digest of everything read from r.
// It stops early with ctx.Err() when ctx is done.
func Digest(ctx context.Context, r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestString is Digest over a string.
func DigestString(ctx context.Context, s string) (string, error) {
	return Digest(ctx, strings.NewReader(s))
}
