package hashutil

import (
	"context"
	"testing"
)

func TestRolling32(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
		// matches the JVM/JS string hash
		{"hello", 99162322},
		// long inputs wrap like a JS `| 0`
		{"the quick brown fox jumps over the lazy dog", -2082818701},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Rolling32(tt.in); got != tt.want {
				t.Errorf("Rolling32(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRolling32Stable(t *testing.T) {
	if Rolling32("func() { return 1 }") != Rolling32("func() { return 1 }") {
		t.Error("hash is not deterministic")
	}
	if Rolling32("a") == Rolling32("b") {
		t.Error("distinct inputs collided")
	}
}

func TestDigestString(t *testing.T) {
	got, err := DigestString(context.Background(), "abc")
	if err != nil {
		t.Fatalf("DigestString failed: %v", err)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("DigestString = %s, want %s", got, want)
	}
}

func TestDigestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := DigestString(ctx, "abc"); err == nil {
		t.Error("expected error for canceled context")
	}
}
