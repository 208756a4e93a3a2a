package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher_CostFloor(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(4)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	if h.Cost() != MinCost {
		t.Fatalf("cost=%d, want floor %d", h.Cost(), MinCost)
	}

	d, err := h.Hash("Abcdef1!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	got, err := bcrypt.Cost([]byte(d))
	if err != nil || got != MinCost {
		t.Fatalf("digest cost=%d err=%v, want %d", got, err, MinCost)
	}

	if _, err := NewHasher(MaxCost + 1); err == nil {
		t.Fatalf("want error for cost above maximum")
	}
}

func TestHash_SaltedAndSelfDescribing(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	d1, err := h.Hash("p@ssw0rD")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	d2, err := h.Hash("p@ssw0rD")
	if err != nil {
		t.Fatalf("Hash(2): %v", err)
	}
	if d1 == d2 {
		t.Fatalf("two digests of the same password are equal, salt missing")
	}
	if !strings.HasPrefix(d1, "$2a$10$") {
		t.Fatalf("digest does not embed algorithm and cost: %q", d1)
	}
	if strings.Contains(d1, "p@ssw0rD") {
		t.Fatalf("digest leaks plaintext")
	}
}

func TestHash_TooLong(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", MaxPasswordBytes+1)); err == nil {
		t.Fatalf("want error for password over %d bytes", MaxPasswordBytes)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	h, err := NewHasher(MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	d, err := h.Hash("correct Horse 9!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	if !h.Verify("correct Horse 9!", d) {
		t.Fatalf("Verify: expected true for correct password")
	}
	if h.Verify("wrong", d) {
		t.Fatalf("Verify: expected false for wrong password")
	}
	if h.Verify("", d) {
		t.Fatalf("Verify: expected false for empty password")
	}
	for _, bad := range []string{"", "not-a-digest", "$2a$10$short", d[:len(d)-1]} {
		if h.Verify("correct Horse 9!", bad) {
			t.Fatalf("Verify: malformed digest %q must verify false", bad)
		}
	}

	h.DummyVerify("anything")
}
