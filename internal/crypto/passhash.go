// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost bounds. MinCost is the floor applied to any configured cost.
const (
	MinCost     = 10
	DefaultCost = 12
	MaxCost     = bcrypt.MaxCost

	// MaxPasswordBytes is the longest input bcrypt takes into account.
	MaxPasswordBytes = 72
)

// Hasher produces and verifies self-describing bcrypt digests
// (algorithm, cost and salt are embedded in the digest).
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher constructs a Hasher. Costs below MinCost are raised to MinCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < MinCost {
		cost = MinCost
	}
	if cost > MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d exceeds maximum %d", cost, MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("task-keeper/dummy"), cost)
	if err != nil {
		return nil, err
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Cost returns the effective bcrypt cost.
func (h *Hasher) Cost() int { return h.cost }

// Hash returns a salted bcrypt digest of password.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("password longer than %d bytes", MaxPasswordBytes)
	}
	d, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(d), nil
}

// Verify reports whether password matches digest. Malformed digests verify as false.
func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// DummyVerify spends the same work as Verify against a digest nobody owns.
// Login calls it for unknown identifiers so both failure paths take equal time.
func (h *Hasher) DummyVerify(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
