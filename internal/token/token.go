// Package token issues and verifies HS256 bearer tokens carrying the caller identity.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
)

// MinKeyLen is the shortest accepted HS256 signing key.
const MinKeyLen = 32

// Defaults applied by New for zero option values.
const (
	DefaultTTL    = time.Hour
	DefaultLeeway = 30 * time.Second
)

// Options configure an Issuer. Key is required.
type Options struct {
	Key      []byte
	Issuer   string
	Audience string
	TTL      time.Duration
	Leeway   time.Duration
	Now      func() time.Time
}

// Issuer mints and verifies access tokens. It keeps no per-token state.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	leeway   time.Duration
	now      func() time.Time
}

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// New constructs an Issuer from opts.
func New(opts Options) (*Issuer, error) {
	if len(opts.Key) < MinKeyLen {
		return nil, fmt.Errorf("signing key must be at least %d bytes", MinKeyLen)
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Leeway < 0 {
		opts.Leeway = 0
	} else if opts.Leeway == 0 {
		opts.Leeway = DefaultLeeway
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	key := append([]byte(nil), opts.Key...)
	return &Issuer{
		key:      key,
		issuer:   opts.Issuer,
		audience: opts.Audience,
		ttl:      opts.TTL,
		leeway:   opts.Leeway,
		now:      opts.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue creates a signed token for the user valid for the configured TTL.
func (i *Issuer) Issue(userID uuid.UUID, username string) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	jti, err := uuid.NewV4()
	if err != nil {
		return "", time.Time{}, err
	}
	c := claims{
		Name: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        jti.String(),
		},
	}
	if i.audience != "" {
		c.Audience = jwt.ClaimStrings{i.audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry and returns the embedded identity.
// Expired tokens yield errs.ErrExpiredToken; every other failure yields errs.ErrInvalidToken.
func (i *Issuer) Verify(tok string) (model.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(i.leeway),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(tok, &c, func(*jwt.Token) (any, error) {
		return i.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Identity{}, errs.ErrExpiredToken
		}
		return model.Identity{}, errs.ErrInvalidToken
	}
	if !parsed.Valid {
		return model.Identity{}, errs.ErrInvalidToken
	}

	id, err := uuid.FromString(c.Subject)
	if err != nil || id == uuid.Nil {
		return model.Identity{}, errs.ErrInvalidToken
	}
	return model.Identity{UserID: id, Username: c.Name}, nil
}
