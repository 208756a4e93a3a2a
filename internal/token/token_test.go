package token

import (
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/task-keeper/internal/errs"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newIssuer(t *testing.T, c *clock) *Issuer {
	t.Helper()
	iss, err := New(Options{Key: testKey, Issuer: "task-keeper", Audience: "task-keeper-clients", Now: c.now})
	require.NoError(t, err)
	return iss
}

func TestNew_RejectsShortKey(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Key: []byte("short")})
	require.Error(t, err)

	iss, err := New(Options{Key: testKey})
	require.NoError(t, err)
	require.Equal(t, DefaultTTL, iss.TTL())
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss := newIssuer(t, c)
	uid := uuid.Must(uuid.NewV4())

	tok, exp, err := iss.Issue(uid, "alice")
	require.NoError(t, err)
	require.Equal(t, c.t.Add(time.Hour), exp)
	require.Equal(t, 2, strings.Count(tok, "."))

	c.t = c.t.Add(59 * time.Minute)
	id, err := iss.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, uid, id.UserID)
	require.Equal(t, "alice", id.Username)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	iss := newIssuer(t, c)

	tok, _, err := iss.Issue(uuid.Must(uuid.NewV4()), "bob")
	require.NoError(t, err)

	c.t = c.t.Add(time.Hour + DefaultLeeway + time.Second)
	_, err = iss.Verify(tok)
	require.ErrorIs(t, err, errs.ErrExpiredToken)
	require.True(t, errs.IsUnauthenticated(err))
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	c := &clock{t: time.Now()}
	iss := newIssuer(t, c)

	tok, _, err := iss.Issue(uuid.Must(uuid.NewV4()), "bob")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = iss.Verify(tampered)
	require.ErrorIs(t, err, errs.ErrInvalidToken)

	other, err := New(Options{Key: []byte("ffffffffffffffffffffffffffffffff"), Issuer: "task-keeper", Audience: "task-keeper-clients", Now: c.now})
	require.NoError(t, err)
	_, err = other.Verify(tok)
	require.ErrorIs(t, err, errs.ErrInvalidToken)
}

func TestVerify_RejectsForeignClaimsAndShapes(t *testing.T) {
	t.Parallel()

	now := time.Now()
	c := &clock{t: now}
	iss := newIssuer(t, c)

	sign := func(method jwt.SigningMethod, cl claims) string {
		s, err := jwt.NewWithClaims(method, cl).SignedString(testKey)
		require.NoError(t, err)
		return s
	}
	base := func() claims {
		return claims{
			Name: "eve",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.Must(uuid.NewV4()).String(),
				Issuer:    "task-keeper",
				Audience:  jwt.ClaimStrings{"task-keeper-clients"},
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	wrongIss := base()
	wrongIss.Issuer = "someone-else"
	wrongAud := base()
	wrongAud.Audience = jwt.ClaimStrings{"other-app"}
	noExp := base()
	noExp.ExpiresAt = nil
	badSub := base()
	badSub.Subject = "not-a-uuid"

	cases := map[string]string{
		"garbage":      "this-is-not-a-jwt",
		"empty":        "",
		"wrong alg":    sign(jwt.SigningMethodHS384, base()),
		"wrong issuer": sign(jwt.SigningMethodHS256, wrongIss),
		"wrong aud":    sign(jwt.SigningMethodHS256, wrongAud),
		"no expiry":    sign(jwt.SigningMethodHS256, noExp),
		"bad subject":  sign(jwt.SigningMethodHS256, badSub),
	}
	for name, tok := range cases {
		_, err := iss.Verify(tok)
		require.ErrorIs(t, err, errs.ErrInvalidToken, name)
	}

	_, err := iss.Verify(sign(jwt.SigningMethodHS256, base()))
	require.NoError(t, err)
}
