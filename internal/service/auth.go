// Package service contains application services for authentication and tasks.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/task-keeper/internal/crypto"
	"github.com/and161185/task-keeper/internal/errs"
	"github.com/and161185/task-keeper/internal/model"
	"github.com/and161185/task-keeper/internal/repository"
)

// AuthService defines registration and authentication operations.
type AuthService interface {
	// Register validates and stores a new account.
	Register(ctx context.Context, reg model.Registration) (model.UserView, error)
	// Login authenticates by username or email and issues an access token.
	Login(ctx context.Context, identifier, password string) (model.Tokens, model.UserView, error)
	// CheckAuth resolves an access token to the identity it carries.
	CheckAuth(ctx context.Context, token string) (model.Identity, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
	DummyVerify(password string)
}

// TokenIssuer issues and verifies access tokens.
type TokenIssuer interface {
	Issue(userID uuid.UUID, username string) (string, time.Time, error)
	Verify(token string) (model.Identity, error)
}

type AuthServiceImpl struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	validate *validator.Validate
	now      func() time.Time
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		validate: newValidator(),
		now:      time.Now,
	}
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register username validation: %v", err))
	}
	return v
}

// Register checks shape, uniqueness and password policy, in that order, then
// stores a bcrypt digest of the password.
func (s *AuthServiceImpl) Register(ctx context.Context, reg model.Registration) (model.UserView, error) {
	if err := s.validate.Struct(reg); err != nil {
		return model.UserView{}, validationError(err)
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, reg.Username, reg.Email)
	if err != nil {
		return model.UserView{}, err
	}
	if taken {
		return model.UserView{}, errs.ErrAlreadyExists
	}

	if err := CheckPasswordPolicy(reg.Password); err != nil {
		return model.UserView{}, err
	}

	digest, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return model.UserView{}, err
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return model.UserView{}, err
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	u := &model.User{
		ID:        uid,
		Username:  reg.Username,
		Email:     reg.Email,
		PwdHash:   digest,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return model.UserView{}, err
	}
	return u.View(), nil
}

// Login looks the account up by username or email. Unknown accounts and wrong
// passwords produce the same error after the same amount of hashing work.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (model.Tokens, model.UserView, error) {
	if identifier == "" || password == "" {
		return model.Tokens{}, model.UserView{}, errs.ErrUnauthorized
	}
	u, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.hasher.DummyVerify(password)
			return model.Tokens{}, model.UserView{}, errs.ErrUnauthorized
		}
		return model.Tokens{}, model.UserView{}, err
	}
	if !s.hasher.Verify(password, u.PwdHash) {
		return model.Tokens{}, model.UserView{}, errs.ErrUnauthorized
	}

	access, exp, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return model.Tokens{}, model.UserView{}, err
	}
	return model.Tokens{AccessToken: access, ExpiresAt: exp}, u.View(), nil
}

// CheckAuth verifies the token signature and expiry.
func (s *AuthServiceImpl) CheckAuth(_ context.Context, token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, errs.ErrInvalidToken
	}
	return s.tokens.Verify(token)
}

// CheckPasswordPolicy requires at least eight characters with an upper case
// letter, a lower case letter, a digit and a symbol. Passwords longer than
// bcrypt's input limit are refused rather than silently truncated.
func CheckPasswordPolicy(password string) error {
	if len(password) > crypto.MaxPasswordBytes {
		return errs.ErrWeakPassword
	}
	var upper, lower, digit, symbol bool
	n := 0
	for _, r := range password {
		n++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}
	if n < 8 || !upper || !lower || !digit || !symbol {
		return errs.ErrWeakPassword
	}
	return nil
}

// validationError flattens validator output into one ErrValidation.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs.Validation("%v", err)
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return errs.Validation("%s", strings.Join(parts, ", "))
}
