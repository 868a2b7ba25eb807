package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dukerupert/sif/internal/auth"
	"github.com/dukerupert/sif/internal/domain"
)

// userService implements domain.UserService. It is the issuing end of the
// AuthContext contract: everything downstream only ever sees the opaque
// principal id minted into the token subject.
type userService struct {
	store  domain.UserStore
	tokens *auth.TokenManager
}

// NewUserService creates a new UserService instance.
func NewUserService(store domain.UserStore, tokens *auth.TokenManager) domain.UserService {
	return &userService{
		store:  store,
		tokens: tokens,
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, email, password string) (*domain.Account, error) {
	const op = "user.register"

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid(op, "A valid email address is required.")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Invalid(op, "Password must be at least 8 characters.")
		}
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	return s.store.CreateUser(ctx, email, hash)
}

// Login exchanges credentials for a signed token. Unknown email and wrong
// password produce the same error so accounts cannot be enumerated.
func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "user.login"

	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := auth.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.Internal(err, op, "failed to verify password")
	}

	token, err := s.tokens.Mint(&domain.User{
		ID:    strconv.FormatInt(account.ID, 10),
		Email: account.Email,
	})
	if err != nil {
		return "", domain.Internal(err, op, "failed to mint token")
	}

	return token, nil
}
