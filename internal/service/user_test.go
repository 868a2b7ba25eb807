package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/sif/internal/auth"
	"github.com/dukerupert/sif/internal/domain"
)

// memUserStore is an in-memory UserStore keyed by email.
type memUserStore struct {
	accounts map[string]*domain.Account
	nextID   int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{accounts: make(map[string]*domain.Account)}
}

func (s *memUserStore) CreateUser(_ context.Context, email, passwordHash string) (*domain.Account, error) {
	if _, ok := s.accounts[email]; ok {
		return nil, domain.ErrEmailTaken
	}
	s.nextID++
	account := &domain.Account{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.accounts[email] = account
	return account, nil
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (*domain.Account, error) {
	account, ok := s.accounts[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return account, nil
}

func newTestUserService(store domain.UserStore) (domain.UserService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", "sif-test", time.Hour)
	return NewUserService(store, tokens), tokens
}

func TestRegister_NormalizesEmail(t *testing.T) {
	store := newMemUserStore()
	svc, _ := newTestUserService(store)

	account, err := svc.Register(context.Background(), "  Shopper@Example.COM ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "shopper@example.com", account.Email)
	assert.NotEqual(t, "correct horse", account.PasswordHash)
}

func TestRegister_RejectsBadInput(t *testing.T) {
	store := newMemUserStore()
	svc, _ := newTestUserService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "not-an-email", "correct horse")
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	_, err = svc.Register(ctx, "shopper@example.com", "short")
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters.", domain.ErrorMessage(err))
}

func TestRegister_EmailTaken(t *testing.T) {
	store := newMemUserStore()
	svc, _ := newTestUserService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "shopper@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "shopper@example.com", "correct horse")
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
}

func TestLogin_MintsPrincipalToken(t *testing.T) {
	store := newMemUserStore()
	svc, tokens := newTestUserService(store)
	ctx := context.Background()

	account, err := svc.Register(ctx, "shopper@example.com", "correct horse")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "shopper@example.com", "correct horse")
	require.NoError(t, err)

	user, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, account.Email, user.Email)
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	store := newMemUserStore()
	svc, _ := newTestUserService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "shopper@example.com", "correct horse")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "nobody@example.com", "correct horse")
	_, wrongErr := svc.Login(ctx, "shopper@example.com", "wrong password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, domain.ErrorMessage(unknownErr), domain.ErrorMessage(wrongErr))
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(unknownErr))
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(wrongErr))
}
