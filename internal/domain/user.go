package domain

import (
	"context"
	"time"
)

var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "User not found."}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "An account with this email already exists."}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password."}
)

// Account is a registered user row. The cart subsystem never reads this
// table directly; it only sees the opaque principal id minted into tokens.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserService issues principals: it registers accounts and exchanges
// credentials for signed tokens.
type UserService interface {
	Register(ctx context.Context, email, password string) (*Account, error)
	Login(ctx context.Context, email, password string) (token string, err error)
}

// UserStore is the persistence boundary for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*Account, error)
	GetUserByEmail(ctx context.Context, email string) (*Account, error)
}
