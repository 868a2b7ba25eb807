package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Error("hash equals plaintext")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash %q is not a bcrypt hash", hash)
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("seven77")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("error = %v, want ErrPasswordTooShort", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if err := VerifyPassword("correct horse battery staple", hash); err != nil {
		t.Errorf("VerifyPassword() error = %v", err)
	}

	err = VerifyPassword("wrong password", hash)
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("error = %v, want ErrPasswordMismatch", err)
	}
}
