package auth

import (
	"errors"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("password stored in the clear")
	}

	if err := VerifyPassword("correct horse battery", hash); err != nil {
		t.Errorf("VerifyPassword() error = %v", err)
	}
	if err := VerifyPassword("wrong password!", hash); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("wrong password error = %v, want ErrPasswordMismatch", err)
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("error = %v, want ErrPasswordTooShort", err)
	}
}
