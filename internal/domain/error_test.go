package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"domain error", &Error{Code: EINVALID, Message: "bad input"}, EINVALID},
		{"wrapped domain error", fmt.Errorf("outer: %w", &Error{Code: ENOTFOUND}), ENOTFOUND},
		{"plain error", errors.New("boom"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.want {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessage_HidesInternalDetails(t *testing.T) {
	internal := Internal(errors.New("pq: connection refused"), "checkout", "transaction failed")
	if msg := ErrorMessage(internal); msg != "An internal error occurred. Please try again later." {
		t.Errorf("internal message leaked: %q", msg)
	}

	invalid := Invalid("cart.add", "Quantity must be greater than 0")
	if msg := ErrorMessage(invalid); msg != "Quantity must be greater than 0" {
		t.Errorf("client message = %q", msg)
	}

	if msg := ErrorMessage(errors.New("raw driver error")); msg != "An internal error occurred. Please try again later." {
		t.Errorf("unknown error message leaked: %q", msg)
	}
}

func TestErrorUnwrap(t *testing.T) {
	underlying := errors.New("row scan failed")
	wrapped := WrapError(underlying, EINTERNAL, "purchase.list", "failed to list purchases")

	if !errors.Is(wrapped, underlying) {
		t.Error("wrapped error does not unwrap to the underlying error")
	}

	var domainErr *Error
	if !errors.As(wrapped, &domainErr) {
		t.Fatal("wrapped error does not unwrap to *Error")
	}
	if domainErr.Op != "purchase.list" {
		t.Errorf("op = %q, want purchase.list", domainErr.Op)
	}
}

func TestInsufficientStockError(t *testing.T) {
	stockErr := &InsufficientStockError{Title: "The Hobbit", Available: 2}

	want := `Not enough stock for "The Hobbit". Available: 2`
	if got := stockErr.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	domainErr := stockErr.DomainError("checkout")
	if code := ErrorCode(domainErr); code != EINVALID {
		t.Errorf("code = %q, want EINVALID", code)
	}
	if msg := ErrorMessage(domainErr); msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}

	var unwrapped *InsufficientStockError
	if !errors.As(domainErr, &unwrapped) {
		t.Error("DomainError does not unwrap to InsufficientStockError")
	}
}

func TestWrapError_Nil(t *testing.T) {
	if err := WrapError(nil, EINTERNAL, "op", "message"); err != nil {
		t.Errorf("WrapError(nil) = %v, want nil", err)
	}
}
