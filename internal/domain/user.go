package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's authorization level.
type Role string

const (
	RoleUser      Role = "user"
	RoleSubAdmin  Role = "subAdmin"
	RoleRootAdmin Role = "rootAdmin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSubAdmin, RoleRootAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role grants access to the admin surface.
func (r Role) IsAdmin() bool {
	return r == RoleSubAdmin || r == RoleRootAdmin
}

// User-related domain errors.
var (
	ErrUserNotFound  = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken    = &Error{Code: ECONFLICT, Message: "Email already exists"}
	ErrWrongPassword = &Error{Code: EINVALID, Message: "Old password is incorrect"}
)

// User represents a bookstore account.
//
// BooksBoughtAmount is an aggregate counter incremented by checkout only; no
// other code path writes it.
type User struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              Role       `json:"role"`
	Phone             string     `json:"phone,omitempty"`
	DateOfBirth       *time.Time `json:"dateOfBirth,omitempty"`
	City              string     `json:"city,omitempty"`
	Address           string     `json:"address,omitempty"`
	LastOnline        time.Time  `json:"lastOnline"`
	BooksBoughtAmount int32      `json:"booksBoughtAmount"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// CreateUserParams contains the fields accepted when creating a user.
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

// UpdateUserParams contains optional fields for a user update.
// Nil pointers mean "leave unchanged".
type UpdateUserParams struct {
	Name        *string
	Email       *string
	Password    *string
	Role        *Role
	Phone       *string
	DateOfBirth *time.Time
	City        *string
	Address     *string
}

// UserService provides business logic for account management.
type UserService interface {
	// GetUser retrieves a single user by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// ListUsers returns all users. Privileged operation.
	ListUsers(ctx context.Context) ([]User, error)

	// CreateUser creates a user account. Assigning an admin role requires the
	// caller to be rootAdmin.
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)

	// UpdateUser applies a partial update. Role changes require rootAdmin.
	UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*User, error)

	// DeleteUser removes a user account.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// ChangePassword verifies the old password and sets a new one.
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error

	// ListSubAdmins returns all subAdmin accounts. rootAdmin only.
	ListSubAdmins(ctx context.Context) ([]User, error)
}
