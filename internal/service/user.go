package service

import (
	"context"
	"errors"
	"net/mail"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/auth"
	"github.com/dukerupert/skald/internal/domain"
)

// UserStore is the persistence surface the account service needs.
// *postgres.Store satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string, role domain.Role) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, params domain.UpdateUserParams) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// userService implements domain.UserService.
type userService struct {
	store UserStore
}

// NewUserService creates an account service backed by the given store.
func NewUserService(store UserStore) domain.UserService {
	return &userService{store: store}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "user.list", "failed to list users")
	}
	return users, nil
}

// CreateUser registers an account. An empty role defaults to the customer
// role; assigning any admin role requires the caller to be rootAdmin.
func (s *userService) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	const op = "user.create"

	if params.Name == "" {
		return nil, domain.Invalid(op, "Name is required")
	}
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, domain.Invalid(op, "Invalid email address")
	}

	role := params.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.Invalid(op, "Invalid role")
	}
	if role != domain.RoleUser && domain.RoleFromContext(ctx) != domain.RoleRootAdmin {
		return nil, domain.Forbidden(op, "Only rootAdmin can assign admin roles")
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Invalid(op, err.Error())
		}
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to hash password")
	}

	return s.store.CreateUser(ctx, params.Name, params.Email, hash, role)
}

// UpdateUser applies a partial update. Role changes require rootAdmin, and
// nobody can demote the rootAdmin account.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, params domain.UpdateUserParams) (*domain.User, error) {
	const op = "user.update"

	if params.Email != nil {
		if _, err := mail.ParseAddress(*params.Email); err != nil {
			return nil, domain.Invalid(op, "Invalid email address")
		}
	}

	if params.Role != nil {
		if !params.Role.Valid() {
			return nil, domain.Invalid(op, "Invalid role")
		}
		if domain.RoleFromContext(ctx) != domain.RoleRootAdmin {
			return nil, domain.Forbidden(op, "Only rootAdmin can change roles")
		}
		current, err := s.store.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Role == domain.RoleRootAdmin && *params.Role != domain.RoleRootAdmin {
			return nil, domain.Forbidden(op, "The rootAdmin account cannot be demoted")
		}
	}

	if params.Password != nil {
		hash, err := auth.HashPassword(*params.Password)
		if err != nil {
			if errors.Is(err, auth.ErrPasswordTooShort) {
				return nil, domain.Invalid(op, err.Error())
			}
			return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to hash password")
		}
		params.Password = &hash
	}

	return s.store.UpdateUser(ctx, id, params)
}

// DeleteUser removes an account. The rootAdmin account is protected.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	const op = "user.delete"

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == domain.RoleRootAdmin {
		return domain.Forbidden(op, "The rootAdmin account cannot be deleted")
	}
	return s.store.DeleteUser(ctx, id)
}

// ChangePassword verifies the old password before setting a new one.
func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	const op = "user.change_password"

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(oldPassword, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return domain.ErrWrongPassword
		}
		return domain.WrapError(err, domain.EINTERNAL, op, "failed to verify password")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return domain.Invalid(op, err.Error())
		}
		return domain.WrapError(err, domain.EINTERNAL, op, "failed to hash password")
	}

	_, err = s.store.UpdateUser(ctx, id, domain.UpdateUserParams{Password: &hash})
	return err
}

// ListSubAdmins returns all subAdmin accounts.
func (s *userService) ListSubAdmins(ctx context.Context) ([]domain.User, error) {
	users, err := s.store.ListUsersByRole(ctx, domain.RoleSubAdmin)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "user.list_subadmins", "failed to list subAdmins")
	}
	return users, nil
}
