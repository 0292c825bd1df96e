package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/auth"
	"github.com/dukerupert/skald/internal/domain"
)

// memUserStore is an in-memory UserStore.
type memUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memUserStore) addUser(role domain.Role, password string) *domain.User {
	hash, _ := auth.HashPassword(password)
	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: hash,
		Role:         role,
	}
	m.users[user.ID] = user
	return user
}

func (m *memUserStore) CreateUser(ctx context.Context, name, email, passwordHash string, role domain.Role) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	user := &domain.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserStore) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUserStore) ListUsersByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUserStore) UpdateUser(ctx context.Context, id uuid.UUID, params domain.UpdateUserParams) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Password != nil {
		user.PasswordHash = *params.Password
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	return user, nil
}

func (m *memUserStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func ctxAs(role domain.Role) context.Context {
	return domain.NewContextWithIdentity(context.Background(), &domain.Identity{
		UserID: uuid.New(),
		Role:   role,
	})
}

func TestUserCreate_RoleAssignment(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		role     domain.Role
		wantCode string
	}{
		{"anonymous registers customer", context.Background(), "", ""},
		{"customer cannot self-promote", ctxAs(domain.RoleUser), domain.RoleSubAdmin, domain.EFORBIDDEN},
		{"subAdmin cannot create admins", ctxAs(domain.RoleSubAdmin), domain.RoleSubAdmin, domain.EFORBIDDEN},
		{"rootAdmin creates subAdmin", ctxAs(domain.RoleRootAdmin), domain.RoleSubAdmin, ""},
		{"invalid role rejected", ctxAs(domain.RoleRootAdmin), "superuser", domain.EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(newMemUserStore())
			user, err := svc.CreateUser(tt.ctx, domain.CreateUserParams{
				Name:     "Alice",
				Email:    "alice@example.com",
				Password: "longenough",
				Role:     tt.role,
			})
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("CreateUser() error = %v", err)
				}
				wantRole := tt.role
				if wantRole == "" {
					wantRole = domain.RoleUser
				}
				if user.Role != wantRole {
					t.Errorf("role = %q, want %q", user.Role, wantRole)
				}
				return
			}
			if code := domain.ErrorCode(err); code != tt.wantCode {
				t.Errorf("error code = %q, want %q (err %v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestUserCreate_Validation(t *testing.T) {
	svc := NewUserService(newMemUserStore())

	_, err := svc.CreateUser(context.Background(), domain.CreateUserParams{
		Name: "Bob", Email: "not-an-email", Password: "longenough",
	})
	if code := domain.ErrorCode(err); code != domain.EINVALID {
		t.Errorf("bad email: code = %q, want EINVALID", code)
	}

	_, err = svc.CreateUser(context.Background(), domain.CreateUserParams{
		Name: "Bob", Email: "bob@example.com", Password: "short",
	})
	if code := domain.ErrorCode(err); code != domain.EINVALID {
		t.Errorf("short password: code = %q, want EINVALID", code)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	store := newMemUserStore()
	svc := NewUserService(store)

	params := domain.CreateUserParams{Name: "Alice", Email: "alice@example.com", Password: "longenough"}
	if _, err := svc.CreateUser(context.Background(), params); err != nil {
		t.Fatalf("first CreateUser() error = %v", err)
	}
	_, err := svc.CreateUser(context.Background(), params)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
}

func TestUserUpdate_RoleChangeRules(t *testing.T) {
	store := newMemUserStore()
	svc := NewUserService(store)
	target := store.addUser(domain.RoleUser, "longenough")
	root := store.addUser(domain.RoleRootAdmin, "longenough")

	subAdmin := domain.RoleSubAdmin
	_, err := svc.UpdateUser(ctxAs(domain.RoleSubAdmin), target.ID, domain.UpdateUserParams{Role: &subAdmin})
	if code := domain.ErrorCode(err); code != domain.EFORBIDDEN {
		t.Errorf("subAdmin role change: code = %q, want EFORBIDDEN", code)
	}

	updated, err := svc.UpdateUser(ctxAs(domain.RoleRootAdmin), target.ID, domain.UpdateUserParams{Role: &subAdmin})
	if err != nil {
		t.Fatalf("rootAdmin role change error = %v", err)
	}
	if updated.Role != domain.RoleSubAdmin {
		t.Errorf("role = %q, want subAdmin", updated.Role)
	}

	// the root account itself cannot be demoted
	user := domain.RoleUser
	_, err = svc.UpdateUser(ctxAs(domain.RoleRootAdmin), root.ID, domain.UpdateUserParams{Role: &user})
	if code := domain.ErrorCode(err); code != domain.EFORBIDDEN {
		t.Errorf("rootAdmin demotion: code = %q, want EFORBIDDEN", code)
	}
}

func TestUserDelete_RootAdminProtected(t *testing.T) {
	store := newMemUserStore()
	svc := NewUserService(store)
	root := store.addUser(domain.RoleRootAdmin, "longenough")
	customer := store.addUser(domain.RoleUser, "longenough")

	if err := svc.DeleteUser(ctxAs(domain.RoleRootAdmin), root.ID); domain.ErrorCode(err) != domain.EFORBIDDEN {
		t.Errorf("deleting rootAdmin: error = %v, want EFORBIDDEN", err)
	}
	if err := svc.DeleteUser(ctxAs(domain.RoleRootAdmin), customer.ID); err != nil {
		t.Errorf("deleting customer: error = %v", err)
	}
}

func TestUserChangePassword(t *testing.T) {
	store := newMemUserStore()
	svc := NewUserService(store)
	user := store.addUser(domain.RoleUser, "oldpassword")

	err := svc.ChangePassword(context.Background(), user.ID, "wrongpassword", "newpassword")
	if !errors.Is(err, domain.ErrWrongPassword) {
		t.Errorf("wrong old password: error = %v, want ErrWrongPassword", err)
	}

	err = svc.ChangePassword(context.Background(), user.ID, "oldpassword", "short")
	if code := domain.ErrorCode(err); code != domain.EINVALID {
		t.Errorf("short new password: code = %q, want EINVALID", code)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "oldpassword", "newpassword"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if err := auth.VerifyPassword("newpassword", store.users[user.ID].PasswordHash); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
}
