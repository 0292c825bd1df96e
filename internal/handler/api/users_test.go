package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dukerupert/skald/internal/domain"
)

// mockUserService implements domain.UserService.
type mockUserService struct {
	users map[uuid.UUID]*domain.User

	created   *domain.CreateUserParams
	updatedID uuid.UUID
	updated   *domain.UpdateUserParams
	deletedID uuid.UUID
	err       error
}

func newMockUserService(users ...*domain.User) *mockUserService {
	m := &mockUserService{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.NotFound("user.get", "User", id.String())
	}
	return user, nil
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, m.err
}

func (m *mockUserService) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	m.created = &params
	if m.err != nil {
		return nil, m.err
	}
	role := params.Role
	if role == "" {
		role = domain.RoleUser
	}
	return &domain.User{ID: uuid.New(), Name: params.Name, Email: params.Email, Role: role}, nil
}

func (m *mockUserService) UpdateUser(ctx context.Context, id uuid.UUID, params domain.UpdateUserParams) (*domain.User, error) {
	m.updatedID = id
	m.updated = &params
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, domain.NotFound("user.update", "User", id.String())
	}
	return user, nil
}

func (m *mockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	m.deletedID = id
	return m.err
}

func (m *mockUserService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	return m.err
}

func (m *mockUserService) ListSubAdmins(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		if u.Role == domain.RoleSubAdmin {
			out = append(out, *u)
		}
	}
	return out, m.err
}

func requestAs(identity *domain.Identity, method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if identity != nil {
		req = req.WithContext(domain.NewContextWithIdentity(req.Context(), identity))
	}
	return req
}

func TestUserHandler_DeleteMe(t *testing.T) {
	userID := uuid.New()
	svc := newMockUserService(&domain.User{ID: userID, Role: domain.RoleUser})
	h := NewUserHandler(svc, nil)

	w := httptest.NewRecorder()
	h.DeleteMe(w, requestAs(&domain.Identity{UserID: userID, Role: domain.RoleUser},
		http.MethodDelete, "/api/users/me", ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body)
	}
	if svc.deletedID != userID {
		t.Errorf("deleted %s, want the caller's own account %s", svc.deletedID, userID)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp["message"] != "Account deleted" {
		t.Errorf("message = %q", resp["message"])
	}
}

func TestUserHandler_DeleteMe_ServiceError(t *testing.T) {
	svc := newMockUserService()
	svc.err = domain.Internal(nil, "user.delete", "delete failed")
	h := NewUserHandler(svc, nil)

	w := httptest.NewRecorder()
	h.DeleteMe(w, requestAs(&domain.Identity{UserID: uuid.New(), Role: domain.RoleUser},
		http.MethodDelete, "/api/users/me", ""))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestUserHandler_CreateSubAdmin(t *testing.T) {
	svc := newMockUserService()
	h := NewUserHandler(svc, nil)

	root := &domain.Identity{UserID: uuid.New(), Role: domain.RoleRootAdmin}
	body := `{"name":"Ops","email":"ops@example.com","password":"verysecret"}`
	w := httptest.NewRecorder()
	h.CreateSubAdmin(w, requestAs(root, http.MethodPost, "/api/admin/subadmins", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body)
	}
	if svc.created == nil || svc.created.Role != domain.RoleSubAdmin {
		t.Fatalf("created role = %v, want subAdmin regardless of request body", svc.created)
	}

	var resp struct {
		Message  string      `json:"message"`
		SubAdmin domain.User `json:"subAdmin"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Message != "SubAdmin created successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.SubAdmin.Role != domain.RoleSubAdmin {
		t.Errorf("response role = %s", resp.SubAdmin.Role)
	}
}

func TestUserHandler_GetSubAdmin(t *testing.T) {
	root := &domain.Identity{UserID: uuid.New(), Role: domain.RoleRootAdmin}
	subAdmin := &domain.User{ID: uuid.New(), Name: "Ops", Role: domain.RoleSubAdmin}
	customer := &domain.User{ID: uuid.New(), Name: "Reader", Role: domain.RoleUser}
	svc := newMockUserService(subAdmin, customer)
	h := NewUserHandler(svc, nil)

	t.Run("found", func(t *testing.T) {
		req := requestAs(root, http.MethodGet, "/api/admin/subadmins/"+subAdmin.ID.String(), "")
		req.SetPathValue("id", subAdmin.ID.String())
		w := httptest.NewRecorder()
		h.GetSubAdmin(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body)
		}
	})

	// a customer account must not be reachable through the subAdmin surface
	t.Run("wrong role reads as not found", func(t *testing.T) {
		req := requestAs(root, http.MethodGet, "/api/admin/subadmins/"+customer.ID.String(), "")
		req.SetPathValue("id", customer.ID.String())
		w := httptest.NewRecorder()
		h.GetSubAdmin(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404 (body %s)", w.Code, w.Body)
		}
	})
}

func TestUserHandler_UpdateSubAdmin(t *testing.T) {
	root := &domain.Identity{UserID: uuid.New(), Role: domain.RoleRootAdmin}
	subAdmin := &domain.User{ID: uuid.New(), Name: "Ops", Role: domain.RoleSubAdmin}
	svc := newMockUserService(subAdmin)
	h := NewUserHandler(svc, nil)

	t.Run("updates profile fields", func(t *testing.T) {
		req := requestAs(root, http.MethodPut, "/api/admin/subadmins/"+subAdmin.ID.String(), `{"name":"Ops Two"}`)
		req.SetPathValue("id", subAdmin.ID.String())
		w := httptest.NewRecorder()
		h.UpdateSubAdmin(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body)
		}
		if svc.updatedID != subAdmin.ID || svc.updated == nil || svc.updated.Name == nil || *svc.updated.Name != "Ops Two" {
			t.Errorf("service update = %+v for %s", svc.updated, svc.updatedID)
		}
	})

	t.Run("rejects role changes", func(t *testing.T) {
		req := requestAs(root, http.MethodPut, "/api/admin/subadmins/"+subAdmin.ID.String(), `{"role":"rootAdmin"}`)
		req.SetPathValue("id", subAdmin.ID.String())
		w := httptest.NewRecorder()
		h.UpdateSubAdmin(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403 (body %s)", w.Code, w.Body)
		}
	})
}

func TestUserHandler_DeleteSubAdmin(t *testing.T) {
	root := &domain.Identity{UserID: uuid.New(), Role: domain.RoleRootAdmin}
	subAdmin := &domain.User{ID: uuid.New(), Role: domain.RoleSubAdmin}
	customer := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	svc := newMockUserService(subAdmin, customer)
	h := NewUserHandler(svc, nil)

	t.Run("deletes a subAdmin", func(t *testing.T) {
		req := requestAs(root, http.MethodDelete, "/api/admin/subadmins/"+subAdmin.ID.String(), "")
		req.SetPathValue("id", subAdmin.ID.String())
		w := httptest.NewRecorder()
		h.DeleteSubAdmin(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body)
		}
		if svc.deletedID != subAdmin.ID {
			t.Errorf("deleted %s, want %s", svc.deletedID, subAdmin.ID)
		}
	})

	t.Run("refuses other roles", func(t *testing.T) {
		svc.deletedID = uuid.Nil
		req := requestAs(root, http.MethodDelete, "/api/admin/subadmins/"+customer.ID.String(), "")
		req.SetPathValue("id", customer.ID.String())
		w := httptest.NewRecorder()
		h.DeleteSubAdmin(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404 (body %s)", w.Code, w.Body)
		}
		if svc.deletedID != uuid.Nil {
			t.Errorf("delete reached the service for a non-subAdmin account")
		}
	})
}
