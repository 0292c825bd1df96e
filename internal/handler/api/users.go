package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/skald/internal/domain"
)

// UserHandler handles account routes: the caller's own profile plus the
// admin user management surface.
type UserHandler struct {
	users  domain.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users domain.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{users: users, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user subAdmin rootAdmin"`
}

type updateUserRequest struct {
	Name        *string    `json:"name"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	Password    *string    `json:"password" validate:"omitempty,min=8"`
	Role        *string    `json:"role" validate:"omitempty,oneof=user subAdmin rootAdmin"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	City        *string    `json:"city"`
	Address     *string    `json:"address"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// Register handles POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), domain.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), domain.UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// UpdateMe handles PATCH /api/users/me
//
// Role is not accepted here; promoting an account goes through the admin
// surface.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Role != nil {
		respondError(w, r, domain.Forbidden("user.update_me", "Role cannot be changed here"))
		return
	}

	user, err := h.users.UpdateUser(r.Context(), domain.UserIDFromContext(r.Context()), domain.UpdateUserParams{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		City:        req.City,
		Address:     req.Address,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteMe handles DELETE /api/users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteUser(r.Context(), domain.UserIDFromContext(r.Context())); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// ChangePassword handles POST /api/users/me/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	err := h.users.ChangePassword(r.Context(), domain.UserIDFromContext(r.Context()), req.OldPassword, req.NewPassword)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Password changed"})
}

// List handles GET /api/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// ListSubAdmins handles GET /api/admin/subadmins
func (h *UserHandler) ListSubAdmins(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListSubAdmins(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// getSubAdmin resolves a path ID to a subAdmin account. Any other role is
// reported as not found so the surface never leaks customer account IDs.
func (h *UserHandler) getSubAdmin(r *http.Request) (*domain.User, error) {
	id, err := pathUUID(r, "id")
	if err != nil {
		return nil, err
	}
	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleSubAdmin {
		return nil, domain.NotFound("admin.subadmin", "SubAdmin", id.String())
	}
	return user, nil
}

// GetSubAdmin handles GET /api/admin/subadmins/{id}
func (h *UserHandler) GetSubAdmin(w http.ResponseWriter, r *http.Request) {
	user, err := h.getSubAdmin(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// CreateSubAdmin handles POST /api/admin/subadmins
//
// The role is fixed to subAdmin; the route guard already restricts the caller
// to rootAdmin.
func (h *UserHandler) CreateSubAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), domain.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.RoleSubAdmin,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message":  "SubAdmin created successfully",
		"subAdmin": user,
	})
}

// UpdateSubAdmin handles PUT /api/admin/subadmins/{id}
//
// Role changes are not accepted here; promoting or demoting goes through
// PATCH /api/admin/users/{id}.
func (h *UserHandler) UpdateSubAdmin(w http.ResponseWriter, r *http.Request) {
	target, err := h.getSubAdmin(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Role != nil {
		respondError(w, r, domain.Forbidden("admin.subadmin_update", "Role cannot be changed here"))
		return
	}

	user, err := h.users.UpdateUser(r.Context(), target.ID, domain.UpdateUserParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		City:        req.City,
		Address:     req.Address,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// DeleteSubAdmin handles DELETE /api/admin/subadmins/{id}
func (h *UserHandler) DeleteSubAdmin(w http.ResponseWriter, r *http.Request) {
	target, err := h.getSubAdmin(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.users.DeleteUser(r.Context(), target.ID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "SubAdmin deleted"})
}

// Get handles GET /api/admin/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Create handles POST /api/admin/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), domain.CreateUserParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Update handles PATCH /api/admin/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var role *domain.Role
	if req.Role != nil {
		v := domain.Role(*req.Role)
		role = &v
	}

	user, err := h.users.UpdateUser(r.Context(), id, domain.UpdateUserParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        role,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		City:        req.City,
		Address:     req.Address,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/admin/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
