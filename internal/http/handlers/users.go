package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pharmvigil/medreport-be/internal/apperr"
	"github.com/pharmvigil/medreport-be/internal/auth"
	"github.com/pharmvigil/medreport-be/internal/http/respond"
	"github.com/pharmvigil/medreport-be/internal/middleware"
	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/models/dto"
	"github.com/pharmvigil/medreport-be/internal/storage"
)

// UserHandler owns admin-only user management.
type UserHandler struct {
	store storage.UserStore
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore) *UserHandler {
	return &UserHandler{store: store}
}

// Register attaches user routes behind authentication plus the admin role.
func (h *UserHandler) Register(mux *http.ServeMux, gate *middleware.Gate) {
	admin := gate.RequireRole(models.RoleAdmin)
	guard := func(fn http.HandlerFunc) http.Handler {
		return gate.Authenticate(admin(fn))
	}
	mux.Handle("GET /api/v1/users", guard(h.handleList))
	mux.Handle("POST /api/v1/users", guard(h.handleCreate))
	mux.Handle("GET /api/v1/users/{id}", guard(h.handleGet))
	mux.Handle("PUT /api/v1/users/{id}", guard(h.handleUpdate))
	mux.Handle("DELETE /api/v1/users/{id}", guard(h.handleDelete))
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.UsersResponse{Success: true, Count: len(users), Users: users})
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, notFoundAs(err, "User not found"))
		return
	}
	respond.JSON(w, http.StatusOK, dto.UserResponse{Success: true, User: user})
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		respond.Error(w, apperr.BadRequest("Password does not match"))
		return
	}
	err := requireFields(map[string]string{
		"name":     req.Name,
		"email":    req.Email,
		"password": req.Password,
	}, []string{"name", "email", "password"})
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := validateName(req.Name); err != nil {
		respond.Error(w, err)
		return
	}
	if err := validateEmail(req.Email); err != nil {
		respond.Error(w, err)
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		respond.Error(w, apperr.BadRequest("Role must be user or admin"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}
	user := models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Role:         role,
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.UserResponse{Success: true, User: created})
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, notFoundAs(err, "User not found"))
		return
	}
	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		respond.Error(w, apperr.BadRequest("Password does not match"))
		return
	}

	if req.Name != "" {
		if err := validateName(req.Name); err != nil {
			respond.Error(w, err)
			return
		}
		user.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		if err := validateEmail(req.Email); err != nil {
			respond.Error(w, err)
			return
		}
		user.Email = strings.TrimSpace(req.Email)
	}
	if req.Role != "" {
		if !models.ValidRole(req.Role) {
			respond.Error(w, apperr.BadRequest("Role must be user or admin"))
			return
		}
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respond.Error(w, err)
			return
		}
		user.PasswordHash = hash
	}

	updated, err := h.store.UpdateUser(r.Context(), user)
	if err != nil {
		respond.Error(w, notFoundAs(err, "User not found"))
		return
	}
	respond.JSON(w, http.StatusOK, dto.UserResponse{Success: true, User: updated})
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, notFoundAs(err, "User not found"))
		return
	}
	respond.JSON(w, http.StatusOK, dto.DeletedUserResponse{Success: true})
}
