package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pharmvigil/medreport-be/internal/apperr"
	"github.com/pharmvigil/medreport-be/internal/auth"
	"github.com/pharmvigil/medreport-be/internal/http/respond"
	"github.com/pharmvigil/medreport-be/internal/middleware"
	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/models/dto"
	"github.com/pharmvigil/medreport-be/internal/storage"
)

// AuthHandler owns registration, login, logout, and the /me endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Register attaches auth routes to the mux. /me and /logout sit behind the
// access gate; register and login are public.
func (h *AuthHandler) Register(mux *http.ServeMux, gate *middleware.Gate) {
	mux.HandleFunc("POST /api/v1/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", h.handleLogin)
	mux.Handle("GET /api/v1/auth/logout", gate.Authenticate(http.HandlerFunc(h.handleLogout)))
	mux.Handle("GET /api/v1/auth/me", gate.Authenticate(http.HandlerFunc(h.handleGetMe)))
	mux.Handle("PUT /api/v1/auth/me", gate.Authenticate(http.HandlerFunc(h.handleUpdateMe)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		respond.Error(w, apperr.BadRequest("Please provide name or email"))
		return
	}
	if req.Password == "" {
		respond.Error(w, apperr.BadRequest("Please provide password"))
		return
	}
	if req.ConfirmPassword == "" {
		respond.Error(w, apperr.BadRequest("Please confirm password"))
		return
	}
	if req.Password != req.ConfirmPassword {
		respond.Error(w, apperr.BadRequest("Password does not match"))
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
		Role:         models.RoleUser,
	}
	created, err := h.store.CreateUser(r.Context(), user)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.sendTokenResponse(w, http.StatusOK, created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(w, apperr.BadRequest("Please provide email or password"))
		return
	}

	user, err := h.store.GetUserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		respond.Error(w, notFoundAs(err, "User not found"))
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respond.Error(w, apperr.Unauthorized("Invalid email and password"))
		return
	}
	h.sendTokenResponse(w, http.StatusOK, user)
}

// handleLogout overwrites the token cookie with a short-lived sentinel. The
// bearer token itself stays valid until it expires; there is no server-side
// revocation.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "logout",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
	})
	respond.JSON(w, http.StatusOK, dto.MessageResponse{Success: true, Message: "logout success"})
}

func (h *AuthHandler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized to access this route"))
		return
	}
	h.sendTokenResponse(w, http.StatusOK, caller)
}

func (h *AuthHandler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized to access this route"))
		return
	}
	var req dto.UpdateMeRequest
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
		caller.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		if err := validateEmail(req.Email); err != nil {
			respond.Error(w, err)
			return
		}
		caller.Email = strings.TrimSpace(req.Email)
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respond.Error(w, err)
			return
		}
		caller.PasswordHash = hash
	}

	updated, err := h.store.UpdateUser(r.Context(), caller)
	if err != nil {
		respond.Error(w, notFoundAs(err, "User not found"))
		return
	}
	respond.JSON(w, http.StatusOK, dto.UserResponse{Success: true, User: updated})
}

// sendTokenResponse issues a fresh token for the user, mirrors it into an
// httpOnly cookie, and writes the auth envelope.
func (h *AuthHandler) sendTokenResponse(w http.ResponseWriter, status int, user models.User) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
	})
	respond.JSON(w, status, dto.AuthResponse{Success: true, Token: token, User: user})
}
