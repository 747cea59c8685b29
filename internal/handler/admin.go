package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/petrotech/siteapi/internal/model"
	"github.com/petrotech/siteapi/internal/server/middleware"
	"github.com/petrotech/siteapi/internal/service"
	"github.com/petrotech/siteapi/internal/store"
)

// dummyHash is a valid bcrypt hash compared against when the login email is
// unknown, so the unknown-email and wrong-password paths cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AdminHandler implements the admin session endpoints: login, registration,
// and token verification.
type AdminHandler struct {
	store   store.Store
	authSvc *service.AuthService
	logger  *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(s store.Store, authSvc *service.AuthService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{store: s, authSvc: authSvc, logger: logger}
}

// adminPayload is the non-sensitive admin representation returned by the
// session endpoints. The password hash never appears here.
type adminPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toPayload(a *model.Admin) adminPayload {
	return adminPayload{ID: a.ID, Email: a.Email, Name: a.Name}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Admin   adminPayload `json:"admin"`
}

// Login authenticates an admin and returns a session token.
// POST /api/admin/login
//
// Unknown email and wrong password produce byte-identical 401 responses; a
// distinguishable response would leak which of the two failed.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	admin, err := h.store.FindAdminByEmail(r.Context(), model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a comparison so this path costs the same as a mismatch.
			bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(req.Password))
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if !admin.VerifyPassword(req.Password) || !admin.Active {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Best-effort: a failed timestamp update must not block the login.
	if err := h.store.TouchAdminLogin(r.Context(), admin.ID); err != nil {
		h.logger.Warn("failed to record login time", "admin", admin.ID, "error", err)
	}

	token, err := h.authSvc.IssueToken(admin.ID, admin.Email, service.TokenTTL)
	if err != nil {
		h.logger.Error("token issuance failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		Admin:   toPayload(admin),
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string       `json:"message"`
	Admin   adminPayload `json:"admin"`
}

// Register creates a new admin account. No token is issued; the new admin
// logs in separately.
// POST /api/admin/register
func (h *AdminHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	admin, err := model.NewAdmin(req.Email, req.Name, req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := h.store.CreateAdmin(r.Context(), admin); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "Admin with this email already exists")
			return
		}
		h.logger.Error("admin creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "Admin registered successfully",
		Admin:   toPayload(admin),
	})
}

// Verify echoes the identity resolved by the auth middleware. It exists so
// clients can probe whether a stored token is still valid.
// GET /api/admin/verify
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromContext(r.Context())
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Token is valid",
		"admin":   toPayload(admin),
	})
}
