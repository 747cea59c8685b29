package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/petrotech/siteapi/internal/model"
	"github.com/petrotech/siteapi/internal/service"
	"github.com/petrotech/siteapi/internal/store"
)

// ---------------------------------------------------------------------------
// RequestID middleware tests
// ---------------------------------------------------------------------------

func TestRequestIDGeneratesUUID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetRequestID(r.Context()) == "" {
			t.Error("expected non-empty request ID in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	respID := rr.Header().Get("X-Request-ID")
	if respID == "" {
		t.Error("expected X-Request-ID in response header")
	}
	if len(respID) != 36 {
		t.Errorf("expected UUID-length request ID, got %q (len=%d)", respID, len(respID))
	}
}

func TestRequestIDPreservesClientID(t *testing.T) {
	clientID := "my-custom-trace-id-123"

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := GetRequestID(r.Context()); id != clientID {
			t.Errorf("expected context ID %q, got %q", clientID, id)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", clientID)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if respID := rr.Header().Get("X-Request-ID"); respID != clientID {
		t.Errorf("expected response X-Request-ID %q, got %q", clientID, respID)
	}
}

func TestGetRequestIDEmptyContext(t *testing.T) {
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("expected empty string from bare context, got %q", id)
	}
}

// ---------------------------------------------------------------------------
// Authenticate middleware tests
// ---------------------------------------------------------------------------

func authFixture(t *testing.T) (*service.AuthService, *store.Memory, *model.Admin) {
	t.Helper()
	authSvc := service.NewAuthService("gate-test-secret")
	s := store.NewMemory()
	admin, err := model.NewAdmin("admin@example.com", "Admin", "admin123")
	if err != nil {
		t.Fatalf("NewAdmin: %v", err)
	}
	if err := s.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	return authSvc, s, admin
}

func gateRequest(t *testing.T, authSvc *service.AuthService, s store.Store, authHeader string) (*httptest.ResponseRecorder, *model.Admin) {
	t.Helper()
	var resolved *model.Admin
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = AdminFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/admin/verify", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	Authenticate(authSvc, s)(inner).ServeHTTP(rr, req)
	return rr, resolved
}

func TestAuthenticateAdmitsValidToken(t *testing.T) {
	authSvc, s, admin := authFixture(t)

	token, err := authSvc.IssueToken(admin.ID, admin.Email, service.TokenTTL)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	rr, resolved := gateRequest(t, authSvc, s, "Bearer "+token)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if resolved == nil {
		t.Fatal("expected admin in request context")
	}
	if resolved.ID != admin.ID {
		t.Errorf("resolved admin ID = %q, want %q", resolved.ID, admin.ID)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	authSvc, s, admin := authFixture(t)

	expired, err := authSvc.IssueToken(admin.ID, admin.Email, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	unknown, err := authSvc.IssueToken("no-such-admin", "ghost@example.com", service.TokenTTL)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc123"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"unknown identity", "Bearer " + unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, resolved := gateRequest(t, authSvc, s, tt.header)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rr.Code)
			}
			if resolved != nil {
				t.Error("rejected request must not reach the handler")
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("rejection body is not JSON: %v", err)
			}
			if body["message"] == "" {
				t.Error("rejection body missing message")
			}
		})
	}
}

func TestAuthenticateRejectsDeactivatedAdmin(t *testing.T) {
	authSvc, _, admin := authFixture(t)

	token, err := authSvc.IssueToken(admin.ID, admin.Email, service.TokenTTL)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Deactivate after the token was issued.
	admin.Active = false
	s2 := store.NewMemory()
	if err := s2.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	rr, _ := gateRequest(t, authSvc, s2, "Bearer "+token)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for deactivated admin", rr.Code)
	}
}

func TestAdminFromContextEmpty(t *testing.T) {
	if a := AdminFromContext(context.Background()); a != nil {
		t.Errorf("expected nil admin from bare context, got %+v", a)
	}
}
