package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pracsphere/tasks/internal/models"
)

func TestGenerateAndVerifyJWT(t *testing.T) {
	auth := NewAuth("test-secret")

	token, err := auth.GenerateJWT("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateJWT() returned empty token")
	}

	claims, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, "u1")
	}
	if claims.Email != "u1@example.com" {
		t.Errorf("claims.Email = %q, want %q", claims.Email, "u1@example.com")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := NewAuth("secret-one").GenerateJWT("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	if _, err := NewAuth("secret-two").VerifyToken(token); err == nil {
		t.Error("VerifyToken() should fail with a different secret")
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	secret := "test-secret"
	claims := &models.Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := NewAuth(secret).VerifyToken(token); err == nil {
		t.Error("VerifyToken() should fail for an expired token")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	auth := NewAuth("test-secret")

	for _, token := range []string{"", "not.a.token", "eyJhbGciOiJIUzI1NiJ9.invalid"} {
		if _, err := auth.VerifyToken(token); err == nil {
			t.Errorf("VerifyToken(%q) should return error", token)
		}
	}
}

func TestMiddleware_PassesUserIDToHandlers(t *testing.T) {
	auth := NewAuth("test-secret")

	var gotOwner string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := &TaskHandler{}
		owner, err := h.GetOwnerFromContext(r)
		if err != nil {
			t.Errorf("GetOwnerFromContext() error = %v", err)
		}
		gotOwner = owner
	})

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.AddCookie(sessionCookie(t, auth, "u42"))
	w := httptest.NewRecorder()
	auth.Middleware(inner).ServeHTTP(w, req)

	if gotOwner != "u42" {
		t.Errorf("handler saw owner %q, want %q", gotOwner, "u42")
	}
}

func TestMiddleware_RejectsMissingCookie(t *testing.T) {
	auth := NewAuth("test-secret")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a session")
	})

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()
	auth.Middleware(inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLogout_ClearsSessionCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	w := httptest.NewRecorder()
	Logout(w, req)

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "session_token" && c.MaxAge < 0 && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Error("Logout() did not clear the session_token cookie")
	}
}
