package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"confhub/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signedToken(t *testing.T, userID string, roles []string) string {
	t.Helper()
	claims := Claims{
		Username: "tester",
		UserID:   userID,
		Role:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	called := false
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest(http.MethodGet, "/api/bookings/b1", nil)
	w := httptest.NewRecorder()
	h(w, r, nil)

	if called {
		t.Fatal("handler ran without a token")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticateRejectsUpgradeHeadersWithoutToken(t *testing.T) {
	called := false
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest(http.MethodGet, "/api/bookings/b1", nil)
	r.Header.Set("Connection", "Upgrade")
	r.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	h(w, r, nil)

	if called {
		t.Fatal("upgrade headers bypassed authentication")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticatePopulatesContext(t *testing.T) {
	var gotID string
	var gotRoles []string
	h := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotID = UserIDFromContext(r.Context())
		gotRoles = RolesFromContext(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, "u42", []string{"admin"}))
	w := httptest.NewRecorder()
	h(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if gotID != "u42" {
		t.Fatalf("user id = %q, want u42", gotID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "admin" {
		t.Fatalf("roles = %v, want [admin]", gotRoles)
	}
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	h := RequireRole(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler ran without the required role")
	}, "admin")

	r := httptest.NewRequest(http.MethodDelete, "/api/rooms/r1", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, "u42", []string{"user"}))
	w := httptest.NewRecorder()
	h(w, r, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestValidateJWTRequiresBearerPrefix(t *testing.T) {
	raw := signedToken(t, "u42", nil)

	if _, err := ValidateJWT(raw); err == nil {
		t.Fatal("expected error for token without Bearer prefix")
	}

	claims, err := ValidateJWT("Bearer " + raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "u42" {
		t.Fatalf("user id = %q, want u42", claims.UserID)
	}
}
