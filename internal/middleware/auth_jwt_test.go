package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	claims := TokenClaims{
		Sub:      "a6f3b2c1-0000-4000-8000-000000000001",
		Email:    "user@example.com",
		Plan:     "pro",
		Exp:      time.Now().Add(time.Hour).Unix(),
		Issuer:   "studio",
		Audience: "studio-clients",
	}
	token, err := signJWT("secret", claims)
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}
	got, err := VerifyJWT("secret", token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if got.Sub != claims.Sub || got.Plan != claims.Plan {
		t.Fatalf("claims mismatch: %+v", got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, _ := signJWT("secret", TokenClaims{Sub: "u1"})
	if _, err := VerifyJWT("other-secret", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	token, _ := signJWT("secret", TokenClaims{Sub: "u1", Exp: time.Now().Add(-time.Minute).Unix()})
	if _, err := VerifyJWT("secret", token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
	})
	handler := AuthJWT("secret")(next)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status = %d", rr.Code)
	}

	token, _ := signJWT("secret", TokenClaims{Sub: "user-42", Exp: time.Now().Add(time.Hour).Unix()})
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d", rr.Code)
	}
	if gotUserID != "user-42" {
		t.Fatalf("user id = %q", gotUserID)
	}
}
