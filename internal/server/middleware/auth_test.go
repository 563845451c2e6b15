package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator accepts a fixed set of tokens.
type testTokenValidator struct {
	validTokens map[string]Principal
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{validTokens: make(map[string]Principal)}
}

func (v *testTokenValidator) ValidateToken(tokenString string) (Principal, error) {
	p, ok := v.validTokens[tokenString]
	if !ok {
		return Principal{}, fmt.Errorf("invalid token")
	}
	return p, nil
}

func serve(t *testing.T, validator TokenValidator, authHeader string) (*httptest.ResponseRecorder, *Principal) {
	t.Helper()

	var seen *Principal
	handler := AuthMiddleware(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := GetPrincipal(r)
		require.NoError(t, err)
		seen = &p
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/analyses", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	validator := newTestTokenValidator()
	principal := Principal{UserID: uuid.New(), Email: "dev@example.com"}
	validator.validTokens["valid-token"] = principal

	for _, header := range []string{"Bearer valid-token", "bearer valid-token", "BeArEr  valid-token"} {
		w, seen := serve(t, validator, header)
		assert.Equal(t, http.StatusOK, w.Code, header)
		require.NotNil(t, seen)
		assert.Equal(t, principal, *seen)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	validator := newTestTokenValidator()
	validator.validTokens["nil-user"] = Principal{Email: "ghost@example.com"}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"missing Bearer prefix", "token123"},
		{"only Bearer", "Bearer"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"extra parts", "Bearer a b"},
		{"unknown token", "Bearer not.a.valid.jwt"},
		{"token without user", "Bearer nil-user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, seen := serve(t, validator, tt.header)
			assert.Nil(t, seen, "handler should not be called")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
		})
	}
}

func TestGetUserID(t *testing.T) {
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: userID}))

	got, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	userID, err := GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, userID)
	assert.Contains(t, err.Error(), "principal not found")
}

func TestGetPrincipal_InvalidType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), principalKey, "not-a-principal"))

	_, err := GetPrincipal(req)
	assert.Error(t, err)
}
