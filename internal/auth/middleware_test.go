package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var seenEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenEmail = AdminEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AdminAuthMiddleware(next)

	valid := signToken(t, "test-secret", jwt.MapClaims{
		"email": "admin@bigman.com.br",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, "test-secret", jwt.MapClaims{
		"email": "admin@bigman.com.br",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"email": "admin@bigman.com.br",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "expired token", authHeader: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong signing key", authHeader: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenEmail = ""
			req := httptest.NewRequest(http.MethodGet, "/admin/appointments", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "admin@bigman.com.br", seenEmail)
			}
		})
	}
}
