package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-secret")

func signed(t *testing.T, key []byte, username, role string, expires time.Time) string {
	t.Helper()
	claims := &Claims{
		Username: username,
		UserHash: UserHashFromUsername(username, key),
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func serve(t *testing.T, header string, mws ...echo.MiddlewareFunc) (int, string) {
	t.Helper()
	e := echo.New()
	var role string
	e.GET("/x", func(c echo.Context) error {
		role, _ = c.Get("role").(string)
		return c.NoContent(http.StatusOK)
	}, mws...)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, role
}

func TestJWT(t *testing.T) {
	valid := signed(t, testKey, "judge1", "judge", time.Now().Add(time.Hour))
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "not-a-token", http.StatusUnauthorized},
		{"wrong key", signed(t, []byte("other"), "judge1", "judge", time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", signed(t, testKey, "judge1", "judge", time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"valid", valid, http.StatusOK},
		{"valid bearer", "Bearer " + valid, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := serve(t, tc.header, JWT(testKey))
			if code != tc.want {
				t.Fatalf("got status %d, want %d", code, tc.want)
			}
		})
	}
}

func TestJWTSetsRole(t *testing.T) {
	code, role := serve(t, signed(t, testKey, "chief", "admin", time.Now().Add(time.Hour)), JWT(testKey))
	if code != http.StatusOK || role != "admin" {
		t.Fatalf("got status %d role %q", code, role)
	}
}

func TestRequireRole(t *testing.T) {
	viewer := signed(t, testKey, "fan", "viewer", time.Now().Add(time.Hour))
	judge := signed(t, testKey, "judge1", "judge", time.Now().Add(time.Hour))

	if code, _ := serve(t, viewer, JWT(testKey), RequireRole("judge", "admin")); code != http.StatusForbidden {
		t.Fatalf("viewer: got status %d", code)
	}
	if code, _ := serve(t, judge, JWT(testKey), RequireRole("judge", "admin")); code != http.StatusOK {
		t.Fatalf("judge: got status %d", code)
	}
}
