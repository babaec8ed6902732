package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/socdash/socdash/internal/shared"
)

func TestRespondError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"duplicate email", shared.ErrEmailTaken, http.StatusBadRequest, "Email already exists"},
		{"invalid token", shared.ErrInvalidToken, http.StatusBadRequest, "Invalid or expired token"},
		{"unknown user", shared.ErrUserNotFound, http.StatusUnauthorized, "User not found"},
		{"no password", shared.ErrNoPassword, http.StatusUnauthorized, "User has no password set"},
		{"bad credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"wrapped sentinel", errors.Join(errors.New("query"), shared.ErrInvalidToken), http.StatusBadRequest, "Invalid or expired token"},
		{"unexpected", errors.New("db down"), http.StatusInternalServerError, "Internal server error"},
		// Missing rows have no 404 mapping; endpoints that hit them
		// report their own failure message before reaching here.
		{"missing row", shared.ErrNotFound, http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := httptest.NewRecorder()
			RespondError(res, tc.err)
			if res.Code != tc.status {
				t.Fatalf("status = %d, want %d", res.Code, tc.status)
			}
			if !strings.Contains(res.Body.String(), tc.message) {
				t.Fatalf("body = %s, want %q", res.Body.String(), tc.message)
			}
		})
	}
}
