package httpx

import (
	"errors"
	"net/http"

	"github.com/socdash/socdash/internal/shared"
)

// RespondError maps domain sentinels to their wire status and message.
// Anything unrecognized is masked as a 500; callers log those before
// handing off. Missing rows carry no sentinel mapping here because the
// endpoints that hit them report endpoint-specific failures instead.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrEmailTaken), errors.Is(err, shared.ErrInvalidToken):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrUserNotFound), errors.Is(err, shared.ErrNoPassword), errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
