package auth

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/socdash/socdash/internal/platform/httpx"
	"github.com/socdash/socdash/internal/shared"
	"github.com/socdash/socdash/internal/userlog"
)

// Handler wires the login and logout endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	logs     *userlog.Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, logs *userlog.Service) *Handler {
	return &Handler{logger: logger, service: service, logs: logs, validate: validator.New()}
}

// MountRoutes registers auth routes at the router root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	UserAgent string `json:"userAgent"`
}

type loginResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type logoutRequest struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	UserAgent string    `json:"userAgent"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		httpx.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	cred, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrUserNotFound) &&
			!errors.Is(err, shared.ErrNoPassword) &&
			!errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("login", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	entry := userlog.Entry{
		UserID:    cred.ID,
		Username:  cred.Username,
		Action:    userlog.ActionLogin,
		IP:        clientIP(r),
		UserAgent: userAgent(req.UserAgent, r),
	}
	if err := h.logs.Record(r.Context(), entry); err != nil {
		// A failed append fails the whole login, matching the reference.
		h.logger.Error("record login", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	email := ""
	if cred.Email != nil {
		email = *cred.Email
	}
	httpx.JSON(w, http.StatusOK, loginResponse{
		ID:    cred.ID,
		Name:  cred.Username,
		Email: email,
		Role:  cred.Role,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.UserID == uuid.Nil || req.Username == "" {
		httpx.Error(w, http.StatusBadRequest, "User ID and username are required")
		return
	}

	entry := userlog.Entry{
		UserID:    req.UserID,
		Username:  req.Username,
		Action:    userlog.ActionLogout,
		IP:        clientIP(r),
		UserAgent: userAgent(req.UserAgent, r),
	}
	if err := h.logs.Record(r.Context(), entry); err != nil {
		h.logger.Error("record logout", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	httpx.Success(w, "User logged out")
}

// clientIP strips the port left on RemoteAddr after the RealIP middleware ran.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func userAgent(fromBody string, r *http.Request) string {
	if fromBody != "" {
		return fromBody
	}
	return r.UserAgent()
}
