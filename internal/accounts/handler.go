package accounts

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/socdash/socdash/internal/platform/httpx"
	"github.com/socdash/socdash/internal/shared"
)

// Handler wires the lifecycle endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers lifecycle routes. Expected to be mounted under /api.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/invitation", h.createInvitation)
	r.Post("/activate", h.activate)
	r.Post("/free-trial", h.createFreeTrial)
	r.Post("/payment", h.createPaidInvitation)
	r.Get("/user", h.listUsers)
	r.Delete("/user/{id}", h.deleteUser)
}

type invitationRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type activateRequest struct {
	Token    string `json:"token" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type freeTrialRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) createInvitation(w http.ResponseWriter, r *http.Request) {
	var req invitationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		httpx.Error(w, http.StatusBadRequest, "Email and role are required")
		return
	}
	if err := h.service.CreateInvitation(r.Context(), req.Email, req.Role); err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			httpx.Error(w, http.StatusBadRequest, "Email already invited")
			return
		}
		h.logger.Error("create invitation", slog.String("email", req.Email), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to send invitation")
		return
	}
	httpx.Success(w, "Invitation sent successfully")
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		httpx.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if err := h.service.Activate(r.Context(), req.Token, req.Username, req.Password, req.Name); err != nil {
		if !errors.Is(err, shared.ErrInvalidToken) {
			h.logger.Error("activate account", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.Success(w, "")
}

func (h *Handler) createFreeTrial(w http.ResponseWriter, r *http.Request) {
	var req freeTrialRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		httpx.Error(w, http.StatusBadRequest, "Email is required")
		return
	}
	if err := h.service.CreateFreeTrial(r.Context(), req.Email); err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			httpx.RespondError(w, err)
			return
		}
		h.logger.Error("create free trial", slog.String("email", req.Email), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to create trial invitation")
		return
	}
	httpx.Success(w, "Trial invitation sent")
}

func (h *Handler) createPaidInvitation(w http.ResponseWriter, r *http.Request) {
	var req invitationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || h.validate.Struct(req) != nil {
		httpx.Error(w, http.StatusBadRequest, "Email and role are required")
		return
	}
	if err := h.service.CreatePaidInvitation(r.Context(), req.Email, req.Role); err != nil {
		if errors.Is(err, shared.ErrEmailTaken) {
			httpx.Error(w, http.StatusBadRequest, "Email already registered")
			return
		}
		h.logger.Error("paid invitation", slog.String("email", req.Email), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Payment processing failed")
		return
	}
	httpx.Success(w, "Payment successful, invitation sent")
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if users == nil {
		users = []Summary{}
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		// The reference surfaces a missing row the same way as a store failure.
		h.logger.Error("delete user", slog.String("id", id.String()), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	httpx.Success(w, "User deleted successfully")
}
