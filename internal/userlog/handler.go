package userlog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socdash/socdash/internal/platform/httpx"
)

// Handler exposes the user log listing.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers user log routes. Expected to be mounted under /api.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/user-logs", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list user logs", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch user logs")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}
