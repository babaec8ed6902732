package sensors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socdash/socdash/internal/platform/httpx"
)

// Handler exposes the sensor read endpoints.
type Handler struct {
	logger *slog.Logger
	repo   Repository
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers sensor routes. Expected to be mounted under /api.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sensors", h.listSensors)
	r.Get("/sensor_logs", h.listLogs)
	r.Get("/sla-logs", h.listSLALogs)
}

func (h *Handler) listSensors(w http.ResponseWriter, r *http.Request) {
	sensors, err := h.repo.ListSensors(r.Context())
	if err != nil {
		h.logger.Error("list sensors", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch sensors")
		return
	}
	if sensors == nil {
		sensors = []Sensor{}
	}
	httpx.JSON(w, http.StatusOK, sensors)
}

func (h *Handler) listLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.repo.ListLogs(r.Context())
	if err != nil {
		h.logger.Error("list sensor logs", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch sensor logs")
		return
	}
	if logs == nil {
		logs = []LogEntry{}
	}
	httpx.JSON(w, http.StatusOK, logs)
}

func (h *Handler) listSLALogs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.ListSLALogs(r.Context())
	if err != nil {
		h.logger.Error("list sla logs", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch SLA logs")
		return
	}
	if entries == nil {
		entries = []SLAEntry{}
	}
	httpx.JSON(w, http.StatusOK, entries)
}
