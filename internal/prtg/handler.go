package prtg

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/socdash/socdash/internal/platform/httpx"
)

// Handler relays device and group operations to PRTG.
type Handler struct {
	logger *slog.Logger
	client *Client
	cache  *TableCache
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, client *Client, cache *TableCache) *Handler {
	return &Handler{logger: logger, client: client, cache: cache}
}

// MountRoutes registers proxy routes. Expected to be mounted under /api.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/devices", h.addDevice)
	r.Get("/devices", h.listDevices)
	r.Put("/devices/{id}", h.renameDevice)
	r.Delete("/devices/{id}", h.deleteDevice)
	r.Get("/groups", h.listGroups)
}

type addDeviceRequest struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	ParentID string `json:"parentId"`
}

type renameDeviceRequest struct {
	NewName string `json:"newName"`
}

type proxyResult struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

func (h *Handler) addDevice(w http.ResponseWriter, r *http.Request) {
	var req addDeviceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Name == "" || req.Host == "" || req.ParentID == "" {
		httpx.Error(w, http.StatusBadRequest, "Name, Host, dan Parent Group ID wajib diisi")
		return
	}
	result, err := h.client.AddDevice(r.Context(), req.Name, req.Host, req.ParentID)
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			// PRTG's own error body goes back to the client untouched.
			httpx.Error(w, http.StatusBadRequest, remote.Body)
			return
		}
		h.logger.Error("add device", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to add device: "+err.Error())
		return
	}
	h.cache.InvalidateDevices(r.Context())
	httpx.JSON(w, http.StatusOK, proxyResult{Success: true, Result: result})
}

func (h *Handler) listDevices(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.cache.Get(r.Context(), cacheKeyDevices); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
		return
	}
	devices, err := h.client.ListDevices(r.Context())
	if err != nil {
		h.logger.Error("list devices", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch devices")
		return
	}
	if devices == nil {
		devices = []Device{}
	}
	payload, err := json.Marshal(devices)
	if err != nil {
		h.logger.Error("encode devices", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch devices")
		return
	}
	h.cache.Set(r.Context(), cacheKeyDevices, payload)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

func (h *Handler) renameDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req renameDeviceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.NewName == "" {
		httpx.Error(w, http.StatusBadRequest, "New name is required")
		return
	}
	result, err := h.client.RenameDevice(r.Context(), id, req.NewName)
	if err != nil {
		h.logger.Error("rename device", slog.String("id", id), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to update device")
		return
	}
	h.cache.InvalidateDevices(r.Context())
	httpx.JSON(w, http.StatusOK, proxyResult{Success: true, Result: result})
}

func (h *Handler) deleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.client.DeleteDevice(r.Context(), id)
	if err != nil {
		h.logger.Error("delete device", slog.String("id", id), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to delete device")
		return
	}
	h.cache.InvalidateDevices(r.Context())
	httpx.JSON(w, http.StatusOK, proxyResult{Success: true, Result: result})
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	if payload, ok := h.cache.Get(r.Context(), cacheKeyGroups); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
		return
	}
	groups, err := h.client.ListGroups(r.Context())
	if err != nil {
		h.logger.Error("list groups", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch groups")
		return
	}
	h.cache.Set(r.Context(), cacheKeyGroups, groups)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(groups)
}
