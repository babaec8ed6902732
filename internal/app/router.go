package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/socdash/socdash/internal/accounts"
	"github.com/socdash/socdash/internal/auth"
	"github.com/socdash/socdash/internal/prtg"
	"github.com/socdash/socdash/internal/sensors"
	"github.com/socdash/socdash/internal/userlog"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AuthHandler     *auth.Handler
	AccountsHandler *accounts.Handler
	UserLogHandler  *userlog.Handler
	PRTGHandler     *prtg.Handler
	SensorsHandler  *sensors.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Login and logout live at the root, everything else under /api.
	params.AuthHandler.MountRoutes(r)

	r.Route("/api", func(r chi.Router) {
		params.AccountsHandler.MountRoutes(r)
		params.UserLogHandler.MountRoutes(r)
		if params.PRTGHandler != nil {
			params.PRTGHandler.MountRoutes(r)
		}
		if params.SensorsHandler != nil {
			params.SensorsHandler.MountRoutes(r)
		}
	})

	return r
}
