package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/paletar/paletar/internal/auth"
	"github.com/paletar/paletar/internal/catalog"
	"github.com/paletar/paletar/internal/dashboard"
	"github.com/paletar/paletar/internal/distributors"
	"github.com/paletar/paletar/internal/orders"
	"github.com/paletar/paletar/internal/shared"
	"github.com/paletar/paletar/internal/stock"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SessionManager     *shared.SessionManager
	AuthHandler        *auth.Handler
	CatalogHandler     *catalog.Handler
	DistributorHandler *distributors.Handler
	OrderHandler       *orders.Handler
	StockHandler       *stock.Handler
	DashboardHandler   *dashboard.Handler
}

// NewRouter constructs the chi.Router with Paletar defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/products", params.CatalogHandler.MountRoutes)
	r.Route("/distributors", params.DistributorHandler.MountRoutes)
	r.Route("/orders", params.OrderHandler.MountRoutes)
	r.Route("/stock", params.StockHandler.MountRoutes)
	r.Route("/dashboard", params.DashboardHandler.MountRoutes)

	return r
}
