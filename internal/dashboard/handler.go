package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/paletar/paletar/internal/platform/httpx"
	"github.com/paletar/paletar/internal/rbac"
)

// Handler exposes the KPI dashboard.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Middleware
}

// NewHandler constructs the dashboard handler.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers dashboard routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(rbac.DomainDashboard, rbac.Read)).Get("/", h.Summary)
	r.With(h.guard.Require(rbac.DomainDashboard, rbac.Manage)).Post("/refresh", h.Refresh)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("dashboard summary failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.service.Invalidate(r.Context())
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("dashboard refresh failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
