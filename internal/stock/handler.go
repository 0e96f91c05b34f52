package stock

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/paletar/paletar/internal/platform/httpx"
	"github.com/paletar/paletar/internal/rbac"
	"github.com/paletar/paletar/internal/shared"
)

// Handler exposes the stock ledger HTTP API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	guard    rbac.Middleware
}

// NewHandler constructs the stock handler.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		guard:    guard,
	}
}

// MountRoutes registers stock routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(rbac.DomainStock, rbac.Read)).Get("/", h.Overview)
	r.With(h.guard.Require(rbac.DomainStock, rbac.Read)).Get("/{id}", h.Show)
	r.With(h.guard.Require(rbac.DomainStock, rbac.Update)).Post("/{id}/adjust", h.Adjust)
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.Error("stock overview failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stock": overview})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}

	allocated, err := h.service.AllocatedStock(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	available, err := h.service.AvailableStock(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	critical, err := h.service.IsAlertThreshold(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"product_id": id,
		"allocated":  allocated,
		"available":  available,
		"critical":   critical,
	})
}

func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}

	var req AdjustRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.AdjustRecordedStock(r.Context(), id, req.Delta); err != nil {
		h.logger.Error("stock adjust failed", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "adjusted"})
}
