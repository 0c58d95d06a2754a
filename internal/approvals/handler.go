package approvals

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
)

// Handler wires HTTP endpoints for the approval queue.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs approvals handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers the request endpoint. Any authenticated user
// may ask for a deletion.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/request", h.handleRequest)
}

// MountReviewRoutes registers the queue review endpoints. Callers
// mount these behind an admin gate.
func (h *Handler) MountReviewRoutes(r chi.Router) {
	r.Get("/pending", h.handleListPending)
	r.Post("/resolve", h.handleResolve)
}

type requestPayload struct {
	Resource Resource `json:"resource" validate:"required,oneof=transaction inventoryItem supplier"`
	ID       string   `json:"id" validate:"required"`
}

type resolvePayload struct {
	Resource Resource `json:"resource" validate:"required,oneof=transaction inventoryItem supplier"`
	ID       string   `json:"id" validate:"required"`
	Decision Decision `json:"decision" validate:"required,oneof=approve reject"`
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	items, err := h.service.ListPending(r.Context(), actor)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"pending": items})
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req requestPayload
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.RequestDeletion(r.Context(), actor, req.Resource, req.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"status": "pending"})
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req resolvePayload
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Resolve(r.Context(), actor, req.Resource, req.ID, req.Decision); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "resolved"})
}
