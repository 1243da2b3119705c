// Package handler exposes the session selection state over HTTP: the active
// network, the wizard step, and the selected tab.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vocert/internal/network"
	"vocert/internal/platform/middleware"
	"vocert/internal/session"
	respond "vocert/internal/transport/http/json"
	"vocert/internal/transport/http/shared"
	dErrors "vocert/pkg/domain-errors"
)

// Handler handles session state endpoints.
type Handler struct {
	logger *slog.Logger
	state  *session.State
}

// New creates a new session Handler.
func New(state *session.State, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, state: state}
}

// Register registers the session routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/session", h.handleGet)
	r.Put("/session", h.handleUpdate)
}

// Response is the session state as returned to clients.
type Response struct {
	Step    int    `json:"step"`
	Tab     string `json:"tab"`
	Network string `json:"network"`
}

// UpdateRequest carries a partial session update; absent fields keep their
// current value.
type UpdateRequest struct {
	Step    *int    `json:"step,omitempty"`
	Tab     *string `json:"tab,omitempty"`
	Network *string `json:"network,omitempty"`
}

// Validate checks that the requested selections are known values.
func (r *UpdateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Step != nil && *r.Step < 0 {
		return dErrors.New(dErrors.CodeValidation, "step cannot be negative")
	}
	if r.Tab != nil {
		switch *r.Tab {
		case session.TabIssue, session.TabWallet, session.TabVerify:
		default:
			return dErrors.New(dErrors.CodeValidation, "unknown tab: "+*r.Tab)
		}
	}
	if r.Network != nil {
		if _, err := network.Parse(*r.Network); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.snapshot())
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode session update",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	if req.Step != nil {
		h.state.SetStep(*req.Step)
	}
	if req.Tab != nil {
		h.state.SetTab(*req.Tab)
	}
	if req.Network != nil {
		net, _ := network.Parse(*req.Network)
		h.state.SetNetwork(net)
	}

	respond.WriteJSON(w, http.StatusOK, h.snapshot())
}

func (h *Handler) snapshot() Response {
	return Response{
		Step:    h.state.Step(),
		Tab:     h.state.Tab(),
		Network: h.state.Network().String(),
	}
}
