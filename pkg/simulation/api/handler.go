package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/tendant/ministry-portal/pkg/client"
	"github.com/tendant/ministry-portal/pkg/simulation"
)

// ImpersonateRequest is the body of POST /impersonate
type ImpersonateRequest struct {
	ContactId int64 `json:"contactId" validate:"required"`
}

// SuccessResponse acknowledges a simulation change
type SuccessResponse struct {
	Success bool `json:"success"`
}

// StatusResponse describes the simulation of the current request
type StatusResponse struct {
	Active         bool                  `json:"active"`
	Type           client.SimulationType `json:"type,omitempty"`
	ContactId      int64                 `json:"contactId,omitempty"`
	OriginalUserId string                `json:"originalUserId,omitempty"`
}

// Handle serves the admin simulation routes
type Handle struct {
	service   *simulation.Service
	validator *validator.Validate
}

// NewHandle creates a new simulation handler
func NewHandle(service *simulation.Service) *Handle {
	return &Handle{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers the simulation routes. The routes check the
// session themselves, so they must not be mounted behind RequireSession.
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Get("/", h.GetStatus)
	r.Post("/impersonate", h.Impersonate)
	r.Post("/clear", h.Clear)
}

// Impersonate handles POST /impersonate
func (h *Handle) Impersonate(w http.ResponseWriter, r *http.Request) {
	session := client.GetSession(r)
	if !simulation.CanStartSimulation(session) {
		if session != nil {
			slog.Warn("Simulation start refused", "session", session)
		}
		client.RenderError(w, r, http.StatusForbidden, simulation.MessageUnauthorized)
		return
	}

	var req ImpersonateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Failed to decode request body", "err", err)
		client.RenderError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		client.RenderError(w, r, http.StatusBadRequest, simulation.MessageContactIdRequired)
		return
	}

	if err := h.service.StartImpersonation(r.Context(), w, session, req.ContactId); err != nil {
		client.RenderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, SuccessResponse{Success: true})
}

// Clear handles POST /clear
func (h *Handle) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), w, client.GetSession(r)); err != nil {
		client.RenderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, SuccessResponse{Success: true})
}

// GetStatus handles GET / and reports the simulation applied to this request
func (h *Handle) GetStatus(w http.ResponseWriter, r *http.Request) {
	session := client.GetSession(r)
	if session == nil {
		client.RenderError(w, r, http.StatusForbidden, simulation.MessageUnauthorized)
		return
	}

	resp := StatusResponse{Active: session.IsSimulating()}
	if session.Simulation != nil {
		resp.Type = session.Simulation.SimulationType()
	}
	if imp, ok := session.Impersonation(); ok {
		resp.ContactId = imp.ContactId
		resp.OriginalUserId = imp.OriginalUserId
	}
	render.JSON(w, r, resp)
}
