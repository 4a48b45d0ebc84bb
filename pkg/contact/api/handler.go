package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/ministry-portal/pkg/client"
	"github.com/tendant/ministry-portal/pkg/contact"
)

// SearchResponse is the body of GET /contacts
type SearchResponse struct {
	Contacts []contact.Contact `json:"contacts"`
}

// Handler serves the contact directory to administrators
type Handler struct {
	service *contact.ContactService
}

// NewHandler creates a new contact handler
func NewHandler(service *contact.ContactService) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the contact lookup routes.
// These routes should be mounted behind client.RequireAdmin.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.SearchContacts)
	r.Get("/{contactId}", h.GetContact)
}

// SearchContacts handles GET /contacts?q=&limit=
func (h *Handler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			client.RenderError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	contacts, err := h.service.SearchContacts(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		client.RenderServiceError(w, r, err)
		return
	}
	if contacts == nil {
		contacts = []contact.Contact{}
	}

	render.JSON(w, r, SearchResponse{Contacts: contacts})
}

// GetContact handles GET /contacts/{contactId}
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	contactId, err := strconv.ParseInt(chi.URLParam(r, "contactId"), 10, 64)
	if err != nil || contactId <= 0 {
		client.RenderError(w, r, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	c, err := h.service.GetContact(r.Context(), contactId)
	if err != nil {
		client.RenderServiceError(w, r, err)
		return
	}

	render.JSON(w, r, c)
}
