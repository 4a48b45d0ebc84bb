package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/ministry-portal/pkg/client"
	"github.com/tendant/ministry-portal/pkg/contact"
)

type failingRepository struct{}

func (failingRepository) GetContact(ctx context.Context, contactId int64) (contact.Contact, error) {
	return contact.Contact{}, errors.New("connection reset")
}

func (failingRepository) SearchContacts(ctx context.Context, query string, limit int) ([]contact.Contact, error) {
	return nil, errors.New("connection reset")
}

func newTestRouter(repo contact.ContactRepository) http.Handler {
	r := chi.NewRouter()
	r.Route("/contacts", NewHandler(contact.NewContactService(repo)).RegisterRoutes)
	return r
}

func TestSearchContacts(t *testing.T) {
	repo := contact.NewInMemoryContactRepository(
		contact.Contact{ContactId: 7, UserId: "99", DisplayName: "Ruth Miller", Roles: []string{"member"}},
		contact.Contact{ContactId: 8, DisplayName: "Boaz Miller"},
		contact.Contact{ContactId: 9, DisplayName: "Naomi Ellis"},
	)
	router := newTestRouter(repo)

	tests := []struct {
		name         string
		target       string
		expectStatus int
		expectIds    []int64
		expectError  string
	}{
		{name: "match by name", target: "/contacts?q=miller", expectStatus: http.StatusOK, expectIds: []int64{8, 7}},
		{name: "limit applied", target: "/contacts?q=miller&limit=1", expectStatus: http.StatusOK, expectIds: []int64{8}},
		{name: "no match", target: "/contacts?q=jonah", expectStatus: http.StatusOK, expectIds: []int64{}},
		{name: "missing query", target: "/contacts", expectStatus: http.StatusBadRequest, expectError: "search query is required"},
		{name: "bad limit", target: "/contacts?q=miller&limit=ten", expectStatus: http.StatusBadRequest, expectError: "Invalid limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.expectStatus, rec.Code)

			if tt.expectError != "" {
				var body client.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectError, body.Error)
				return
			}

			var body SearchResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			ids := []int64{}
			for _, c := range body.Contacts {
				ids = append(ids, c.ContactId)
			}
			assert.Equal(t, tt.expectIds, ids)
		})
	}
}

func TestGetContact(t *testing.T) {
	router := newTestRouter(contact.NewInMemoryContactRepository(
		contact.Contact{ContactId: 7, UserId: "99", DisplayName: "Ruth Miller"},
	))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"contactId":7,"userId":"99","displayName":"Ruth Miller"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/8", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRepositoryFailureIsGeneric(t *testing.T) {
	router := newTestRouter(failingRepository{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts?q=miller", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
