package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/ministry-portal/pkg/client"
	"github.com/tendant/ministry-portal/pkg/config"
	"github.com/tendant/ministry-portal/pkg/simulation"
)

func newTestRouter(appEnv string, session *client.Session) http.Handler {
	h := NewHandle(simulation.NewService(simulation.NewCookieStore(config.CookieConfig{AppEnv: appEnv})))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session != nil {
				r = r.WithContext(client.WithSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Route("/api/admin/simulation", h.RegisterRoutes)
	return r
}

func findCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == simulation.CookieName {
			return c
		}
	}
	return nil
}

func TestImpersonate(t *testing.T) {
	admin := &client.Session{UserId: "42", IsAdmin: true}
	member := &client.Session{UserId: "1"}

	tests := []struct {
		name         string
		session      *client.Session
		body         string
		expectStatus int
		expectBody   string
	}{
		{name: "admin", session: admin, body: `{"contactId":7}`, expectStatus: http.StatusOK, expectBody: `{"success":true}`},
		{name: "no session", session: nil, body: `{"contactId":7}`, expectStatus: http.StatusForbidden, expectBody: `{"error":"Unauthorized"}`},
		{name: "member", session: member, body: `{"contactId":7}`, expectStatus: http.StatusForbidden, expectBody: `{"error":"Unauthorized"}`},
		{name: "member without contact", session: member, body: `{}`, expectStatus: http.StatusForbidden, expectBody: `{"error":"Unauthorized"}`},
		{name: "missing contact", session: admin, body: `{}`, expectStatus: http.StatusBadRequest, expectBody: `{"error":"Contact ID is required"}`},
		{name: "zero contact", session: admin, body: `{"contactId":0}`, expectStatus: http.StatusBadRequest, expectBody: `{"error":"Contact ID is required"}`},
		{name: "empty body", session: admin, body: ``, expectStatus: http.StatusBadRequest, expectBody: `{"error":"Contact ID is required"}`},
		{name: "malformed body", session: admin, body: `{"contactId":`, expectStatus: http.StatusBadRequest, expectBody: `{"error":"Invalid request body"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/simulation/impersonate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			newTestRouter("development", tt.session).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectStatus, rec.Code)
			assert.JSONEq(t, tt.expectBody, rec.Body.String())
			if tt.expectStatus != http.StatusOK {
				assert.Nil(t, findCookie(rec), "no cookie on failure")
			}
		})
	}
}

func TestImpersonateCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/simulation/impersonate", strings.NewReader(`{"contactId":7}`))
	rec := httptest.NewRecorder()
	newTestRouter("production", &client.Session{UserId: "42", IsAdmin: true}).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := findCookie(rec)
	require.NotNil(t, cookie)
	value, err := url.QueryUnescape(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"impersonate","contactId":7,"adminUserId":"42"}`, value)
	assert.Equal(t, 14400, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestClear(t *testing.T) {
	tests := []struct {
		name         string
		session      *client.Session
		expectStatus int
		expectBody   string
	}{
		{name: "admin", session: &client.Session{UserId: "42", IsAdmin: true}, expectStatus: http.StatusOK, expectBody: `{"success":true}`},
		{
			name:         "simulating non-admin",
			session:      &client.Session{UserId: "99", Simulation: client.Impersonation{ContactId: 7, OriginalUserId: "42"}},
			expectStatus: http.StatusOK,
			expectBody:   `{"success":true}`,
		},
		{name: "member", session: &client.Session{UserId: "1"}, expectStatus: http.StatusForbidden, expectBody: `{"error":"Unauthorized"}`},
		{name: "no session", session: nil, expectStatus: http.StatusForbidden, expectBody: `{"error":"Unauthorized"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/simulation/clear", nil)
			req.AddCookie(&http.Cookie{Name: simulation.CookieName, Value: "x"})
			rec := httptest.NewRecorder()

			newTestRouter("development", tt.session).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectStatus, rec.Code)
			assert.JSONEq(t, tt.expectBody, rec.Body.String())

			cookie := findCookie(rec)
			if tt.expectStatus == http.StatusOK {
				require.NotNil(t, cookie)
				assert.Equal(t, -1, cookie.MaxAge)
			} else {
				assert.Nil(t, cookie)
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name         string
		session      *client.Session
		expectStatus int
		expectBody   string
	}{
		{name: "not simulating", session: &client.Session{UserId: "42", IsAdmin: true}, expectStatus: http.StatusOK, expectBody: `{"active":false}`},
		{
			name:         "impersonating",
			session:      &client.Session{UserId: "99", Simulation: client.Impersonation{ContactId: 7, OriginalUserId: "42"}},
			expectStatus: http.StatusOK,
			expectBody:   `{"active":true,"type":"impersonate","contactId":7,"originalUserId":"42"}`,
		},
		{name: "no session", session: nil, expectStatus: http.StatusForbidden, expectBody: `{"error":"Unauthorized"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newTestRouter("development", tt.session).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/simulation", nil))

			assert.Equal(t, tt.expectStatus, rec.Code)
			assert.JSONEq(t, tt.expectBody, rec.Body.String())
		})
	}
}
