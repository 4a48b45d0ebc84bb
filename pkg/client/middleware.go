package client

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	perrors "github.com/tendant/ministry-portal/pkg/errors"
)

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}

// RenderError writes {"error": message} with the given status
func RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

// RenderServiceError writes a coded error with its mapped status and message.
// Uncoded errors and codes mapping to 5xx are logged and rendered as a
// generic 500 so that no internal detail leaks.
func RenderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var e *perrors.Error
	if !errors.As(err, &e) || e.HTTPStatusCode() >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "code", perrors.GetCode(err), "err", err)
		RenderError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	RenderError(w, r, e.HTTPStatusCode(), e.Message)
}

// RequireSession is an authorization middleware that requires an authenticated session.
// Returns 401 Unauthorized if the request has none.
// Must be used after SessionMiddleware.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r) == nil {
			slog.Debug("Unauthenticated request to protected resource", "path", r.URL.Path)
			RenderServiceError(w, r, perrors.New(perrors.ErrCodeSessionMissing, "Unauthorized"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin requires the effective session to be an administrator.
// Returns 403 Forbidden otherwise, including when there is no session.
// Must be used after SessionMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r)
		if session == nil || !session.IsAdmin {
			if session != nil {
				slog.Warn("Non-admin request to admin resource", "session", session, "path", r.URL.Path)
			}
			RenderServiceError(w, r, perrors.Forbidden("Unauthorized"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
