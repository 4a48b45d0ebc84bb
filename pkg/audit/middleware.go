// Package audit records requests served under a simulated identity so that
// actions can be attributed to the administrator behind them.
package audit

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tendant/ministry-portal/pkg/client"
)

// AuditEvent represents an audit event
type AuditEvent struct {
	ID           string
	RequestID    string
	AdminUserId  string
	ActingUserId string
	ContactId    int64
	URI          string
	Method       string
	Status       int
	Timestamp    time.Time
	Metadata     map[string]interface{}
}

// Sink receives audit events
type Sink interface {
	Record(ctx context.Context, event AuditEvent)
}

// SlogSink writes audit events to a logger
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) Record(ctx context.Context, event AuditEvent) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Simulated request",
		"audit_id", event.ID,
		"request_id", event.RequestID,
		"admin_user_id", event.AdminUserId,
		"acting_user_id", event.ActingUserId,
		"contact_id", event.ContactId,
		"method", event.Method,
		"uri", event.URI,
		"status", event.Status,
		"timestamp", event.Timestamp.Format(time.RFC3339),
		"metadata", event.Metadata)
}

// Config holds the configuration for the audit middleware
type Config struct {
	Sink Sink
}

// Middleware handles HTTP request auditing
type Middleware struct {
	config Config
}

// NewMiddleware creates a new audit middleware instance
func NewMiddleware(config Config) *Middleware {
	if config.Sink == nil {
		config.Sink = SlogSink{}
	}
	return &Middleware{
		config: config,
	}
}

// AuditSimulationMiddleware records every request whose effective session is
// an impersonation. Must be used after the simulation overlay middleware.
func (m *Middleware) AuditSimulationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		imp, ok := client.GetSession(r).Impersonation()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event := AuditEvent{
			ID:           uuid.NewString(),
			RequestID:    middleware.GetReqID(r.Context()),
			AdminUserId:  imp.OriginalUserId,
			ActingUserId: client.GetSession(r).UserId,
			ContactId:    imp.ContactId,
			URI:          r.RequestURI,
			Method:       r.Method,
			Status:       ww.Status(),
			Timestamp:    time.Now(),
		}
		// route pattern is only complete once the router has matched
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			event = event.WithMetadata("route", rctx.RoutePattern())
		}
		if ua := r.UserAgent(); ua != "" {
			event = event.WithMetadata("user_agent", ua)
		}
		m.config.Sink.Record(r.Context(), event)
	})
}

// WithMetadata adds metadata to the audit event
func (e AuditEvent) WithMetadata(key string, value interface{}) AuditEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}
