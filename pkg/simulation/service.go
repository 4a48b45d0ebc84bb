package simulation

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tendant/ministry-portal/pkg/client"
	perrors "github.com/tendant/ministry-portal/pkg/errors"
)

const (
	MessageUnauthorized      = "Unauthorized"
	MessageContactIdRequired = "Contact ID is required"
)

// Service starts and clears simulations for the effective request session
type Service struct {
	store *CookieStore
}

// NewService creates a new simulation service
func NewService(store *CookieStore) *Service {
	return &Service{store: store}
}

// StartImpersonation writes the simulation cookie making the admin act as
// contactId from the next request on. Any running simulation is replaced.
func (s *Service) StartImpersonation(ctx context.Context, w http.ResponseWriter, session *client.Session, contactId int64) error {
	if !CanStartSimulation(session) {
		return perrors.Forbidden(MessageUnauthorized)
	}
	if contactId == 0 {
		return perrors.MissingRequired("contactId", MessageContactIdRequired)
	}

	adminUserId := session.UserId
	if imp, ok := session.Impersonation(); ok {
		// the admin restarted from inside a simulation whose target is also an admin
		adminUserId = imp.OriginalUserId
	}

	if err := s.store.Set(w, NewImpersonatePayload(contactId, adminUserId)); err != nil {
		slog.Error("Failed to set simulation cookie", "admin_user_id", adminUserId, "contact_id", contactId, "err", err)
		return perrors.InternalWrap(err, "failed to set simulation cookie")
	}

	slog.Info("Simulation started", "admin_user_id", adminUserId, "contact_id", contactId)
	return nil
}

// Clear deletes the simulation cookie
func (s *Service) Clear(ctx context.Context, w http.ResponseWriter, session *client.Session) error {
	if !CanClearSimulation(session) {
		return perrors.Forbidden(MessageUnauthorized)
	}

	s.store.Clear(w)

	attrs := []any{"user_id", session.UserId}
	if imp, ok := session.Impersonation(); ok {
		attrs = []any{"admin_user_id", imp.OriginalUserId, "contact_id", imp.ContactId}
	}
	slog.Info("Simulation cleared", attrs...)
	return nil
}
