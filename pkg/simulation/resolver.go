package simulation

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jinzhu/copier"
	"github.com/tendant/ministry-portal/pkg/client"
	"github.com/tendant/ministry-portal/pkg/config"
	"github.com/tendant/ministry-portal/pkg/contact"
	perrors "github.com/tendant/ministry-portal/pkg/errors"
)

// ContactDirectory looks up the identity an administrator impersonates
type ContactDirectory interface {
	GetContact(ctx context.Context, contactId int64) (contact.Contact, error)
}

// Resolver computes the effective session of a request from the
// authenticated session and the simulation cookie.
type Resolver struct {
	store      *CookieStore
	directory  ContactDirectory
	adminRoles []string
}

// NewResolver creates a new resolver
func NewResolver(store *CookieStore, directory ContactDirectory, adminRoles []string) *Resolver {
	return &Resolver{
		store:      store,
		directory:  directory,
		adminRoles: adminRoles,
	}
}

// Resolve applies the payload to base. The payload only takes effect for the
// administrator who created it; otherwise base is returned unchanged.
func (res *Resolver) Resolve(ctx context.Context, base *client.Session, p *CookiePayload) *client.Session {
	if base == nil || p == nil {
		return base
	}
	if !base.IsAdmin || p.AdminUserId != base.UserId {
		slog.Warn("Ignoring simulation cookie not issued to this session",
			"user_id", base.UserId, "admin_user_id", p.AdminUserId, "contact_id", p.ContactId)
		return base
	}

	effective := &client.Session{}
	if res.directory != nil {
		c, err := res.directory.GetContact(ctx, p.ContactId)
		if err != nil {
			slog.Warn("Simulated contact not resolved", "contact_id", p.ContactId, "err", err)
		} else if err := copier.CopyWithOption(effective, &c, copier.Option{DeepCopy: true}); err != nil {
			slog.Error("Failed to copy contact into session", "contact_id", p.ContactId, "err", err)
			effective = &client.Session{}
		}
	}

	effective.ContactId = p.ContactId
	if effective.Roles == nil {
		effective.Roles = []string{}
	}
	effective.IsAdmin = config.HasAnyAdminRole(effective.Roles, res.adminRoles)
	effective.Simulation = client.Impersonation{
		ContactId:      p.ContactId,
		OriginalUserId: base.UserId,
	}
	return effective
}

// ResolveRequest reads the simulation cookie from r and resolves it against base.
// Malformed or unsupported cookies are ignored.
func (res *Resolver) ResolveRequest(r *http.Request, base *client.Session) *client.Session {
	if base == nil {
		return nil
	}
	p, err := res.store.Read(r)
	if perrors.IsCode(err, perrors.ErrCodeUnsupported) {
		slog.Info("Ignoring unsupported simulation cookie", "user_id", base.UserId, "err", err)
		return base
	}
	if err != nil {
		slog.Warn("Ignoring invalid simulation cookie", "user_id", base.UserId, "err", err)
		return base
	}
	return res.Resolve(r.Context(), base, p)
}

// OverlayMiddleware replaces the request session with the effective session.
// Must be used after client.SessionMiddleware.
func (res *Resolver) OverlayMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := client.GetSession(r)
		if base == nil {
			next.ServeHTTP(w, r)
			return
		}

		effective := res.ResolveRequest(r, base)
		if effective != base {
			slog.Debug("Simulation applied", "session", effective)
			r = r.WithContext(client.WithSession(r.Context(), effective))
		}
		next.ServeHTTP(w, r)
	})
}
