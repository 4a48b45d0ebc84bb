package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/tendant/ministry-portal/pkg/audit"
	"github.com/tendant/ministry-portal/pkg/client"
	pkgconfig "github.com/tendant/ministry-portal/pkg/config"
	contactapi "github.com/tendant/ministry-portal/pkg/contact/api"
	"github.com/tendant/ministry-portal/pkg/simulation"
	simulationapi "github.com/tendant/ministry-portal/pkg/simulation/api"
)

// Config holds all the dependencies and handlers needed to setup routes
type Config struct {
	// Prefix configuration for all routes
	PrefixConfig pkgconfig.PrefixConfig

	// Handlers for each feature
	SimulationHandle *simulationapi.Handle
	ContactHandler   *contactapi.Handler // Optional: can be nil

	// Computes the effective session from the simulation cookie
	Resolver *simulation.Resolver

	// Records requests served under a simulated identity (optional)
	Audit *audit.Middleware

	// JWT authentication
	TokenAuth         *jwtauth.JWTAuth
	SessionCookieName string
	AdminRoles        []string
}

// SetupRoutes mounts all portal routes on the provided router
func SetupRoutes(router chi.Router, cfg Config) {
	prefixes := cfg.PrefixConfig.WithDefaults()
	cookieName := cfg.SessionCookieName
	if cookieName == "" {
		cookieName = "session_token"
	}

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(Recoverer)
		r.Use(client.Verifier(cfg.TokenAuth, cookieName))
		r.Use(client.SessionMiddleware(cfg.AdminRoles))
		if cfg.Resolver != nil {
			r.Use(cfg.Resolver.OverlayMiddleware)
		}
		if cfg.Audit != nil {
			r.Use(cfg.Audit.AuditSimulationMiddleware)
		}

		// Simulation routes answer 403 themselves when there is no session
		r.Route(prefixes.Simulation(), cfg.SimulationHandle.RegisterRoutes)

		// Effective session, as pages see it
		r.With(client.RequireSession).Get(prefixes.Auth+"/session", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, client.GetSession(r))
		})

		// Admin-only contact lookup
		if cfg.ContactHandler != nil {
			r.Route(prefixes.Contacts(), func(r chi.Router) {
				r.Use(client.RequireAdmin)
				cfg.ContactHandler.RegisterRoutes(r)
			})
			slog.Info("Contact routes mounted", "prefix", prefixes.Contacts())
		}
	})
}

// Recoverer turns a panic into a generic 500 JSON response
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				slog.Error("Recovered from panic",
					"request_id", middleware.GetReqID(r.Context()),
					"path", r.URL.Path,
					"panic", fmt.Sprint(rvr),
					"stack", string(debug.Stack()))
				client.RenderError(w, r, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
