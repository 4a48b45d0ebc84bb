package router

import (
	"errors"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/tendant/ministry-portal/pkg/audit"
	pkgconfig "github.com/tendant/ministry-portal/pkg/config"
	"github.com/tendant/ministry-portal/pkg/contact"
	contactapi "github.com/tendant/ministry-portal/pkg/contact/api"
	"github.com/tendant/ministry-portal/pkg/simulation"
	simulationapi "github.com/tendant/ministry-portal/pkg/simulation/api"
)

// MinimalOptions contains minimal configuration for the portal routes
type MinimalOptions struct {
	// Required
	JWTConfig pkgconfig.JWTConfig       // Session token verification
	Contacts  contact.ContactRepository // Contact directory used for impersonation

	// Optional - defaults will be used if not provided
	CookieConfig pkgconfig.CookieConfig  // Simulation cookie attributes
	AdminRoles   []string                // Roles treated as administrator (default: admin, superadmin)
	PrefixConfig *pkgconfig.PrefixConfig // API route prefixes
}

// NewMinimalConfig wires the portal services with sane defaults.
// Tokens must carry the configured issuer and audience when those are set.
// The default JWT secret is refused when cookies are Secure.
//
// Example:
//
//	cfg, err := router.NewMinimalConfig(router.MinimalOptions{
//	    JWTConfig: pkgconfig.JWTConfig{Secret: secret, Issuer: "ministry-portal", Audience: "ministry-portal"},
//	    Contacts:  contact.NewInMemoryContactRepository(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	router.SetupRoutes(r, cfg)
func NewMinimalConfig(opts MinimalOptions) (Config, error) {
	if opts.JWTConfig.Secret == "" {
		return Config{}, errors.New("JWT secret is required")
	}
	if opts.Contacts == nil {
		return Config{}, errors.New("contact repository is required")
	}
	if opts.CookieConfig.Secure() && opts.JWTConfig.UsesDefaultSecret() {
		return Config{}, errors.New("JWT_SECRET must be changed from the default when cookies are secure")
	}

	var validateOpts []jwt.ValidateOption
	if opts.JWTConfig.Issuer != "" {
		validateOpts = append(validateOpts, jwt.WithIssuer(opts.JWTConfig.Issuer))
	}
	if opts.JWTConfig.Audience != "" {
		validateOpts = append(validateOpts, jwt.WithAudience(opts.JWTConfig.Audience))
	}

	adminRoles := pkgconfig.NormalizeAdminRoles(opts.AdminRoles)
	prefixes := pkgconfig.DefaultPrefixes()
	if opts.PrefixConfig != nil {
		prefixes = opts.PrefixConfig.WithDefaults()
	}

	contactService := contact.NewContactService(opts.Contacts)
	store := simulation.NewCookieStore(opts.CookieConfig)

	return Config{
		PrefixConfig:      prefixes,
		SimulationHandle:  simulationapi.NewHandle(simulation.NewService(store)),
		ContactHandler:    contactapi.NewHandler(contactService),
		Resolver:          simulation.NewResolver(store, contactService, adminRoles),
		Audit:             audit.NewMiddleware(audit.Config{}),
		TokenAuth:         jwtauth.New("HS256", []byte(opts.JWTConfig.Secret), nil, validateOpts...),
		SessionCookieName: opts.JWTConfig.CookieName,
		AdminRoles:        adminRoles,
	}, nil
}
