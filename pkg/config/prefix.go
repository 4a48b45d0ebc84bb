package config

import "strings"

// PrefixConfig holds configurable API endpoint prefixes for all route groups.
//
// Example environment variables:
//
//	API_PREFIX_ADMIN=/api/admin
//	API_PREFIX_AUTH=/api/auth
type PrefixConfig struct {
	Admin string `env:"API_PREFIX_ADMIN" env-default:"/api/admin"` // Admin endpoints (simulation, contact lookup)
	Auth  string `env:"API_PREFIX_AUTH" env-default:"/api/auth"`   // Session endpoints
}

// DefaultPrefixes returns the prefixes the web frontend calls.
func DefaultPrefixes() PrefixConfig {
	return PrefixConfig{
		Admin: "/api/admin",
		Auth:  "/api/auth",
	}
}

// Simulation returns the mount point of the simulation routes.
func (p PrefixConfig) Simulation() string {
	return strings.TrimRight(p.Admin, "/") + "/simulation"
}

// Contacts returns the mount point of the admin contact lookup.
func (p PrefixConfig) Contacts() string {
	return strings.TrimRight(p.Admin, "/") + "/contacts"
}

// WithDefaults fills empty prefixes from DefaultPrefixes.
func (p PrefixConfig) WithDefaults() PrefixConfig {
	d := DefaultPrefixes()
	if p.Admin == "" {
		p.Admin = d.Admin
	}
	if p.Auth == "" {
		p.Auth = d.Auth
	}
	return p
}
