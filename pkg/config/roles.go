package config

import "strings"

// DefaultAdminRoles are used when ADMIN_ROLES is empty
var DefaultAdminRoles = []string{"admin", "superadmin"}

// RolesConfig holds the role names that grant administrator status
type RolesConfig struct {
	AdminRoles []string `env:"ADMIN_ROLES" env-separator:"," env-default:"admin,superadmin"`
}

// NormalizeAdminRoles trims role names and drops empty ones.
// Returns DefaultAdminRoles when nothing is left.
func NormalizeAdminRoles(roles []string) []string {
	normalized := []string{}
	for _, role := range roles {
		if trimmed := strings.TrimSpace(role); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	if len(normalized) == 0 {
		return append([]string(nil), DefaultAdminRoles...)
	}
	return normalized
}

// IsAdminRole checks if the given role is in the list of admin roles
// Performs case-insensitive comparison
func IsAdminRole(role string, adminRoles []string) bool {
	for _, adminRole := range adminRoles {
		if strings.EqualFold(adminRole, role) {
			return true
		}
	}
	return false
}

// HasAnyAdminRole checks if the user has any of the specified admin roles
// Returns true if any role in userRoles matches any role in adminRoles
func HasAnyAdminRole(userRoles []string, adminRoles []string) bool {
	for _, userRole := range userRoles {
		if IsAdminRole(userRole, adminRoles) {
			return true
		}
	}
	return false
}
