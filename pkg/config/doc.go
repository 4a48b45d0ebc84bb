// Package config provides the configuration blocks read by the portal binary.
//
// Each block carries cleanenv struct tags so binaries can embed it in their
// own Config and load everything with cleanenv.ReadEnv.
//
//	var cfg struct {
//		CookieConfig config.CookieConfig
//		RolesConfig  config.RolesConfig
//	}
//	cleanenv.ReadEnv(&cfg)
//	if cfg.CookieConfig.Secure() {
//		// production deployment, or COOKIE_SECURE=true
//	}
//
//	roles := config.NormalizeAdminRoles(cfg.RolesConfig.AdminRoles)
//	isAdmin := config.HasAnyAdminRole(user.Roles, roles)
package config
