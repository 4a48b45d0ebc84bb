package config

// CookieConfig holds the attributes shared by cookies the portal writes.
// Cookies are Secure whenever the deployment is production; CookieSecure
// forces the attribute on for non-production deployments served over TLS.
type CookieConfig struct {
	AppEnv       string `env:"APP_ENV" env-default:"development"`
	CookieSecure bool   `env:"COOKIE_SECURE" env-default:"false"`
}

// Environment returns the parsed deployment environment
func (c CookieConfig) Environment() Environment {
	return ParseEnvironment(c.AppEnv)
}

// Secure reports whether cookies must carry the Secure attribute
func (c CookieConfig) Secure() bool {
	return c.CookieSecure || c.Environment() == Production
}
