package config

// DefaultJWTSecret is the development secret JWT_SECRET falls back to.
// It is refused wherever cookies are Secure.
const DefaultJWTSecret = "very-secure-jwt-secret"

// JWTConfig holds the settings used to verify session tokens issued by the auth provider
type JWTConfig struct {
	Secret     string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer     string `env:"JWT_ISSUER" env-default:"ministry-portal"`
	Audience   string `env:"JWT_AUDIENCE" env-default:"ministry-portal"`
	CookieName string `env:"SESSION_COOKIE_NAME" env-default:"session_token"`
}

// UsesDefaultSecret reports whether the secret is empty or the development default
func (c JWTConfig) UsesDefaultSecret() bool {
	return c.Secret == "" || c.Secret == DefaultJWTSecret
}
