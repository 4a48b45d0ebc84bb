package client

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tendant/ministry-portal/pkg/config"
)

// Claims are the identity claims the auth provider places under
// "extra_claims" in a session token.
type Claims struct {
	UserId    string   `json:"user_id,omitempty"`
	Email     string   `json:"email,omitempty"`
	ContactId int64    `json:"contact_id,omitempty"`
	Roles     []string `json:"roles,omitempty"`
}

// ToMap converts the claims into the map form used as token extra claims
func (c Claims) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"user_id": c.UserId,
	}
	if c.Email != "" {
		m["email"] = c.Email
	}
	if c.ContactId != 0 {
		m["contact_id"] = c.ContactId
	}
	if len(c.Roles) > 0 {
		m["roles"] = c.Roles
	}
	return m
}

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation. This technique
// for defining context keys was copied from Go 1.7's new use of context in net/http.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "portal context value " + k.name
}

var (
	SessionKey = &contextKey{"Session"}
)

// WithSession returns a copy of ctx carrying the session
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFromContext returns the session stored in ctx, if any
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(SessionKey).(*Session)
	return s, ok && s != nil
}

// GetSession returns the request's session or nil
func GetSession(r *http.Request) *Session {
	s, _ := SessionFromContext(r.Context())
	return s
}

func LoadFromMap[T any](m map[string]interface{}, c *T) error {
	data, err := json.Marshal(m)
	if err == nil {
		err = json.Unmarshal(data, c)
	}
	return err
}

// IsAdminWithRoles checks if any of the roles is one of the admin roles
func IsAdminWithRoles(roles []string, adminRoles []string) bool {
	return config.HasAnyAdminRole(roles, adminRoles)
}

// SessionFromClaims builds the authenticated session from verified token claims
func SessionFromClaims(claims map[string]interface{}, adminRoles []string) (*Session, bool) {
	var c Claims
	if extraClaimsRaw, exists := claims["extra_claims"]; exists {
		extraClaims, ok := extraClaimsRaw.(map[string]interface{})
		if !ok {
			slog.Warn("invalid extra claims format")
			return nil, false
		}
		if err := LoadFromMap(extraClaims, &c); err != nil {
			slog.Warn("failed to parse extra claims", "error", err)
			return nil, false
		}
	}

	if c.UserId == "" {
		// Tokens minted without extra claims still identify the user by subject
		c.UserId, _ = claims["sub"].(string)
	}
	if c.UserId == "" {
		return nil, false
	}

	return &Session{
		UserId:    c.UserId,
		Email:     c.Email,
		ContactId: c.ContactId,
		Roles:     c.Roles,
		IsAdmin:   IsAdminWithRoles(c.Roles, adminRoles),
	}, true
}

// SessionMiddleware resolves the authenticated session from the token verified
// by Verifier. Requests without a valid token continue without a session so
// that each route decides how to answer.
func SessionMiddleware(adminRoles []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				if err != nil && !errors.Is(err, jwtauth.ErrNoTokenFound) {
					slog.Debug("session token rejected", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			session, ok := SessionFromClaims(claims, adminRoles)
			if !ok {
				slog.Warn("session token without usable identity claims")
				next.ServeHTTP(w, r)
				return
			}

			slog.Debug("authenticated session", "session", session)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// Verifier verifies session tokens from the Authorization header or the
// session cookie and stores the result for SessionMiddleware.
func Verifier(ja *jwtauth.JWTAuth, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return jwtauth.Verify(ja, jwtauth.TokenFromHeader, TokenFromCookie(cookieName))(next)
	}
}

// TokenFromCookie returns an extractor reading the session token cookie
func TokenFromCookie(cookieName string) func(r *http.Request) string {
	return func(r *http.Request) string {
		cookie, err := r.Cookie(cookieName)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}
