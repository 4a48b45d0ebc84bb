package simulation

import (
	"errors"
	"net/http"
	"time"

	"github.com/tendant/ministry-portal/pkg/config"
)

const (
	CookieName = "mp_simulation"
	CookieTTL  = 4 * time.Hour
)

// CookieStore reads and writes the simulation cookie. The cookie is only
// ever replaced whole or deleted.
type CookieStore struct {
	Path     string
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
	MaxAge   int

	now func() time.Time
}

// NewCookieStore creates a cookie store using the deployment's cookie settings
func NewCookieStore(cfg config.CookieConfig) *CookieStore {
	return &CookieStore{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(CookieTTL / time.Second),
		now:      time.Now,
	}
}

// Set writes the payload, replacing any existing simulation cookie
func (s *CookieStore) Set(w http.ResponseWriter, p CookiePayload) error {
	value, err := EncodeCookieValue(p)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Path:     s.Path,
		Value:    value,
		MaxAge:   s.MaxAge,
		Expires:  s.now().Add(time.Duration(s.MaxAge) * time.Second),
		HttpOnly: s.HttpOnly,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	})
	return nil
}

// Clear deletes the simulation cookie
func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Path:     s.Path,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: s.HttpOnly,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	})
}

// Read returns the decoded payload. It returns nil and no error when the
// request carries no simulation cookie.
func (s *CookieStore) Read(r *http.Request) (*CookiePayload, error) {
	cookie, err := r.Cookie(CookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if cookie.Value == "" {
		return nil, nil
	}

	p, err := DecodeCookieValue(cookie.Value)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
