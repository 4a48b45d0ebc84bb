package contact

import (
	"context"
	"errors"
	"strings"
)

var ErrContactNotFound = errors.New("contact not found")

// Contact is a person record in the ministry database. UserId is empty for
// contacts that have never signed in.
type Contact struct {
	ContactId   int64    `json:"contactId"`
	UserId      string   `json:"userId,omitempty"`
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Matches reports whether the contact's name or email contains the query, case-insensitively
func (c Contact) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.DisplayName), q) ||
		strings.Contains(strings.ToLower(c.Email), q)
}

// ContactRepository defines the interface for contact data access
type ContactRepository interface {
	// GetContact returns ErrContactNotFound when no contact has the id
	GetContact(ctx context.Context, contactId int64) (Contact, error)

	// SearchContacts returns up to limit contacts whose name or email contains query
	SearchContacts(ctx context.Context, query string, limit int) ([]Contact, error)
}
