package contact

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	perrors "github.com/tendant/ministry-portal/pkg/errors"
)

const (
	DefaultSearchLimit = 25
	MaxSearchLimit     = 100
)

// ContactService is the portal's view of the ministry contact database
type ContactService struct {
	repo ContactRepository
}

// NewContactService creates a new contact service
func NewContactService(repo ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// GetContact returns the contact, a NOT_FOUND error, or an INTERNAL_ERROR
// wrapping the repository failure
func (s *ContactService) GetContact(ctx context.Context, contactId int64) (Contact, error) {
	c, err := s.repo.GetContact(ctx, contactId)
	if errors.Is(err, ErrContactNotFound) {
		return Contact{}, perrors.NotFound("contact", strconv.FormatInt(contactId, 10))
	}
	if err != nil {
		slog.Error("Failed to get contact", "contact_id", contactId, "err", err)
		return Contact{}, perrors.InternalWrap(err, "failed to get contact")
	}
	return c, nil
}

// SearchContacts trims the query and clamps limit to (0, MaxSearchLimit]
func (s *ContactService) SearchContacts(ctx context.Context, query string, limit int) ([]Contact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, perrors.MissingRequired("q", "search query is required")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	contacts, err := s.repo.SearchContacts(ctx, query, limit)
	if err != nil {
		slog.Error("Failed to search contacts", "query", query, "err", err)
		return nil, perrors.InternalWrap(err, "failed to search contacts")
	}
	return contacts, nil
}
