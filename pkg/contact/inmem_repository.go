package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// InMemoryContactRepository implements ContactRepository using in-memory storage
type InMemoryContactRepository struct {
	mu       sync.RWMutex
	contacts map[int64]Contact
}

// NewInMemoryContactRepository creates a new in-memory contact repository
func NewInMemoryContactRepository(contacts ...Contact) *InMemoryContactRepository {
	r := &InMemoryContactRepository{
		contacts: make(map[int64]Contact),
	}
	for _, c := range contacts {
		r.contacts[c.ContactId] = c
	}
	return r
}

// LoadSeedFile reads a JSON array of contacts into a new repository
func LoadSeedFile(path string) (*InMemoryContactRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contact seed file: %w", err)
	}

	var contacts []Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("parse contact seed file: %w", err)
	}
	return NewInMemoryContactRepository(contacts...), nil
}

// Save inserts or replaces a contact
func (r *InMemoryContactRepository) Save(c Contact) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.contacts[c.ContactId] = c
}

// GetContact retrieves a contact by id
func (r *InMemoryContactRepository) GetContact(ctx context.Context, contactId int64) (Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.contacts[contactId]
	if !ok {
		return Contact{}, ErrContactNotFound
	}
	return c, nil
}

// SearchContacts returns matching contacts ordered by display name
func (r *InMemoryContactRepository) SearchContacts(ctx context.Context, query string, limit int) ([]Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []Contact{}
	for _, c := range r.contacts {
		if c.Matches(query) {
			result = append(result, c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayName == result[j].DisplayName {
			return result[i].ContactId < result[j].ContactId
		}
		return result[i].DisplayName < result[j].DisplayName
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
