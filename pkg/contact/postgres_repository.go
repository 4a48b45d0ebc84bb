package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jinzhu/copier"
)

// CreateContactsTableSQL creates the table read by PostgresContactRepository
const CreateContactsTableSQL = `
	CREATE TABLE IF NOT EXISTS contacts (
		contact_id   BIGINT PRIMARY KEY,
		user_id      TEXT,
		display_name TEXT NOT NULL,
		email        TEXT,
		roles        TEXT[] NOT NULL DEFAULT '{}'
	)
`

// PostgresContactRepository implements ContactRepository using PostgreSQL
type PostgresContactRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresContactRepository creates a new PostgreSQL contact repository
func NewPostgresContactRepository(pool *pgxpool.Pool) (*PostgresContactRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresContactRepository{pool: pool}, nil
}

// EnsureSchema creates the contacts table if it does not exist
func (r *PostgresContactRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, CreateContactsTableSQL); err != nil {
		return fmt.Errorf("failed to create contacts table: %w", err)
	}
	return nil
}

// contactRow mirrors a contacts row; nullable columns scan into pointers
type contactRow struct {
	ContactId   int64
	UserId      *string
	DisplayName string
	Email       *string
	Roles       []string
}

func (row contactRow) toContact() (Contact, error) {
	var c Contact
	if err := copier.Copy(&c, &row); err != nil {
		return Contact{}, fmt.Errorf("failed to map contact row: %w", err)
	}
	return c, nil
}

func scanContact(s pgx.Row) (contactRow, error) {
	var row contactRow
	err := s.Scan(&row.ContactId, &row.UserId, &row.DisplayName, &row.Email, &row.Roles)
	return row, err
}

// GetContact retrieves a contact by id
func (r *PostgresContactRepository) GetContact(ctx context.Context, contactId int64) (Contact, error) {
	query := `
		SELECT contact_id, user_id, display_name, email, roles
		FROM contacts
		WHERE contact_id = $1
	`

	row, err := scanContact(r.pool.QueryRow(ctx, query, contactId))
	if errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, ErrContactNotFound
	}
	if err != nil {
		return Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return row.toContact()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes q match literally inside a LIKE pattern using ESCAPE '\'
func escapeLike(q string) string {
	return likeEscaper.Replace(q)
}

// SearchContacts returns contacts whose name or email contains query
func (r *PostgresContactRepository) SearchContacts(ctx context.Context, query string, limit int) ([]Contact, error) {
	sql := `
		SELECT contact_id, user_id, display_name, email, roles
		FROM contacts
		WHERE display_name ILIKE '%' || $1 || '%' ESCAPE '\'
		   OR COALESCE(email, '') ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY display_name, contact_id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, sql, escapeLike(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	contacts := []Contact{}
	for rows.Next() {
		row, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c, err := row.toContact()
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return contacts, nil
}
