package contact

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresContactRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	repo, err := NewPostgresContactRepository(pool)
	require.NoError(t, err)
	require.NoError(t, repo.EnsureSchema(ctx))

	_, err = pool.Exec(ctx, `
		INSERT INTO contacts (contact_id, user_id, display_name, email, roles) VALUES
			(7, '99', 'Ruth Miller', 'ruth@example.org', '{member}'),
			(8, NULL, 'Boaz Miller', NULL, '{}'),
			(9, '100', 'Naomi Ellis', 'naomi@example.org', '{staff,admin}'),
			(10, NULL, '50% Club', NULL, '{}'),
			(11, NULL, '500 Club', 'club_500@example.org', '{}')
	`)
	require.NoError(t, err)

	t.Run("GetContact", func(t *testing.T) {
		c, err := repo.GetContact(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, Contact{ContactId: 9, UserId: "100", DisplayName: "Naomi Ellis", Email: "naomi@example.org", Roles: []string{"staff", "admin"}}, c)
	})

	t.Run("GetContactWithNullColumns", func(t *testing.T) {
		c, err := repo.GetContact(ctx, 8)
		require.NoError(t, err)
		assert.Equal(t, "", c.UserId)
		assert.Equal(t, "", c.Email)
		assert.Empty(t, c.Roles)
	})

	t.Run("GetContactNotFound", func(t *testing.T) {
		_, err := repo.GetContact(ctx, 404)
		assert.ErrorIs(t, err, ErrContactNotFound)
	})

	t.Run("SearchContacts", func(t *testing.T) {
		contacts, err := repo.SearchContacts(ctx, "MILLER", 10)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, int64(8), contacts[0].ContactId)
		assert.Equal(t, int64(7), contacts[1].ContactId)

		contacts, err = repo.SearchContacts(ctx, "naomi@", 10)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, int64(9), contacts[0].ContactId)

		// wildcards in the query match literally
		contacts, err = repo.SearchContacts(ctx, "50%", 10)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, int64(10), contacts[0].ContactId)

		contacts, err = repo.SearchContacts(ctx, "b_500", 10)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, int64(11), contacts[0].ContactId)

		contacts, err = repo.SearchContacts(ctx, "_", 10)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, int64(11), contacts[0].ContactId)
	})
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"ruth":       "ruth",
		"50%":        `50\%`,
		"club_500":   `club\_500`,
		`back\slash`: `back\\slash`,
		"":           "",
	}
	for in, want := range tests {
		assert.Equal(t, want, escapeLike(in), "input %q", in)
	}
}

func TestNewPostgresContactRepository(t *testing.T) {
	_, err := NewPostgresContactRepository(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database connection cannot be nil")
}
