package store

import (
	"context"

	"github.com/dvsilva/shortr/internal/analytics"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of analytics.Store, the
// long-term archive behind the event consumer.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed analytics archive.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) SaveURLCreated(ctx context.Context, event *analytics.URLCreatedEvent) error {
	query := `
		INSERT INTO url_created_events (code, original_url, custom_alias, expires_at, created_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.OriginalURL,
		event.CustomAlias,
		event.ExpiresAt,
		event.CreatedAt,
		event.ClientIP,
		event.UserAgent,
	)

	return err
}

func (p *PostgresStore) SaveURLVisited(ctx context.Context, event *analytics.URLVisitedEvent) error {
	query := `
		INSERT INTO url_visits (code, visited_at, client_ip, user_agent, referrer, location, browser)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.VisitedAt,
		event.ClientIP,
		event.UserAgent,
		event.Referrer,
		event.Location,
		event.Browser,
	)

	return err
}

// Compile-time check.
var _ analytics.Store = (*PostgresStore)(nil)
