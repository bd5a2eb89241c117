package store

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/expense-tracker-service/internal/idempotency"
	"github.com/PratikDhanave/expense-tracker-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer: the append-only expense
// collection plus the TTL-bounded idempotency cache. The two live in
// independent tables with no foreign-key linkage; an expense and its cache
// entry are written as two separate non-transactional steps.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration

	stopReaper chan struct{}
	closeOnce  sync.Once
}

// NewPostgresStore creates a connection pool and fails fast if the DB is
// unreachable. ttl bounds how long cached idempotent responses are kept;
// non-positive values fall back to idempotency.DefaultTTL.
func NewPostgresStore(dbURL string, ttl time.Duration) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if ttl <= 0 {
		ttl = idempotency.DefaultTTL
	}

	return &PostgresStore{
		pool:       pool,
		ttl:        ttl,
		stopReaper: make(chan struct{}),
	}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close stops the reaper and shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.closeOnce.Do(func() {
		close(p.stopReaper)
		p.pool.Close()
	})
}

// CreateExpense persists a validated expense in a single atomic insert and
// returns it with its server-assigned id and creation timestamp.
func (p *PostgresStore) CreateExpense(ctx context.Context, ne models.NewExpense) (models.Expense, error) {
	exp := models.Expense{
		ID:          uuid.New().String(),
		Amount:      ne.Amount,
		Category:    ne.Category,
		Description: ne.Description,
		Date:        models.Date{Time: ne.Date},
		CreatedAt:   time.Now().UTC(),
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO expenses(id, amount, category, description, expense_date, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, exp.ID, exp.Amount, exp.Category, exp.Description, ne.Date, exp.CreatedAt)
	if err != nil {
		return models.Expense{}, err
	}

	return exp, nil
}

// ListExpenses returns expenses ordered by date, optionally filtered by
// category. ascending=false (the default sort) is newest-first.
func (p *PostgresStore) ListExpenses(ctx context.Context, category string, ascending bool) ([]models.Expense, error) {
	query := `
		SELECT id, amount, category, description, expense_date, created_at
		FROM expenses
	`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	if ascending {
		query += ` ORDER BY expense_date ASC, created_at ASC`
	} else {
		query += ` ORDER BY expense_date DESC, created_at DESC`
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		var exp models.Expense
		var date time.Time
		if err := rows.Scan(&exp.ID, &exp.Amount, &exp.Category, &exp.Description, &date, &exp.CreatedAt); err != nil {
			return nil, err
		}
		exp.Date = models.Date{Time: date}
		out = append(out, exp)
	}
	return out, rows.Err()
}

// Lookup returns the cached response for an idempotency key. Expired rows
// are filtered here, so a key past the retention window reads as absent
// even before the reaper removes it.
func (p *PostgresStore) Lookup(ctx context.Context, key string) (idempotency.Record, bool, error) {
	var rec idempotency.Record
	err := p.pool.QueryRow(ctx, `
		SELECT key, status, content_type, body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND created_at > $2
	`, key, time.Now().UTC().Add(-p.ttl)).Scan(&rec.Key, &rec.Status, &rec.ContentType, &rec.Body, &rec.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return idempotency.Record{}, false, nil
	}
	if err != nil {
		return idempotency.Record{}, false, err
	}
	return rec, true, nil
}

// InsertIfAbsent caches a response under a key. The unique key column makes
// the insert atomic: a concurrent writer that loses the race gets ok=false
// and no error, matching the create-if-absent contract. A conflicting row
// that has already expired does not count as a winner — it is overwritten,
// so a key reused after the retention window gets its new response cached
// even before the reaper has removed the stale row.
func (p *PostgresStore) InsertIfAbsent(ctx context.Context, rec idempotency.Record) (bool, error) {
	now := time.Now().UTC()

	// RETURNING 1 only when this writer's row survives; a conflict with a
	// still-fresh row updates nothing and returns no rows.
	var one int
	err := p.pool.QueryRow(ctx, `
		INSERT INTO idempotency_keys(key, status, content_type, body, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (key) DO UPDATE
		SET status = EXCLUDED.status,
		    content_type = EXCLUDED.content_type,
		    body = EXCLUDED.body,
		    created_at = EXCLUDED.created_at
		WHERE idempotency_keys.created_at <= $6
		RETURNING 1
	`, rec.Key, rec.Status, rec.ContentType, rec.Body, now, now.Add(-p.ttl)).Scan(&one)

	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, err
}

// StartReaper periodically deletes idempotency rows past the retention
// window until Close is called. Lookup already filters expired rows, so the
// reaper only reclaims space and can never remove a record that is still
// replayable.
func (p *PostgresStore) StartReaper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				tag, err := p.pool.Exec(ctx, `
					DELETE FROM idempotency_keys WHERE created_at <= $1
				`, time.Now().UTC().Add(-p.ttl))
				cancel()

				if err != nil {
					slog.Error("Idempotency reaper failed", "error", err)
				} else if tag.RowsAffected() > 0 {
					slog.Debug("Idempotency reaper removed expired keys", "count", tag.RowsAffected())
				}
			case <-p.stopReaper:
				return
			}
		}
	}()
}
