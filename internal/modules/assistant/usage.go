// README: Monthly assistant token allowance stored in Postgres.
package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageStore handles assistant_usage persistence.
type UsageStore struct {
	db        *pgxpool.Pool
	allowance int
	now       func() time.Time
}

func NewUsageStore(db *pgxpool.Pool, monthlyTokens int) *UsageStore {
	return &UsageStore{db: db, allowance: monthlyTokens, now: time.Now}
}

// UseToken atomically checks the monthly quota and deducts one token,
// resetting the counter when last_reset_month is behind the current month.
// Returns ErrInsufficientTokens when no row is updated (quota exhausted or user absent).
func (s *UsageStore) UseToken(ctx context.Context, uid string) (int, error) {
	month := s.now().Format("2006-01")

	var remaining int
	err := s.db.QueryRow(ctx, `
		UPDATE assistant_usage SET
			tokens_remaining = CASE WHEN last_reset_month <> $1 THEN $2 - 1 ELSE tokens_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR tokens_remaining > 0)
		RETURNING tokens_remaining
	`, month, s.allowance, uid).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInsufficientTokens
	}
	return remaining, err
}

// EnsureUser inserts a row with the monthly allowance; existing rows are left alone.
func (s *UsageStore) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO assistant_usage (uid, tokens_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, s.allowance, s.now().Format("2006-01"))
	return err
}

// Consume deducts one token, creating the user row on first use.
func (s *UsageStore) Consume(ctx context.Context, uid string) (int, error) {
	remaining, err := s.UseToken(ctx, uid)
	if !errors.Is(err, ErrInsufficientTokens) {
		return remaining, err
	}

	// Row may be missing: create it, then retry the deduction once.
	if err := s.EnsureUser(ctx, uid); err != nil {
		return 0, err
	}
	return s.UseToken(ctx, uid)
}
