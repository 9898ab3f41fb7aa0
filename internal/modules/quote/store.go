// README: Quote store backed by PostgreSQL (request/result kept as JSONB).
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, q *Quote) error {
	reqJSON, err := json.Marshal(q.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	resJSON, err := json.Marshal(q.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO quotes (
			id, tour_id, currency, total_amount, total_in_currency,
			request, result, created_at, valid_until
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		q.ID,
		q.Result.Tour.ID,
		string(q.Result.Currency),
		q.Result.Costs.TotalAmount,
		q.Result.TotalInRequestedCurrency,
		reqJSON,
		resJSON,
		q.CreatedAt,
		q.ValidUntil,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*Quote, error) {
	var q Quote
	var reqJSON, resJSON []byte
	err := s.db.QueryRow(ctx, `
		SELECT id, request, result, created_at, valid_until
		FROM quotes WHERE id = $1`, id,
	).Scan(&q.ID, &reqJSON, &resJSON, &q.CreatedAt, &q.ValidUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reqJSON, &q.Request); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal(resJSON, &q.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &q, nil
}
