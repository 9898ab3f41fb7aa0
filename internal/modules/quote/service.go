// README: Quote service calculates, stamps and persists quotations.
package quote

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tourquote/internal/modules/pricing"
)

type Calculator interface {
	Calculate(ctx context.Context, req pricing.CalculationRequest) (pricing.CalculationResult, error)
}

type Repository interface {
	Create(ctx context.Context, q *Quote) error
	Get(ctx context.Context, id uuid.UUID) (*Quote, error)
}

type Service struct {
	store    Repository
	calc     Calculator
	validFor time.Duration
	now      func() time.Time
}

func NewService(store Repository, calc Calculator, validFor time.Duration) *Service {
	return &Service{store: store, calc: calc, validFor: validFor, now: time.Now}
}

// Create returns *pricing.ValidationError / *pricing.NotFoundError untouched.
func (s *Service) Create(ctx context.Context, in pricing.CalculatorInput) (*Quote, error) {
	req, err := pricing.ParseRequest(in)
	if err != nil {
		return nil, err
	}
	res, err := s.calc.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	q := &Quote{
		ID:         uuid.New(),
		Request:    in,
		Result:     res,
		CreatedAt:  now,
		ValidUntil: now.Add(s.validFor),
	}
	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (*Quote, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidID
	}
	return s.store.Get(ctx, id)
}
