// README: Persisted quotation: the validated calculator input plus its computed result.
package quote

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"tourquote/internal/modules/pricing"
)

var (
	ErrNotFound  = errors.New("quote not found")
	ErrInvalidID = errors.New("invalid quote id")
)

type Quote struct {
	ID         uuid.UUID                 `json:"id"`
	Request    pricing.CalculatorInput   `json:"request"`
	Result     pricing.CalculationResult `json:"result"`
	CreatedAt  time.Time                 `json:"createdAt"`
	ValidUntil time.Time                 `json:"validUntil"`
}

func (q *Quote) Expired(now time.Time) bool {
	return now.After(q.ValidUntil)
}
