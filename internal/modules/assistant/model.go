// README: Trip assistant types (quota errors, request and reply shapes).
package assistant

import (
	"errors"
	"time"
)

var (
	// ErrInsufficientTokens is returned when a user has no tokens remaining for the current month.
	ErrInsufficientTokens = errors.New("insufficient tokens")
	ErrBadRequest         = errors.New("missing uid or message")
	ErrTourNotFound       = errors.New("tour not found")
)

type SuggestRequest struct {
	UID     string
	Message string
	TourID  int64
	// From is an optional pickup address used for a driving estimate to the tour location.
	From string
}

type RouteHint struct {
	Duration time.Duration `json:"-"`
	Minutes  int           `json:"minutes"`
	Distance string        `json:"distance"`
}

type Suggestion struct {
	Reply           string     `json:"reply"`
	Source          string     `json:"source"`
	TokensRemaining int        `json:"tokensRemaining"`
	Route           *RouteHint `json:"route,omitempty"`
}

const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)
