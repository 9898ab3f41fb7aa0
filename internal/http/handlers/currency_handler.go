package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tourquote/internal/modules/currency"
	"tourquote/internal/types"
)

type RateSource interface {
	Rates(ctx context.Context) currency.Snapshot
}

type CurrencyHandler struct {
	rates RateSource
	now   func() time.Time
}

func NewCurrencyHandler(src RateSource) *CurrencyHandler {
	return &CurrencyHandler{rates: src, now: time.Now}
}

type ratesResponse struct {
	Base       types.Currency             `json:"base"`
	Rates      map[types.Currency]float64 `json:"rates"`
	UpdatedAt  *time.Time                 `json:"updatedAt"`
	AgeSeconds *int64                     `json:"ageSeconds"`
}

// Rates handles GET /api/currency/rates. updatedAt is null while only built-in rates are known.
func (h *CurrencyHandler) Rates(c *gin.Context) {
	snap := h.rates.Rates(c.Request.Context())
	out := ratesResponse{Base: snap.Base, Rates: make(map[types.Currency]float64, len(snap.Rates))}
	for code, rate := range snap.Rates {
		out.Rates[code] = rate.InexactFloat64()
	}
	if !snap.UpdatedAt.IsZero() {
		updated := snap.UpdatedAt
		age := int64(h.now().Sub(updated).Seconds())
		out.UpdatedAt, out.AgeSeconds = &updated, &age
	}
	writeJSON(c, http.StatusOK, out)
}
