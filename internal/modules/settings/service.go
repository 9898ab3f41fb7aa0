// README: Settings service parses numeric pricing settings with fallback defaults.
package settings

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	KeyProfitMargin = "profit_margin"
	KeyTaxRate      = "tax_rate"
	KeyLunchPrice   = "lunchPrice"
	KeyDinnerPrice  = "dinnerPrice"
)

var hundred = decimal.NewFromInt(100)

// Defaults applied when a setting is unset, unparsable or negative.
var (
	DefaultProfitMarginPercent = decimal.NewFromInt(20)
	DefaultTaxRatePercent      = decimal.NewFromInt(10)
	DefaultLunchPrice          = decimal.NewFromInt(2200)
	DefaultDinnerPrice         = decimal.NewFromInt(3000)
)

// Pricing holds the settings consumed by the price engine. Rates are
// fractions (0.2 for 20%); meal prices are JPY per person per day.
type Pricing struct {
	ProfitMarginRate decimal.Decimal
	TaxRate          decimal.Decimal
	LunchPrice       decimal.Decimal
	DinnerPrice      decimal.Decimal
}

type Source interface {
	List(ctx context.Context) (map[string]string, error)
	Get(ctx context.Context, key string) (string, bool, error)
}

type Service struct {
	store  Source
	logger *zap.Logger
}

func NewService(store Source, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

func (s *Service) Get(ctx context.Context, key string) (string, bool, error) {
	return s.store.Get(ctx, key)
}

// Pricing reads all pricing keys in one round trip.
func (s *Service) Pricing(ctx context.Context) (Pricing, error) {
	values, err := s.store.List(ctx)
	if err != nil {
		return Pricing{}, err
	}
	return Pricing{
		ProfitMarginRate: s.number(values, KeyProfitMargin, DefaultProfitMarginPercent).Div(hundred),
		TaxRate:          s.number(values, KeyTaxRate, DefaultTaxRatePercent).Div(hundred),
		LunchPrice:       s.number(values, KeyLunchPrice, DefaultLunchPrice),
		DinnerPrice:      s.number(values, KeyDinnerPrice, DefaultDinnerPrice),
	}, nil
}

func (s *Service) number(values map[string]string, key string, def decimal.Decimal) decimal.Decimal {
	raw, ok := values[key]
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		s.logger.Warn("unparsable setting, using default",
			zap.String("key", key), zap.String("value", raw), zap.String("default", def.String()))
		return def
	}
	if d.IsNegative() {
		s.logger.Warn("negative setting, using default",
			zap.String("key", key), zap.String("value", raw))
		return def
	}
	return d
}
