// README: Currency converter with a JPY-relative rate cache refreshed from an external provider.
package currency

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tourquote/internal/infra"
	"tourquote/internal/types"
)

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// DefaultRates are used until the first successful refresh.
func DefaultRates() map[types.Currency]decimal.Decimal {
	return map[types.Currency]decimal.Decimal{
		types.JPY: decimal.NewFromInt(1),
		types.USD: decimal.RequireFromString("0.0067"),
		types.VND: decimal.NewFromInt(165),
		types.CNY: decimal.RequireFromString("0.048"),
		types.KRW: decimal.RequireFromString("9.1"),
	}
}

// RateProvider fetches rates keyed by currency code, relative to JPY.
type RateProvider interface {
	Fetch(ctx context.Context) (map[types.Currency]decimal.Decimal, error)
}

// SnapshotStore persists the last known good rate table.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot) error
}

type Snapshot struct {
	Base      types.Currency                     `json:"base"`
	Rates     map[types.Currency]decimal.Decimal `json:"rates"`
	UpdatedAt time.Time                          `json:"updatedAt"`
}

type Options struct {
	TTL           time.Duration
	FetchTimeout  time.Duration
	RetryInterval time.Duration
	Snapshots     SnapshotStore
	Now           func() time.Time
	Logger        *zap.Logger
}

type Converter struct {
	provider RateProvider
	opts     Options
	group    singleflight.Group

	mu          sync.RWMutex
	rates       map[types.Currency]decimal.Decimal
	updatedAt   time.Time
	attemptedAt time.Time
}

func NewConverter(provider RateProvider, opts Options) *Converter {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 3 * time.Second
	}
	if opts.RetryInterval <= 0 || opts.RetryInterval > opts.TTL {
		opts.RetryInterval = min(time.Minute, opts.TTL)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Converter{provider: provider, opts: opts, rates: DefaultRates()}
}

// Convert never fails on provider trouble; only unsupported codes are errors.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to types.Currency) (decimal.Decimal, error) {
	if !from.Supported() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, from)
	}
	if !to.Supported() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, to)
	}
	if from == to {
		return amount, nil
	}
	c.ensureFresh(ctx)

	c.mu.RLock()
	fromRate, toRate := c.rates[from], c.rates[to]
	c.mu.RUnlock()

	out := amount
	if from != types.BaseCurrency {
		out = out.Div(fromRate)
	}
	if to != types.BaseCurrency {
		out = out.Mul(toRate)
	}
	return out, nil
}

// Rates returns a copy of the current table, refreshing first when stale.
func (c *Converter) Rates(ctx context.Context) Snapshot {
	c.ensureFresh(ctx)
	return c.snapshot()
}

// Refresh fetches, merges and persists new rates. Only positive rates for
// supported currencies replace cached values.
func (c *Converter) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		return nil, c.refresh(ctx)
	})
	return err
}

func (c *Converter) refresh(ctx context.Context) error {
	if c.provider == nil {
		return errors.New("fx: no rate provider configured")
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.FetchTimeout)
	defer cancel()

	c.mu.Lock()
	c.attemptedAt = c.opts.Now()
	c.mu.Unlock()

	fetched, err := c.provider.Fetch(ctx)
	if err != nil {
		infra.FXRefreshTotal.WithLabelValues("error").Inc()
		c.opts.Logger.Warn("fx refresh failed, keeping cached rates", zap.Error(err))
		return err
	}

	c.mu.Lock()
	merged := 0
	for code, rate := range fetched {
		if !code.Supported() || !rate.IsPositive() {
			continue
		}
		c.rates[code] = rate
		merged++
	}
	c.rates[types.BaseCurrency] = decimal.NewFromInt(1)
	c.updatedAt = c.opts.Now()
	c.mu.Unlock()

	infra.FXRefreshTotal.WithLabelValues("ok").Inc()
	c.opts.Logger.Info("fx rates refreshed", zap.Int("merged", merged))

	if c.opts.Snapshots != nil {
		if err := c.opts.Snapshots.Save(ctx, c.snapshot()); err != nil {
			c.opts.Logger.Warn("fx snapshot save failed", zap.Error(err))
		}
	}
	return nil
}

// Warm seeds the cache from the persisted snapshot so a restart during a
// provider outage starts from last known rates instead of the defaults.
func (c *Converter) Warm(ctx context.Context) error {
	if c.opts.Snapshots == nil {
		return nil
	}
	snap, ok, err := c.opts.Snapshots.Load(ctx)
	if err != nil || !ok {
		return err
	}
	c.mu.Lock()
	for code, rate := range snap.Rates {
		if code.Supported() && rate.IsPositive() {
			c.rates[code] = rate
		}
	}
	c.rates[types.BaseCurrency] = decimal.NewFromInt(1)
	c.updatedAt = snap.UpdatedAt
	c.mu.Unlock()
	return nil
}

// Run refreshes on a TTL ticker until ctx is done.
func (c *Converter) Run(ctx context.Context) {
	if c.stale() {
		_ = c.Refresh(ctx)
	}
	ticker := time.NewTicker(c.opts.TTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Refresh(ctx)
		}
	}
}

func (c *Converter) ensureFresh(ctx context.Context) {
	if c.stale() {
		_ = c.Refresh(ctx)
	}
}

func (c *Converter) stale() bool {
	if c.provider == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.opts.Now()
	if now.Sub(c.attemptedAt) < c.opts.RetryInterval {
		return false
	}
	return c.updatedAt.IsZero() || now.Sub(c.updatedAt) >= c.opts.TTL
}

func (c *Converter) snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rates := make(map[types.Currency]decimal.Decimal, len(c.rates))
	for k, v := range c.rates {
		rates[k] = v
	}
	return Snapshot{Base: types.BaseCurrency, Rates: rates, UpdatedAt: c.updatedAt}
}
