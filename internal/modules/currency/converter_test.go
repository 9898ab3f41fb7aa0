package currency

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourquote/internal/types"
)

type fakeProvider struct {
	calls atomic.Int32
	rates map[types.Currency]decimal.Decimal
	err   error
}

func (f *fakeProvider) Fetch(context.Context) (map[types.Currency]decimal.Decimal, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memorySnapshots struct {
	snap  Snapshot
	saved int
}

func (m *memorySnapshots) Load(context.Context) (Snapshot, bool, error) {
	return m.snap, m.snap.Rates != nil, nil
}

func (m *memorySnapshots) Save(_ context.Context, s Snapshot) error {
	m.snap = s
	m.saved++
	return nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestConverter(p RateProvider) (*Converter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	return NewConverter(p, Options{TTL: time.Hour, Now: clock.Now}), clock
}

func TestConvert_Identity(t *testing.T) {
	p := &fakeProvider{rates: DefaultRates()}
	c, _ := newTestConverter(p)

	for _, cur := range types.SupportedCurrencies {
		got, err := c.Convert(context.Background(), d("12345.67"), cur, cur)
		require.NoError(t, err)
		assert.True(t, got.Equal(d("12345.67")), cur)
	}
	assert.Equal(t, int32(0), p.calls.Load(), "identity must not hit the provider")
}

func TestConvert_JPYToUSD(t *testing.T) {
	p := &fakeProvider{rates: map[types.Currency]decimal.Decimal{types.USD: d("0.0067")}}
	c, _ := newTestConverter(p)

	got, err := c.Convert(context.Background(), decimal.NewFromInt(100000), types.JPY, types.USD)
	require.NoError(t, err)
	assert.InDelta(t, 670.0, got.InexactFloat64(), 1e-9)
}

func TestConvert_RoundTrip(t *testing.T) {
	c, _ := newTestConverter(&fakeProvider{rates: DefaultRates()})
	ctx := context.Background()
	amount := decimal.NewFromInt(123456)

	for _, cur := range types.SupportedCurrencies {
		there, err := c.Convert(ctx, amount, types.JPY, cur)
		require.NoError(t, err)
		back, err := c.Convert(ctx, there, cur, types.JPY)
		require.NoError(t, err)
		assert.InEpsilon(t, amount.InexactFloat64(), back.InexactFloat64(), 1e-9, cur)
	}
}

func TestConvert_CrossCurrencyGoesThroughJPY(t *testing.T) {
	c, _ := newTestConverter(&fakeProvider{rates: map[types.Currency]decimal.Decimal{
		types.USD: d("0.005"),
		types.VND: d("150"),
	}})

	// 10 USD = 2000 JPY = 300000 VND
	got, err := c.Convert(context.Background(), decimal.NewFromInt(10), types.USD, types.VND)
	require.NoError(t, err)
	assert.InDelta(t, 300000.0, got.InexactFloat64(), 1e-6)
}

func TestConvert_UnsupportedCurrency(t *testing.T) {
	c, _ := newTestConverter(&fakeProvider{rates: DefaultRates()})

	_, err := c.Convert(context.Background(), decimal.NewFromInt(1), types.JPY, types.Currency("EUR"))
	require.ErrorIs(t, err, ErrUnsupportedCurrency)
}

func TestConvert_ProviderFailureFallsBackToDefaults(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	c, _ := newTestConverter(p)

	got, err := c.Convert(context.Background(), decimal.NewFromInt(100000), types.JPY, types.USD)
	require.NoError(t, err)
	assert.InDelta(t, 670.0, got.InexactFloat64(), 1e-9)
	assert.Equal(t, int32(1), p.calls.Load())

	// A failed attempt is not retried on every call.
	_, err = c.Convert(context.Background(), decimal.NewFromInt(1), types.JPY, types.USD)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestConvert_RefreshesWhenStale(t *testing.T) {
	p := &fakeProvider{rates: map[types.Currency]decimal.Decimal{types.USD: d("0.007")}}
	c, clock := newTestConverter(p)
	ctx := context.Background()

	_, err := c.Convert(ctx, decimal.NewFromInt(1), types.JPY, types.USD)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.calls.Load())

	clock.Advance(30 * time.Minute)
	_, _ = c.Convert(ctx, decimal.NewFromInt(1), types.JPY, types.USD)
	assert.Equal(t, int32(1), p.calls.Load(), "fresh cache must be reused")

	p.rates = map[types.Currency]decimal.Decimal{types.USD: d("0.008")}
	clock.Advance(31 * time.Minute)
	got, err := c.Convert(ctx, decimal.NewFromInt(1000), types.JPY, types.USD)
	require.NoError(t, err)
	assert.Equal(t, int32(2), p.calls.Load())
	assert.True(t, got.Equal(d("8")), got.String())
}

func TestConvert_StaleRatesSurviveFailedRefresh(t *testing.T) {
	p := &fakeProvider{rates: map[types.Currency]decimal.Decimal{types.USD: d("0.01")}}
	c, clock := newTestConverter(p)
	ctx := context.Background()

	require.NoError(t, c.Refresh(ctx))
	p.err = errors.New("timeout")
	clock.Advance(2 * time.Hour)

	got, err := c.Convert(ctx, decimal.NewFromInt(100), types.JPY, types.USD)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1)), got.String())
}

func TestRefresh_IgnoresInvalidRates(t *testing.T) {
	p := &fakeProvider{rates: map[types.Currency]decimal.Decimal{
		types.USD:             d("-1"),
		types.KRW:             decimal.Zero,
		types.CNY:             d("0.05"),
		types.Currency("EUR"): d("0.006"),
		types.JPY:             d("2"),
	}}
	c, _ := newTestConverter(p)
	require.NoError(t, c.Refresh(context.Background()))

	snap := c.Rates(context.Background())
	assert.True(t, snap.Rates[types.USD].Equal(d("0.0067")))
	assert.True(t, snap.Rates[types.KRW].Equal(d("9.1")))
	assert.True(t, snap.Rates[types.CNY].Equal(d("0.05")))
	assert.True(t, snap.Rates[types.JPY].Equal(decimal.NewFromInt(1)))
	_, hasEUR := snap.Rates[types.Currency("EUR")]
	assert.False(t, hasEUR)
}

func TestRefresh_PersistsAndWarms(t *testing.T) {
	store := &memorySnapshots{}
	clock := &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	p := &fakeProvider{rates: map[types.Currency]decimal.Decimal{types.USD: d("0.0071")}}

	c := NewConverter(p, Options{TTL: time.Hour, Now: clock.Now, Snapshots: store})
	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, 1, store.saved)

	down := &fakeProvider{err: errors.New("down")}
	restarted := NewConverter(down, Options{TTL: time.Hour, Now: clock.Now, Snapshots: store})
	require.NoError(t, restarted.Warm(context.Background()))

	got, err := restarted.Convert(context.Background(), decimal.NewFromInt(1000), types.JPY, types.USD)
	require.NoError(t, err)
	assert.True(t, got.Equal(d("7.1")), got.String())
	assert.Equal(t, int32(0), down.calls.Load(), "warm snapshot is still fresh")
}

func TestRefresh_ConcurrentCallersShareFetch(t *testing.T) {
	block := make(chan struct{})
	p := &blockingProvider{release: block}
	c, _ := newTestConverter(p)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Refresh(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(block)
	wg.Wait()

	assert.Equal(t, int32(1), p.calls.Load())
}

type blockingProvider struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingProvider) Fetch(ctx context.Context) (map[types.Currency]decimal.Decimal, error) {
	b.calls.Add(1)
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return DefaultRates(), nil
}
