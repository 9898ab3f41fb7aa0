package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourquote/internal/modules/catalog"
	"tourquote/internal/modules/currency"
	"tourquote/internal/modules/settings"
	"tourquote/internal/types"
)

type fakeCatalog struct {
	tours    map[int64]catalog.Tour
	vehicles map[int64]catalog.Vehicle
	hotels   map[int64]catalog.Hotel
	guides   map[int64]catalog.Guide
	seasons  []catalog.Season
	err      error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		tours: map[int64]catalog.Tour{
			1: {ID: 1, Name: "Kyoto Temples & Tea", Location: "Kyoto", DurationDays: 1, BasePrice: 15000},
			2: {ID: 2, Name: "Private Charter", Location: "Tokyo", DurationDays: 1, BasePrice: 100000},
		},
		vehicles: map[int64]catalog.Vehicle{
			1: {ID: 1, Name: "Alphard Van", Seats: 6, PricePerDay: 20000, DriverCostPerDay: 10000},
			2: {ID: 2, Name: "Client Car", Seats: 4},
		},
		hotels: map[int64]catalog.Hotel{
			7: {ID: 7, Name: "Granvia", Stars: 4, SingleRoomPrice: 11000, DoubleRoomPrice: 13000, TripleRoomPrice: 16000, BreakfastPrice: 2000},
		},
		guides: map[int64]catalog.Guide{
			3: {ID: 3, Name: "Aiko", Languages: []string{"ja", "en"}, PricePerDay: 25000},
		},
	}
}

func (f *fakeCatalog) GetTour(_ context.Context, id int64) (catalog.Tour, error) {
	if f.err != nil {
		return catalog.Tour{}, f.err
	}
	t, ok := f.tours[id]
	if !ok {
		return t, catalog.ErrNotFound
	}
	return t, nil
}

func (f *fakeCatalog) GetVehicle(_ context.Context, id int64) (catalog.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return v, catalog.ErrNotFound
	}
	return v, nil
}

func (f *fakeCatalog) GetHotel(_ context.Context, id int64) (catalog.Hotel, error) {
	h, ok := f.hotels[id]
	if !ok {
		return h, catalog.ErrNotFound
	}
	return h, nil
}

func (f *fakeCatalog) GetGuide(_ context.Context, id int64) (catalog.Guide, error) {
	g, ok := f.guides[id]
	if !ok {
		return g, catalog.ErrNotFound
	}
	return g, nil
}

func (f *fakeCatalog) SeasonByMonth(_ context.Context, m time.Month) (*catalog.Season, error) {
	return catalog.PickSeason(f.seasons, m), nil
}

type fakeSettings struct{ p settings.Pricing }

func (f fakeSettings) Pricing(context.Context) (settings.Pricing, error) { return f.p, nil }

func defaultPricing() settings.Pricing {
	return settings.Pricing{
		ProfitMarginRate: decimal.RequireFromString("0.2"),
		TaxRate:          decimal.RequireFromString("0.1"),
		LunchPrice:       decimal.NewFromInt(2200),
		DinnerPrice:      decimal.NewFromInt(3000),
	}
}

type staticRates map[types.Currency]decimal.Decimal

func (r staticRates) Fetch(context.Context) (map[types.Currency]decimal.Decimal, error) {
	return r, nil
}

func newTestService(cat *fakeCatalog, p settings.Pricing) *Service {
	fx := currency.NewConverter(staticRates{types.USD: decimal.RequireFromString("0.0067")}, currency.Options{})
	return NewService(cat, fakeSettings{p: p}, fx, nil)
}

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func baseRequest() CalculationRequest {
	return CalculationRequest{
		TourID:        1,
		VehicleID:     2,
		StartDate:     day("2026-06-10"),
		EndDate:       day("2026-06-10"),
		Participants:  2,
		VehicleCount:  1,
		ArrivalTime:   Unknown,
		DepartureTime: Unknown,
		Currency:      types.JPY,
	}
}

func TestCalculate_BaseCostOnlyOneDay(t *testing.T) {
	svc := newTestService(newFakeCatalog(), defaultPricing())

	res, err := svc.Calculate(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Calculation.DurationDays)
	assert.Equal(t, 0, res.Calculation.NumNights)
	assert.Equal(t, 30000.0, res.Costs.BaseCost)
	assert.Equal(t, 0.0, res.Costs.HotelCost)
	assert.Equal(t, 0.0, res.Costs.MealsCost)
	assert.Equal(t, 30000.0, res.Costs.Subtotal)
	assert.Equal(t, 6000.0, res.Costs.ProfitAmount)
	assert.Equal(t, 3600.0, res.Costs.TaxAmount)
	assert.Equal(t, 39600.0, res.Costs.TotalAmount)
	assert.Equal(t, 39600.0, res.TotalInRequestedCurrency)
	assert.Equal(t, "JPY 39,600", res.FormattedTotal)
	assert.Equal(t, "Kyoto Temples & Tea", res.Tour.Name)
}

func TestCalculate_SeasonMultiplierScalesSubtotal(t *testing.T) {
	cat := newFakeCatalog()
	req := baseRequest()
	req.VehicleID = 1
	req.EndDate = day("2026-06-12")
	req.IncludeLunch = true

	plain, err := newTestService(cat, defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1.0, plain.Calculation.SeasonMultiplier)

	cat.seasons = []catalog.Season{{ID: 1, Name: "Rainy", StartMonth: 6, EndMonth: 6, PriceMultiplier: 1.3}}
	peak, err := newTestService(cat, defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Rainy", peak.Calculation.SeasonName)
	assert.Equal(t, plain.Costs.BaseCost, peak.Costs.BaseCost)
	assert.InDelta(t, plain.Costs.Subtotal*1.3, peak.Costs.Subtotal, 1e-6)
}

func TestCalculate_StarTierDoubleRooms(t *testing.T) {
	req := baseRequest()
	req.Participants = 3
	req.StartDate, req.EndDate = day("2026-06-01"), day("2026-06-04")
	req.Hotel = StarTier(3)
	req.RoomType = RoomDouble

	res, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Calculation.DurationDays)
	assert.Equal(t, 2, res.Calculation.NumNights)
	assert.Equal(t, 28000.0, res.Costs.HotelCost)
	require.NotNil(t, res.Calculation.HotelPricing)
	assert.Equal(t, HotelStarTier, res.Calculation.HotelPricing.Source)
	assert.Equal(t, RoomCounts{Double: 2}, res.Calculation.HotelPricing.Rooms)
}

func TestCalculate_LunchAfterAfternoonArrival(t *testing.T) {
	req := baseRequest()
	req.Participants = 1
	req.StartDate, req.EndDate = day("2026-06-01"), day("2026-06-03")
	req.ArrivalTime = Afternoon
	req.IncludeLunch = true

	res, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Calculation.DurationDays)
	assert.Equal(t, 1.0, res.Calculation.LunchDays)
	assert.Equal(t, 2200.0, res.Costs.MealsCost)
}

func TestCalculate_ConvertsTotalToUSD(t *testing.T) {
	req := baseRequest()
	req.TourID = 2
	req.Participants = 1
	req.Currency = types.USD

	p := defaultPricing()
	p.ProfitMarginRate, p.TaxRate = decimal.Zero, decimal.Zero

	res, err := newTestService(newFakeCatalog(), p).Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 100000.0, res.Costs.TotalAmount)
	assert.Equal(t, types.USD, res.Currency)
	assert.InDelta(t, 670.0, res.TotalInRequestedCurrency, 1e-6)
	assert.Equal(t, "USD 670.00", res.FormattedTotal)
}

func TestCalculate_VehicleHalfDayAndCount(t *testing.T) {
	req := baseRequest()
	req.VehicleID = 1
	req.VehicleCount = 2
	req.StartDate, req.EndDate = day("2026-06-01"), day("2026-06-03")
	req.ArrivalTime = Afternoon

	res, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1.5, res.Calculation.VehicleDays)
	assert.Equal(t, 60000.0, res.Costs.VehicleCost)
	assert.Equal(t, 30000.0, res.Costs.DriverCost)
}

func TestCalculate_ShortestTripFloorsLunch(t *testing.T) {
	req := baseRequest()
	req.ArrivalTime = Afternoon
	req.DepartureTime = Morning
	req.IncludeLunch = true
	req.IncludeDinner = true
	req.Participants = 1

	res, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.Calculation.LunchDays)
	assert.Equal(t, 1.0, res.Calculation.DinnerDays)
	assert.Equal(t, 0.5, res.Calculation.VehicleDays)
	assert.Equal(t, 3000.0, res.Costs.MealsCost)
}

func TestCalculate_ExplicitCountsAtSpecificHotel(t *testing.T) {
	req := baseRequest()
	req.Participants = 3
	req.StartDate, req.EndDate = day("2026-06-01"), day("2026-06-04")
	req.Hotel = SpecificHotel(7)
	req.RoomType = RoomTriple
	req.RoomCounts = &RoomCounts{Single: 1, Double: 1}
	req.IncludeBreakfast = true

	res, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)

	// (11000 + 13000) * 2 nights + 2000 * 3 people * 2 nights
	assert.Equal(t, 60000.0, res.Costs.HotelCost)
	assert.Equal(t, "Granvia", res.Calculation.HotelPricing.HotelName)
}

func TestCalculate_RoomTypeWithoutHotelSource(t *testing.T) {
	req := baseRequest()
	req.StartDate, req.EndDate = day("2026-06-01"), day("2026-06-04")
	req.RoomType = RoomSingle
	req.IncludeBreakfast = true

	res, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Costs.HotelCost)
	assert.Nil(t, res.Calculation.HotelPricing)
}

func TestCalculate_GuideSharesRoomAndMeals(t *testing.T) {
	req := baseRequest()
	req.StartDate, req.EndDate = day("2026-06-01"), day("2026-06-04")
	req.Hotel = StarTier(3)
	req.RoomType = RoomSingle
	req.IncludeBreakfast = true
	req.IncludeLunch = true
	req.IncludeDinner = true
	req.IncludeGuide = true
	req.GuideID = 3

	res, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)

	// rooms 6000*2*2 + breakfast 1500*2*2, guide room 6000*2 + breakfast 1500*2
	assert.Equal(t, 45000.0, res.Costs.HotelCost)
	// (2200*3 + 3000*3) * 2 participants + one set for the guide
	assert.Equal(t, 46800.0, res.Costs.MealsCost)
	assert.Equal(t, 75000.0, res.Costs.GuideCost)
	assert.Equal(t, 3.0, res.Calculation.GuideDays)
	require.NotNil(t, res.Guide)
	assert.Equal(t, "Aiko", res.Guide.Name)
}

func TestCalculate_ParticipantsMonotonic(t *testing.T) {
	svc := newTestService(newFakeCatalog(), defaultPricing())
	req := baseRequest()
	req.StartDate, req.EndDate = day("2026-06-01"), day("2026-06-04")
	req.Hotel = StarTier(4)
	req.RoomType = RoomDouble
	req.IncludeLunch = true
	req.IncludeDinner = true

	var prev CostBreakdown
	for p := 1; p <= 12; p++ {
		req.Participants = p
		res, err := svc.Calculate(context.Background(), req)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Costs.BaseCost, prev.BaseCost)
		assert.GreaterOrEqual(t, res.Costs.MealsCost, prev.MealsCost)
		assert.GreaterOrEqual(t, res.Costs.HotelCost, prev.HotelCost)
		prev = res.Costs
	}
}

func TestCalculate_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CalculationRequest)
		entity string
	}{
		{"tour", func(r *CalculationRequest) { r.TourID = 99 }, "tour"},
		{"vehicle", func(r *CalculationRequest) { r.VehicleID = 99 }, "vehicle"},
		{"guide", func(r *CalculationRequest) { r.IncludeGuide, r.GuideID = true, 99 }, "guide"},
		{"hotel", func(r *CalculationRequest) {
			r.EndDate = day("2026-06-12")
			r.Hotel = SpecificHotel(99)
			r.RoomType = RoomDouble
		}, "hotel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)

			_, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
			var nerr *NotFoundError
			require.True(t, errors.As(err, &nerr), "got %v", err)
			assert.Equal(t, tt.entity, nerr.Entity)
			assert.Equal(t, int64(99), nerr.ID)
			assert.ErrorIs(t, err, catalog.ErrNotFound)
		})
	}
}

func TestCalculate_GuideNotLookedUpWhenExcluded(t *testing.T) {
	req := baseRequest()
	req.GuideID = 99

	_, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)
}

func TestCalculate_StoreFailureIsNotNotFound(t *testing.T) {
	cat := newFakeCatalog()
	cat.err = errors.New("connection reset")

	_, err := newTestService(cat, defaultPricing()).Calculate(context.Background(), baseRequest())
	require.Error(t, err)
	var nerr *NotFoundError
	assert.False(t, errors.As(err, &nerr))
}

func TestCalculate_NegativeIntermediateFails(t *testing.T) {
	p := defaultPricing()
	p.ProfitMarginRate = decimal.RequireFromString("-2")

	_, err := newTestService(newFakeCatalog(), p).Calculate(context.Background(), baseRequest())
	var cerr *ComputationError
	require.True(t, errors.As(err, &cerr), "got %v", err)
}

func TestCalculate_ZeroVehicleCountDoesNotPanic(t *testing.T) {
	req := baseRequest()
	req.VehicleID = 1
	req.VehicleCount = 0

	res, err := newTestService(newFakeCatalog(), defaultPricing()).Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Costs.VehicleCost)
}
