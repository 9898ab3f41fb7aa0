// README: Price calculation engine: layered tour cost breakdown plus currency conversion.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tourquote/internal/infra"
	"tourquote/internal/modules/catalog"
	"tourquote/internal/modules/settings"
	"tourquote/internal/types"
)

type Catalog interface {
	GetTour(ctx context.Context, id int64) (catalog.Tour, error)
	GetVehicle(ctx context.Context, id int64) (catalog.Vehicle, error)
	GetHotel(ctx context.Context, id int64) (catalog.Hotel, error)
	GetGuide(ctx context.Context, id int64) (catalog.Guide, error)
	SeasonByMonth(ctx context.Context, m time.Month) (*catalog.Season, error)
}

type Settings interface {
	Pricing(ctx context.Context) (settings.Pricing, error)
}

type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to types.Currency) (decimal.Decimal, error)
}

type Service struct {
	catalog  Catalog
	settings Settings
	fx       Converter
	logger   *zap.Logger
}

func NewService(c Catalog, s Settings, fx Converter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: c, settings: s, fx: fx, logger: logger}
}

func (s *Service) Calculate(ctx context.Context, req CalculationRequest) (CalculationResult, error) {
	start := time.Now()
	res, err := s.calculate(ctx, req)
	infra.CalculationSeconds.Observe(time.Since(start).Seconds())
	infra.CalculationsTotal.WithLabelValues(outcome(err)).Inc()

	var compErr *ComputationError
	if errors.As(err, &compErr) {
		s.logger.Error("price computation defect",
			zap.Int64("tour_id", req.TourID), zap.String("step", compErr.Step), zap.String("value", compErr.Value))
	}
	return res, err
}

type costs struct {
	base, vehicle, driver, hotel, meals, guide decimal.Decimal
}

func (s *Service) calculate(ctx context.Context, req CalculationRequest) (CalculationResult, error) {
	tour, err := s.catalog.GetTour(ctx, req.TourID)
	if err != nil {
		return CalculationResult{}, lookupErr("tour", req.TourID, err)
	}
	vehicle, err := s.catalog.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return CalculationResult{}, lookupErr("vehicle", req.VehicleID, err)
	}
	var guide *catalog.Guide
	if req.IncludeGuide {
		g, err := s.catalog.GetGuide(ctx, req.GuideID)
		if err != nil {
			return CalculationResult{}, lookupErr("guide", req.GuideID, err)
		}
		guide = &g
	}
	season, err := s.catalog.SeasonByMonth(ctx, req.StartDate.Month())
	if err != nil {
		return CalculationResult{}, fmt.Errorf("load season: %w", err)
	}
	cfg, err := s.settings.Pricing(ctx)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("load pricing settings: %w", err)
	}

	duration := durationDays(req)
	participants := decimal.NewFromInt(int64(req.Participants))
	vehicleCount := decimal.NewFromInt(int64(req.VehicleCount))
	serviceDays := AdjustedDays(duration, req.ArrivalTime, req.DepartureTime, ServiceDays)
	lunchDays := AdjustedDays(duration, req.ArrivalTime, req.DepartureTime, LunchDays)
	dinnerDays := AdjustedDays(duration, req.ArrivalTime, req.DepartureTime, DinnerDays)
	nights := duration - 1

	var c costs
	c.base = jpy(tour.BasePrice).Mul(participants)
	c.vehicle = jpy(vehicle.PricePerDay).Mul(serviceDays).Mul(vehicleCount)
	c.driver = jpy(vehicle.DriverCostPerDay).Mul(serviceDays).Mul(vehicleCount)

	var hotelInfo *HotelPricing
	var rates RoomRates
	hotelActive := req.Hotel.Kind != HotelNone && req.hasRoomConfig() && nights > 0
	if hotelActive {
		rates, hotelInfo, err = s.resolveRates(ctx, req.Hotel)
		if err != nil {
			return CalculationResult{}, err
		}
		rooms := roomsFor(req)
		hotelInfo.Rooms = rooms
		n := decimal.NewFromInt(int64(nights))
		perNight := jpy(rates.Single).Mul(decimal.NewFromInt(int64(rooms.Single))).
			Add(jpy(rates.Double).Mul(decimal.NewFromInt(int64(rooms.Double)))).
			Add(jpy(rates.Triple).Mul(decimal.NewFromInt(int64(rooms.Triple))))
		c.hotel = perNight.Mul(n)
		if req.IncludeBreakfast {
			c.hotel = c.hotel.Add(jpy(rates.Breakfast).Mul(participants).Mul(n))
		}
	}

	mealSet := decimal.Zero
	if req.IncludeLunch {
		mealSet = mealSet.Add(cfg.LunchPrice.Mul(lunchDays))
	}
	if req.IncludeDinner {
		mealSet = mealSet.Add(cfg.DinnerPrice.Mul(dinnerDays))
	}
	c.meals = mealSet.Mul(participants)

	guideDays := decimal.Zero
	if guide != nil {
		guideDays = serviceDays
		c.guide = jpy(guide.PricePerDay).Mul(guideDays)
		// The guide stays in a single room and eats with the group.
		if hotelActive {
			n := decimal.NewFromInt(int64(nights))
			c.hotel = c.hotel.Add(jpy(rates.Single).Mul(n))
			if req.IncludeBreakfast {
				c.hotel = c.hotel.Add(jpy(rates.Breakfast).Mul(n))
			}
		}
		c.meals = c.meals.Add(mealSet)
	}

	multiplier := one
	seasonName := ""
	if season != nil {
		multiplier = decimal.NewFromFloat(season.PriceMultiplier)
		seasonName = season.Name
	}

	subtotal := c.base.Add(c.vehicle).Add(c.driver).Add(c.hotel).Add(c.meals).Add(c.guide).Mul(multiplier)
	profit := subtotal.Mul(cfg.ProfitMarginRate)
	beforeTax := subtotal.Add(profit)
	tax := beforeTax.Mul(cfg.TaxRate)
	total := beforeTax.Add(tax)

	if err := checkNonNegative(map[string]decimal.Decimal{
		"baseCost": c.base, "vehicleCost": c.vehicle, "driverCost": c.driver,
		"hotelCost": c.hotel, "mealsCost": c.meals, "guideCost": c.guide,
		"seasonMultiplier": multiplier, "subtotal": subtotal,
		"profitAmount": profit, "taxAmount": tax, "totalAmount": total,
	}); err != nil {
		return CalculationResult{}, err
	}

	converted, err := s.fx.Convert(ctx, total, types.BaseCurrency, req.Currency)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("convert total: %w", err)
	}

	res := CalculationResult{
		Tour:    TourSummary{ID: tour.ID, Name: tour.Name, Location: tour.Location, DurationDays: tour.DurationDays},
		Vehicle: VehicleSummary{ID: vehicle.ID, Name: vehicle.Name, Seats: vehicle.Seats},
		Calculation: CalculationDetails{
			StartDate:        req.StartDate.Format(dateLayout),
			EndDate:          req.EndDate.Format(dateLayout),
			DurationDays:     duration,
			Participants:     req.Participants,
			VehicleCount:     req.VehicleCount,
			VehicleDays:      serviceDays.InexactFloat64(),
			GuideDays:        guideDays.InexactFloat64(),
			LunchDays:        lunchDays.InexactFloat64(),
			DinnerDays:       dinnerDays.InexactFloat64(),
			NumNights:        max(nights, 0),
			SeasonName:       seasonName,
			SeasonMultiplier: multiplier.InexactFloat64(),
			HotelPricing:     hotelInfo,
			ProfitMarginRate: cfg.ProfitMarginRate.InexactFloat64(),
			TaxRate:          cfg.TaxRate.InexactFloat64(),
		},
		Costs: CostBreakdown{
			BaseCost:     c.base.InexactFloat64(),
			VehicleCost:  c.vehicle.InexactFloat64(),
			DriverCost:   c.driver.InexactFloat64(),
			HotelCost:    c.hotel.InexactFloat64(),
			MealsCost:    c.meals.InexactFloat64(),
			GuideCost:    c.guide.InexactFloat64(),
			Subtotal:     subtotal.InexactFloat64(),
			ProfitAmount: profit.InexactFloat64(),
			TaxAmount:    tax.InexactFloat64(),
			TotalAmount:  total.InexactFloat64(),
		},
		Currency:                 req.Currency,
		TotalInRequestedCurrency: converted.InexactFloat64(),
		FormattedTotal:           types.FormatAmount(converted, req.Currency),
	}
	if guide != nil {
		res.Guide = &GuideSummary{ID: guide.ID, Name: guide.Name, Languages: guide.Languages}
	}
	return res, nil
}

func (s *Service) resolveRates(ctx context.Context, src HotelPricingSource) (RoomRates, *HotelPricing, error) {
	switch src.Kind {
	case HotelStarTier:
		r, ok := StarTierRates(src.Stars)
		if !ok {
			verr := &ValidationError{}
			verr.add("hotelStars", "must be one of: 3, 4, 5")
			return RoomRates{}, nil, verr
		}
		return r, &HotelPricing{Source: HotelStarTier, Stars: src.Stars}, nil
	case HotelSpecific:
		h, err := s.catalog.GetHotel(ctx, src.HotelID)
		if err != nil {
			return RoomRates{}, nil, lookupErr("hotel", src.HotelID, err)
		}
		r := RoomRates{Single: h.SingleRoomPrice, Double: h.DoubleRoomPrice, Triple: h.TripleRoomPrice, Breakfast: h.BreakfastPrice}
		return r, &HotelPricing{Source: HotelSpecific, Stars: h.Stars, HotelID: h.ID, HotelName: h.Name}, nil
	}
	return RoomRates{}, nil, fmt.Errorf("unknown hotel pricing source %q", src.Kind)
}

func lookupErr(entity string, id int64, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id, Err: err}
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}

func checkNonNegative(values map[string]decimal.Decimal) error {
	for step, v := range values {
		if v.IsNegative() {
			return &ComputationError{Step: step, Value: v.String()}
		}
	}
	return nil
}

func jpy(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func outcome(err error) string {
	var (
		verr *ValidationError
		nerr *NotFoundError
		cerr *ComputationError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &nerr):
		return "not_found"
	case errors.As(err, &cerr):
		return "computation"
	}
	return "error"
}
