// README: Calculation request/result types for the tour price engine.
package pricing

import (
	"time"

	"tourquote/internal/types"
)

// TimeOfDay marks whether the client lands/leaves before or after noon.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Unknown   TimeOfDay = "unknown"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
)

// RoomCounts is set only when the client picked explicit room counts.
type RoomCounts struct {
	Single int
	Double int
	Triple int
}

type HotelSourceKind string

const (
	HotelNone     HotelSourceKind = ""
	HotelStarTier HotelSourceKind = "star_tier"
	HotelSpecific HotelSourceKind = "hotel"
)

// HotelPricingSource says where room rates come from: the fixed star-tier
// table or a specific hotel record.
type HotelPricingSource struct {
	Kind    HotelSourceKind
	Stars   int
	HotelID int64
}

func StarTier(stars int) HotelPricingSource {
	return HotelPricingSource{Kind: HotelStarTier, Stars: stars}
}

func SpecificHotel(id int64) HotelPricingSource {
	return HotelPricingSource{Kind: HotelSpecific, HotelID: id}
}

// RoomRates are JPY per room per night, breakfast per person per night.
type RoomRates struct {
	Single    int64
	Double    int64
	Triple    int64
	Breakfast int64
}

// CalculationRequest is a validated request. Build it with ParseRequest.
type CalculationRequest struct {
	TourID        int64
	VehicleID     int64
	StartDate     time.Time
	EndDate       time.Time
	Participants  int
	VehicleCount  int
	ArrivalTime   TimeOfDay
	DepartureTime TimeOfDay

	Hotel      HotelPricingSource
	RoomType   RoomType
	RoomCounts *RoomCounts

	IncludeBreakfast bool
	IncludeLunch     bool
	IncludeDinner    bool
	IncludeGuide     bool
	GuideID          int64

	Currency types.Currency
}

func (r CalculationRequest) hasRoomConfig() bool {
	return r.RoomType != "" || r.RoomCounts != nil
}

type TourSummary struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	DurationDays int    `json:"durationDays"`
}

type VehicleSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Seats int    `json:"seats"`
}

type GuideSummary struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Languages []string `json:"languages"`
}

type HotelPricing struct {
	Source    HotelSourceKind `json:"source"`
	Stars     int             `json:"stars,omitempty"`
	HotelID   int64           `json:"hotelId,omitempty"`
	HotelName string          `json:"hotelName,omitempty"`
	Rooms     RoomCounts      `json:"rooms"`
}

type CalculationDetails struct {
	StartDate        string        `json:"startDate"`
	EndDate          string        `json:"endDate"`
	DurationDays     int           `json:"durationDays"`
	Participants     int           `json:"participants"`
	VehicleCount     int           `json:"vehicleCount"`
	VehicleDays      float64       `json:"vehicleDays"`
	GuideDays        float64       `json:"guideDays"`
	LunchDays        float64       `json:"lunchDays"`
	DinnerDays       float64       `json:"dinnerDays"`
	NumNights        int           `json:"numNights"`
	SeasonName       string        `json:"seasonName,omitempty"`
	SeasonMultiplier float64       `json:"seasonMultiplier"`
	HotelPricing     *HotelPricing `json:"hotelPricing,omitempty"`
	ProfitMarginRate float64       `json:"profitMarginRate"`
	TaxRate          float64       `json:"taxRate"`
}

// CostBreakdown is in JPY.
type CostBreakdown struct {
	BaseCost     float64 `json:"baseCost"`
	VehicleCost  float64 `json:"vehicleCost"`
	DriverCost   float64 `json:"driverCost"`
	HotelCost    float64 `json:"hotelCost"`
	MealsCost    float64 `json:"mealsCost"`
	GuideCost    float64 `json:"guideCost"`
	Subtotal     float64 `json:"subtotal"`
	ProfitAmount float64 `json:"profitAmount"`
	TaxAmount    float64 `json:"taxAmount"`
	TotalAmount  float64 `json:"totalAmount"`
}

type CalculationResult struct {
	Tour                     TourSummary        `json:"tour"`
	Vehicle                  VehicleSummary     `json:"vehicle"`
	Guide                    *GuideSummary      `json:"guide,omitempty"`
	Calculation              CalculationDetails `json:"calculation"`
	Costs                    CostBreakdown      `json:"costs"`
	Currency                 types.Currency     `json:"currency"`
	TotalInRequestedCurrency float64            `json:"totalInRequestedCurrency"`
	FormattedTotal           string             `json:"formattedTotal"`
}
