// README: Calculator request schema; tag validation and conversion into a CalculationRequest.
package pricing

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tourquote/internal/types"
)

const dateLayout = "2006-01-02"

// MaxGroupSize bounds participants, vehicles and rooms on a single quotation.
const MaxGroupSize = 1000

// CalculatorInput is the JSON body of a calculation request.
type CalculatorInput struct {
	TourID        int64  `json:"tourId" validate:"required,gt=0"`
	VehicleID     int64  `json:"vehicleId" validate:"required,gt=0"`
	StartDate     string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate       string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Participants  int    `json:"participants" validate:"min=1,max=1000"`
	VehicleCount  *int   `json:"vehicleCount,omitempty" validate:"omitempty,min=1,max=1000"`
	ArrivalTime   string `json:"arrivalTime,omitempty" validate:"omitempty,oneof=morning afternoon unknown"`
	DepartureTime string `json:"departureTime,omitempty" validate:"omitempty,oneof=morning afternoon unknown"`

	HotelStars      *int   `json:"hotelStars,omitempty" validate:"omitempty,oneof=3 4 5"`
	HotelID         *int64 `json:"hotelId,omitempty" validate:"omitempty,gt=0"`
	RoomType        string `json:"roomType,omitempty" validate:"omitempty,oneof=single double triple"`
	SingleRoomCount *int   `json:"singleRoomCount,omitempty" validate:"omitempty,min=0,max=1000"`
	DoubleRoomCount *int   `json:"doubleRoomCount,omitempty" validate:"omitempty,min=0,max=1000"`
	TripleRoomCount *int   `json:"tripleRoomCount,omitempty" validate:"omitempty,min=0,max=1000"`

	IncludeBreakfast bool   `json:"includeBreakfast"`
	IncludeLunch     bool   `json:"includeLunch"`
	IncludeDinner    bool   `json:"includeDinner"`
	IncludeGuide     bool   `json:"includeGuide"`
	GuideID          *int64 `json:"guideId,omitempty" validate:"omitempty,gt=0"`

	Currency string `json:"currency,omitempty" validate:"omitempty,oneof=JPY USD VND CNY KRW"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseRequest validates in and builds the engine request. Failures are
// always *ValidationError.
func ParseRequest(in CalculatorInput) (CalculationRequest, error) {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.ArrivalTime = strings.ToLower(strings.TrimSpace(in.ArrivalTime))
	in.DepartureTime = strings.ToLower(strings.TrimSpace(in.DepartureTime))
	in.RoomType = strings.ToLower(strings.TrimSpace(in.RoomType))

	verr := &ValidationError{}
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return CalculationRequest{}, err
		}
		for _, fe := range fieldErrs {
			verr.add(fe.Field(), describe(fe))
		}
	}

	start, startErr := time.Parse(dateLayout, in.StartDate)
	end, endErr := time.Parse(dateLayout, in.EndDate)
	if startErr == nil && endErr == nil && end.Before(start) {
		verr.add("endDate", "must not be before startDate")
	}
	if in.IncludeGuide && in.GuideID == nil {
		verr.add("guideId", "is required when includeGuide is true")
	}
	if len(verr.Fields) > 0 {
		return CalculationRequest{}, verr
	}

	req := CalculationRequest{
		TourID:           in.TourID,
		VehicleID:        in.VehicleID,
		StartDate:        start,
		EndDate:          end,
		Participants:     in.Participants,
		VehicleCount:     1,
		ArrivalTime:      timeOfDay(in.ArrivalTime),
		DepartureTime:    timeOfDay(in.DepartureTime),
		RoomType:         RoomType(in.RoomType),
		IncludeBreakfast: in.IncludeBreakfast,
		IncludeLunch:     in.IncludeLunch,
		IncludeDinner:    in.IncludeDinner,
		IncludeGuide:     in.IncludeGuide,
		Currency:         types.ParseCurrency(in.Currency),
	}
	if in.VehicleCount != nil {
		req.VehicleCount = *in.VehicleCount
	}
	// Star tier wins when both are present.
	switch {
	case in.HotelStars != nil:
		req.Hotel = StarTier(*in.HotelStars)
	case in.HotelID != nil:
		req.Hotel = SpecificHotel(*in.HotelID)
	}
	if in.SingleRoomCount != nil || in.DoubleRoomCount != nil || in.TripleRoomCount != nil {
		req.RoomCounts = &RoomCounts{
			Single: deref(in.SingleRoomCount),
			Double: deref(in.DoubleRoomCount),
			Triple: deref(in.TripleRoomCount),
		}
	}
	if in.IncludeGuide {
		req.GuideID = *in.GuideID
	}
	return req, nil
}

func timeOfDay(s string) TimeOfDay {
	if s == "" {
		return Unknown
	}
	return TimeOfDay(s)
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
