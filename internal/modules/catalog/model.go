// README: Catalog entities read by the price calculation engine. All prices are JPY.
package catalog

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("catalog entry not found")

type Tour struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	DurationDays int    `json:"durationDays"`
	BasePrice    int64  `json:"basePrice"`
}

type Vehicle struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Seats            int    `json:"seats"`
	LuggageCapacity  int    `json:"luggageCapacity"`
	PricePerDay      int64  `json:"pricePerDay"`
	DriverCostPerDay int64  `json:"driverCostPerDay"`
}

type Hotel struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Stars           int    `json:"stars"`
	SingleRoomPrice int64  `json:"singleRoomPrice"`
	DoubleRoomPrice int64  `json:"doubleRoomPrice"`
	TripleRoomPrice int64  `json:"tripleRoomPrice"`
	BreakfastPrice  int64  `json:"breakfastPrice"`
}

type Guide struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Languages   []string `json:"languages"`
	PricePerDay int64    `json:"pricePerDay"`
}

type Season struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	StartMonth      int     `json:"startMonth"`
	EndMonth        int     `json:"endMonth"`
	PriceMultiplier float64 `json:"priceMultiplier"`
}

// Covers reports whether m falls in the inclusive month range. Ranges with
// StartMonth > EndMonth wrap over the new year (Dec..Feb).
func (s Season) Covers(m time.Month) bool {
	month := int(m)
	if s.StartMonth <= s.EndMonth {
		return month >= s.StartMonth && month <= s.EndMonth
	}
	return month >= s.StartMonth || month <= s.EndMonth
}

// PickSeason returns the season covering m with the highest multiplier, or nil.
func PickSeason(seasons []Season, m time.Month) *Season {
	var best *Season
	for i := range seasons {
		s := seasons[i]
		if !s.Covers(m) {
			continue
		}
		if best == nil || s.PriceMultiplier > best.PriceMultiplier {
			best = &s
		}
	}
	return best
}
