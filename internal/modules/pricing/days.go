package pricing

import "github.com/shopspring/decimal"

var (
	half = decimal.RequireFromString("0.5")
	one  = decimal.NewFromInt(1)
)

// DayPolicy is the deduction applied for an afternoon arrival (first day)
// and for a morning departure (last day).
type DayPolicy struct {
	FirstDay decimal.Decimal
	LastDay  decimal.Decimal
}

var (
	// ServiceDays covers vehicle, driver and guide time.
	ServiceDays = DayPolicy{FirstDay: half}
	LunchDays   = DayPolicy{FirstDay: one, LastDay: one}
	DinnerDays  = DayPolicy{}
)

// AdjustedDays applies the arrival/departure deductions of p to base and
// floors the result at zero.
func AdjustedDays(base int, arrival, departure TimeOfDay, p DayPolicy) decimal.Decimal {
	days := decimal.NewFromInt(int64(base))
	if arrival == Afternoon {
		days = days.Sub(p.FirstDay)
	}
	if departure == Morning {
		days = days.Sub(p.LastDay)
	}
	if days.IsNegative() {
		return decimal.Zero
	}
	return days
}

// durationDays is the ceiling of whole days between the dates, at least 1.
func durationDays(req CalculationRequest) int {
	hours := req.EndDate.Sub(req.StartDate).Hours()
	days := int(hours / 24)
	if float64(days)*24 < hours {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}
