package health

import (
	"fmt"
	"time"
)

// DefaultFoodName names entries saved without a name.
const DefaultFoodName = "unnamed food"

// Totals are the summed macros of a day.
type Totals struct {
	ProteinGrams float64
	Calories     float64
}

// DailyNutritionTotals sums the entries whose date equals date.
func DailyNutritionTotals(entries []NutritionEntry, date string) Totals {
	var totals Totals
	for _, e := range entries {
		if e.Date == date {
			totals.ProteinGrams += e.ProteinGrams
			totals.Calories += e.Calories
		}
	}
	return totals
}

// EntriesOn filters entries to the calendar day date keeping their order.
func EntriesOn(entries []NutritionEntry, date string) []NutritionEntry {
	filtered := make([]NutritionEntry, 0)
	for _, e := range entries {
		if e.Date == date {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// ProgressPercent is value as a percentage of target capped at 100. It is 0 when there is no target.
func ProgressPercent(value, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return min(value/target*100, 100) //nolint:mnd // percent.
}

// FormatDate renders the calendar day of t in its own location.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ParseDate parses a calendar day in loc.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidInput, date)
	}
	return t, nil
}

// NutritionInput is a nutrition entry before it is stored.
type NutritionInput struct {
	Date         string
	Name         string
	ProteinGrams float64
	Calories     float64
}
