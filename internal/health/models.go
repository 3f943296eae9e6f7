package health

import (
	"slices"
	"time"
)

// Gender selects the sex-specific constant of the BMR formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender returns the gender matching s and false if s is not a known gender.
func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), true
	default:
		return "", false
	}
}

const (
	DefaultActivityFactor = 1.2
	DefaultProteinFactor  = 2.0
)

// ActivityFactors are the selectable TDEE multipliers from sedentary to very active.
func ActivityFactors() []float64 {
	return []float64{1.2, 1.375, 1.55, 1.725, 1.9}
}

// ProteinFactors are the selectable daily protein intakes in grams per kilogram of body weight.
func ProteinFactors() []float64 {
	return []float64{0.8, 1.0, 1.2, 1.5, 1.8, 2.0, 2.2, 2.5}
}

func isActivityFactor(f float64) bool {
	return slices.Contains(ActivityFactors(), f)
}

func isProteinFactor(f float64) bool {
	return slices.Contains(ProteinFactors(), f)
}

// SunLog records one sun exposure.
type SunLog struct {
	ID        string
	CreatedAt time.Time
}

// NutritionEntry is a food eaten on a calendar day.
type NutritionEntry struct {
	ID string
	// Date is the calendar day in time.DateOnly format.
	Date         string
	Name         string
	ProteinGrams float64
	Calories     float64
	CreatedAt    time.Time
}

// Profile holds the anthropometric inputs of the user and the targets derived from them. Absent inputs are nil.
type Profile struct {
	Nickname       string
	Motto          string
	Age            *int
	HeightCm       *float64
	WeightKg       *float64
	Gender         Gender
	ActivityFactor float64
	ProteinFactor  float64
	// TDEE is the derived daily energy expenditure in kcal. Nil when an input is missing.
	TDEE *int
	// ProteinTargetG is the derived daily protein target in grams. Nil when weight is missing.
	ProteinTargetG *int
	UpdatedAt      time.Time
}

// DefaultProfile is the profile of a user who has never saved one.
func DefaultProfile() Profile {
	return Profile{
		Nickname:       "",
		Motto:          "",
		Age:            nil,
		HeightCm:       nil,
		WeightKg:       nil,
		Gender:         GenderMale,
		ActivityFactor: DefaultActivityFactor,
		ProteinFactor:  DefaultProteinFactor,
		TDEE:           nil,
		ProteinTargetG: nil,
		UpdatedAt:      time.Time{},
	}
}
