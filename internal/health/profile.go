package health

import (
	"fmt"
	"math"

	"github.com/myrjola/homegym/internal/errors"
)

// ErrInvalidInput is returned when user supplied health data is out of range.
var ErrInvalidInput = errors.NewSentinel("invalid input")

// ComputeBMR returns the Mifflin-St Jeor basal metabolic rate. It reports false if age, height or weight is missing.
func ComputeBMR(p Profile) (float64, bool) {
	if p.Age == nil || p.HeightCm == nil || p.WeightKg == nil {
		return 0, false
	}
	bmr := 10*(*p.WeightKg) + 6.25*(*p.HeightCm) - 5*float64(*p.Age) //nolint:mnd // Mifflin-St Jeor.
	if p.Gender == GenderFemale {
		bmr -= 161
	} else {
		bmr += 5
	}
	return bmr, true
}

// ComputeTDEE returns the daily energy expenditure in kcal rounded to the nearest integer.
// It reports false if age, height or weight is missing.
func ComputeTDEE(p Profile) (int, bool) {
	bmr, ok := ComputeBMR(p)
	if !ok {
		return 0, false
	}
	return int(math.Round(bmr * p.ActivityFactor)), true
}

// ComputeProteinTarget returns the daily protein target in grams. It reports false if weight is missing.
func ComputeProteinTarget(p Profile) (int, bool) {
	if p.WeightKg == nil {
		return 0, false
	}
	return int(math.Round(*p.WeightKg * p.ProteinFactor)), true
}

// ComputeBMI returns the body mass index rounded to one decimal. It reports false if height or weight is missing.
func ComputeBMI(p Profile) (float64, bool) {
	if p.HeightCm == nil || p.WeightKg == nil {
		return 0, false
	}
	m := *p.HeightCm / 100 //nolint:mnd // cm to m.
	return math.Round(*p.WeightKg/(m*m)*10) / 10, true //nolint:mnd // one decimal.
}

// Recompute returns p with the derived fields calculated from its inputs.
func (p Profile) Recompute() Profile {
	p.TDEE = nil
	if tdee, ok := ComputeTDEE(p); ok {
		p.TDEE = &tdee
	}
	p.ProteinTargetG = nil
	if target, ok := ComputeProteinTarget(p); ok {
		p.ProteinTargetG = &target
	}
	return p
}

// Validate checks the inputs of p.
func (p Profile) Validate() error {
	var errs []error
	if p.Age != nil && *p.Age <= 0 {
		errs = append(errs, fmt.Errorf("%w: age %d", ErrInvalidInput, *p.Age))
	}
	if p.HeightCm != nil && !isPositive(*p.HeightCm) {
		errs = append(errs, fmt.Errorf("%w: height %v", ErrInvalidInput, *p.HeightCm))
	}
	if p.WeightKg != nil && !isPositive(*p.WeightKg) {
		errs = append(errs, fmt.Errorf("%w: weight %v", ErrInvalidInput, *p.WeightKg))
	}
	if _, ok := ParseGender(string(p.Gender)); !ok {
		errs = append(errs, fmt.Errorf("%w: gender %q", ErrInvalidInput, p.Gender))
	}
	if !isActivityFactor(p.ActivityFactor) {
		errs = append(errs, fmt.Errorf("%w: activity factor %v", ErrInvalidInput, p.ActivityFactor))
	}
	if !isProteinFactor(p.ProteinFactor) {
		errs = append(errs, fmt.Errorf("%w: protein factor %v", ErrInvalidInput, p.ProteinFactor))
	}
	return errors.Join(errs...)
}

// isPositive reports whether v is a positive finite number. NaN is not.
func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
