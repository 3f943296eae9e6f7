package health

import "time"

// backdatedHour is the local hour at which back-dated sun exposures are recorded.
const backdatedHour = 12

// SunExposureAt returns noon of the calendar day date in loc.
func SunExposureAt(date string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), backdatedHour, 0, 0, 0, loc), nil
}
