package workout

import (
	"strings"
	"time"
)

// Weekday labels a draft slot. The values double as display labels and storage values.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays returns the seven draft slots starting from Monday.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParseWeekday matches s case-insensitively against the weekday labels.
func ParseWeekday(s string) (Weekday, bool) {
	for _, day := range Weekdays() {
		if strings.EqualFold(string(day), s) {
			return day, true
		}
	}
	return "", false
}

// WeekdayOf returns the draft slot for t.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday starts from Sunday.
	return Weekdays()[(int(t.Weekday())+6)%7] //nolint:mnd // shift Sunday to the end of the week.
}

// Set is a single row of reps and weight. Both are free text until analytics coerces them into numbers.
type Set struct {
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
}

// Exercise is a named movement with at least one set.
type Exercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

// Draft is the editable workout of a weekday. It becomes a Log only when committed.
type Draft struct {
	Weekday   Weekday
	WeekLabel string
	Title     string
	Exercises []Exercise
}

// Log is a committed workout. It is immutable apart from deletion.
type Log struct {
	ID        string
	Title     string
	Weekday   Weekday
	WeekLabel string
	Exercises []Exercise
	CreatedAt time.Time
}

// PendingPlan is a generated plan waiting for the user to apply it to a draft or discard it.
type PendingPlan struct {
	Plan       Plan
	Difficulty string
	CreatedAt  time.Time
}

// SetField identifies an editable field of a Set.
type SetField string

const (
	FieldReps   SetField = "reps"
	FieldWeight SetField = "weight"
)

func cloneExercises(exercises []Exercise) []Exercise {
	if exercises == nil {
		return nil
	}
	cloned := make([]Exercise, len(exercises))
	for i, e := range exercises {
		cloned[i] = Exercise{
			ID:   e.ID,
			Name: e.Name,
			Sets: append([]Set(nil), e.Sets...),
		}
	}
	return cloned
}

func (d Draft) clone() Draft {
	d.Exercises = cloneExercises(d.Exercises)
	return d
}
