package workout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/homegym/internal/errors"
)

var (
	// ErrEmptyPlan is returned when committing a draft without exercises.
	ErrEmptyPlan = errors.NewSentinel("draft has no exercises")
	// ErrIndexOutOfRange is returned when an exercise or set index does not exist in the draft.
	ErrIndexOutOfRange = errors.NewSentinel("index out of range")
	// ErrUnknownWeekday is returned for weekday labels outside the seven draft slots.
	ErrUnknownWeekday = errors.NewSentinel("unknown weekday")
	// ErrUnknownField is returned when updating a set field other than reps or weight.
	ErrUnknownField = errors.NewSentinel("unknown set field")
)

// DraftStore holds one Draft per weekday.
//
// DraftStore is a value: every operation leaves the receiver untouched and returns the next store. The zero value is
// usable and behaves like NewDraftStore. Service persists it per user.
type DraftStore struct {
	Drafts map[Weekday]Draft
}

// DraftPatch holds the draft fields SetField may overwrite. Nil fields are left as they are.
type DraftPatch struct {
	Title     *string
	WeekLabel *string
}

// NewDraftStore seeds an empty draft for every weekday.
func NewDraftStore() DraftStore {
	drafts := make(map[Weekday]Draft, len(Weekdays()))
	for _, day := range Weekdays() {
		drafts[day] = NewDraft(day)
	}
	return DraftStore{Drafts: drafts}
}

// NewDraft returns the seeded state of a weekday: default title, Week 1 and one blank exercise with one blank set.
func NewDraft(day Weekday) Draft {
	return Draft{
		Weekday:   day,
		WeekLabel: FormatWeekLabel(1),
		Title:     DefaultTitle(day),
		Exercises: []Exercise{newBlankExercise()},
	}
}

// DefaultTitle is the title of a freshly seeded draft.
func DefaultTitle(day Weekday) string {
	return fmt.Sprintf("%s workout", day)
}

func newBlankExercise() Exercise {
	return Exercise{ID: uuid.NewString(), Name: "", Sets: []Set{{Reps: "", Weight: ""}}}
}

var weekNumber = regexp.MustCompile(`\d+`)

// ParseWeekNumber returns the first number in label or 1 if there is none. The result is never below 1.
func ParseWeekNumber(label string) int {
	n, err := strconv.Atoi(weekNumber.FindString(label))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// FormatWeekLabel renders week n, clamped to at least 1, as "Week n".
func FormatWeekLabel(n int) string {
	return fmt.Sprintf("Week %d", max(n, 1))
}

// Draft returns a copy of the draft of day.
func (s DraftStore) Draft(day Weekday) (Draft, error) {
	canonical, ok := ParseWeekday(string(day))
	if !ok {
		return Draft{}, fmt.Errorf("%w: %q", ErrUnknownWeekday, day)
	}
	day = canonical
	d, ok := s.Drafts[day]
	if !ok {
		return NewDraft(day), nil
	}
	return d.clone(), nil
}

// with returns a copy of the store where day's draft is replaced by d.
func (s DraftStore) with(d Draft) DraftStore {
	drafts := make(map[Weekday]Draft, len(Weekdays()))
	for _, day := range Weekdays() {
		if existing, ok := s.Drafts[day]; ok {
			drafts[day] = existing
		} else {
			drafts[day] = NewDraft(day)
		}
	}
	drafts[d.Weekday] = d
	return DraftStore{Drafts: drafts}
}

// update applies fn to a private copy of day's draft and returns the store with the result.
func (s DraftStore) update(day Weekday, fn func(d *Draft) error) (DraftStore, error) {
	d, err := s.Draft(day)
	if err != nil {
		return s, err
	}
	if err = fn(&d); err != nil {
		return s, err
	}
	return s.with(d), nil
}

// SetField overwrites the title and week label of day's draft. The week label is normalised to "Week N".
func (s DraftStore) SetField(day Weekday, patch DraftPatch) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		if patch.Title != nil {
			d.Title = *patch.Title
		}
		if patch.WeekLabel != nil {
			d.WeekLabel = FormatWeekLabel(ParseWeekNumber(*patch.WeekLabel))
		}
		return nil
	})
}

// AddExercise appends a blank exercise.
func (s DraftStore) AddExercise(day Weekday) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		d.Exercises = append(d.Exercises, newBlankExercise())
		return nil
	})
}

// RemoveExercise removes the exercise at index. Removing the last exercise leaves a single blank exercise.
func (s DraftStore) RemoveExercise(day Weekday, index int) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		if index < 0 || index >= len(d.Exercises) {
			return fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, index)
		}
		d.Exercises = append(d.Exercises[:index], d.Exercises[index+1:]...)
		if len(d.Exercises) == 0 {
			d.Exercises = []Exercise{newBlankExercise()}
		}
		return nil
	})
}

// RenameExercise sets the name of the exercise at index.
func (s DraftStore) RenameExercise(day Weekday, index int, name string) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		if index < 0 || index >= len(d.Exercises) {
			return fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, index)
		}
		d.Exercises[index].Name = name
		return nil
	})
}

// AddSet appends a set to the exercise at exIndex, copying the reps and weight of the previous set.
func (s DraftStore) AddSet(day Weekday, exIndex int) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		if exIndex < 0 || exIndex >= len(d.Exercises) {
			return fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, exIndex)
		}
		sets := d.Exercises[exIndex].Sets
		next := Set{Reps: "", Weight: ""}
		if len(sets) > 0 {
			next = sets[len(sets)-1]
		}
		d.Exercises[exIndex].Sets = append(sets, next)
		return nil
	})
}

// RemoveSet removes a set from the exercise at exIndex. It is a no-op when the exercise has a single set.
func (s DraftStore) RemoveSet(day Weekday, exIndex, setIndex int) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		if exIndex < 0 || exIndex >= len(d.Exercises) {
			return fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, exIndex)
		}
		sets := d.Exercises[exIndex].Sets
		if setIndex < 0 || setIndex >= len(sets) {
			return fmt.Errorf("%w: set %d", ErrIndexOutOfRange, setIndex)
		}
		if len(sets) <= 1 {
			return nil
		}
		d.Exercises[exIndex].Sets = append(sets[:setIndex], sets[setIndex+1:]...)
		return nil
	})
}

// UpdateSet overwrites field of a single set.
func (s DraftStore) UpdateSet(day Weekday, exIndex, setIndex int, field SetField, value string) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		if exIndex < 0 || exIndex >= len(d.Exercises) {
			return fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, exIndex)
		}
		sets := d.Exercises[exIndex].Sets
		if setIndex < 0 || setIndex >= len(sets) {
			return fmt.Errorf("%w: set %d", ErrIndexOutOfRange, setIndex)
		}
		switch field {
		case FieldReps:
			sets[setIndex].Reps = value
		case FieldWeight:
			sets[setIndex].Weight = value
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return nil
	})
}

// ChangeWeek moves the week label by delta weeks without going below Week 1.
func (s DraftStore) ChangeWeek(day Weekday, delta int) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		d.WeekLabel = FormatWeekLabel(ParseWeekNumber(d.WeekLabel) + delta)
		return nil
	})
}

// Clear resets day's draft to its seeded state.
func (s DraftStore) Clear(day Weekday) (DraftStore, error) {
	return s.update(day, func(d *Draft) error {
		*d = NewDraft(d.Weekday)
		return nil
	})
}

// ApplyPlan replaces the title and exercises of day's draft with plan. Every exercise gets a fresh ID and at least
// one set. The week label is kept. An empty plan title falls back to the default title.
func (s DraftStore) ApplyPlan(day Weekday, plan Plan) (DraftStore, error) {
	if len(plan.Exercises) == 0 {
		return s, fmt.Errorf("%w: plan has no exercises", ErrMalformedPlan)
	}
	return s.update(day, func(d *Draft) error {
		d.Title = strings.TrimSpace(plan.Title)
		if d.Title == "" {
			d.Title = DefaultTitle(d.Weekday)
		}
		d.Exercises = make([]Exercise, 0, len(plan.Exercises))
		for _, pe := range plan.Exercises {
			sets := make([]Set, 0, max(len(pe.Sets), 1))
			for _, ps := range pe.Sets {
				sets = append(sets, Set{Reps: ps.Reps, Weight: ps.Weight})
			}
			if len(sets) == 0 {
				sets = append(sets, Set{Reps: "", Weight: ""})
			}
			d.Exercises = append(d.Exercises, Exercise{ID: uuid.NewString(), Name: pe.Name, Sets: sets})
		}
		return nil
	})
}

// LoadLog copies a committed log into the draft of the log's weekday so that the workout can be repeated.
// Exercises get fresh IDs.
func (s DraftStore) LoadLog(log Log) (DraftStore, error) {
	return s.update(log.Weekday, func(d *Draft) error {
		if len(log.Exercises) == 0 {
			return fmt.Errorf("%w: log %s", ErrEmptyPlan, log.ID)
		}
		d.Title = log.Title
		d.WeekLabel = FormatWeekLabel(ParseWeekNumber(log.WeekLabel))
		d.Exercises = cloneExercises(log.Exercises)
		for i := range d.Exercises {
			d.Exercises[i].ID = uuid.NewString()
			if len(d.Exercises[i].Sets) == 0 {
				d.Exercises[i].Sets = []Set{{Reps: "", Weight: ""}}
			}
		}
		return nil
	})
}

// Commit snapshots day's draft into a new Log created at now. The draft itself is left unchanged.
// Empty titles and week labels fall back to their defaults.
func (s DraftStore) Commit(day Weekday, now time.Time) (Log, error) {
	d, err := s.Draft(day)
	if err != nil {
		return Log{}, err
	}
	if len(d.Exercises) == 0 {
		return Log{}, fmt.Errorf("%w: %s", ErrEmptyPlan, d.Weekday)
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = DefaultTitle(d.Weekday)
	}
	return Log{
		ID:        uuid.NewString(),
		Title:     title,
		Weekday:   d.Weekday,
		WeekLabel: FormatWeekLabel(ParseWeekNumber(d.WeekLabel)),
		Exercises: cloneExercises(d.Exercises),
		CreatedAt: now,
	}, nil
}
