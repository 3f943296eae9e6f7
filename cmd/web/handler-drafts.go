package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/homegym/internal/workout"
)

func draftPath(day workout.Weekday) string {
	return fmt.Sprintf("/drafts/%s", day)
}

// draftDay parses the day path value. It responds with 404 for unknown days.
func (app *application) draftDay(w http.ResponseWriter, r *http.Request) (workout.Weekday, bool) {
	day, ok := workout.ParseWeekday(r.PathValue("day"))
	if !ok {
		app.notFound(w, r)
		return "", false
	}
	return day, true
}

type draftTemplateData struct {
	BaseTemplateData
	Day      workout.Weekday
	Weekdays []workout.Weekday
	Draft    workout.Draft
	Volume   float64
}

func (app *application) draftGET(w http.ResponseWriter, r *http.Request) {
	day, ok := app.draftDay(w, r)
	if !ok {
		return
	}
	store, err := app.workoutService.Drafts(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	draft, err := store.Draft(day)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	volume := workout.LogVolume(workout.Log{ //nolint:exhaustruct // only the exercises count.
		Exercises: draft.Exercises,
	})
	app.render(w, r, http.StatusOK, "draft", draftTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Day:              day,
		Weekdays:         workout.Weekdays(),
		Draft:            draft,
		Volume:           volume,
	})
}

// applyDraftForm writes the edited fields of the draft form into store. Every draft action posts the whole form so
// that unsaved edits survive adding or removing rows. Requests without the form leave store untouched. The form must
// be parsed already.
func applyDraftForm(r *http.Request, store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error) {
	if !r.PostForm.Has("title") {
		return store, nil
	}
	title := r.PostFormValue("title")
	weekLabel := r.PostFormValue("week_label")
	store, err := store.SetField(day, workout.DraftPatch{Title: &title, WeekLabel: &weekLabel})
	if err != nil {
		return store, fmt.Errorf("set draft fields: %w", err)
	}
	draft, err := store.Draft(day)
	if err != nil {
		return store, fmt.Errorf("get draft: %w", err)
	}
	for i, exercise := range draft.Exercises {
		if name := fmt.Sprintf("name_%d", i); r.PostForm.Has(name) {
			if store, err = store.RenameExercise(day, i, r.PostFormValue(name)); err != nil {
				return store, fmt.Errorf("rename exercise: %w", err)
			}
		}
		for j := range exercise.Sets {
			for _, field := range []workout.SetField{workout.FieldReps, workout.FieldWeight} {
				key := fmt.Sprintf("%s_%d_%d", field, i, j)
				if !r.PostForm.Has(key) {
					continue
				}
				if store, err = store.UpdateSet(day, i, j, field, r.PostFormValue(key)); err != nil {
					return store, fmt.Errorf("update set: %w", err)
				}
			}
		}
	}
	return store, nil
}

// saveDraftForm parses the posted form and applies it and then op to the day's stored draft in one update. Form edits
// are saved even when op fails, and op's error is returned.
func (app *application) saveDraftForm(
	r *http.Request,
	day workout.Weekday,
	op func(store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error),
) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	var opErr error
	if _, err := app.workoutService.UpdateDrafts(r.Context(), func(store *workout.DraftStore) (bool, error) {
		edited, err := applyDraftForm(r, *store, day)
		if err != nil {
			return false, err
		}
		*store = edited
		next, err := op(edited, day)
		if err != nil {
			opErr = err
			return true, nil
		}
		*store = next
		return true, nil
	}); err != nil {
		return err
	}
	return opErr
}

// mutateDraft applies the posted form and then op to the day's draft and redirects back to the editor.
func (app *application) mutateDraft(
	w http.ResponseWriter,
	r *http.Request,
	op func(store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error),
) {
	day, ok := app.draftDay(w, r)
	if !ok {
		return
	}
	if err := app.saveDraftForm(r, day, op); err != nil {
		app.fail(w, r, err, draftPath(day))
		return
	}
	redirect(w, r, draftPath(day))
}

func keepDraft(store workout.DraftStore, _ workout.Weekday) (workout.DraftStore, error) {
	return store, nil
}

func (app *application) draftPOST(w http.ResponseWriter, r *http.Request) {
	app.mutateDraft(w, r, keepDraft)
}

func (app *application) draftAddExercisePOST(w http.ResponseWriter, r *http.Request) {
	app.mutateDraft(w, r, func(store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error) {
		return store.AddExercise(day)
	})
}

func (app *application) draftRemoveExercisePOST(w http.ResponseWriter, r *http.Request) {
	exIndex, ok := parseIndex(r, "ex")
	if !ok {
		app.notFound(w, r)
		return
	}
	app.mutateDraft(w, r, func(store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error) {
		return store.RemoveExercise(day, exIndex)
	})
}

func (app *application) draftAddSetPOST(w http.ResponseWriter, r *http.Request) {
	exIndex, ok := parseIndex(r, "ex")
	if !ok {
		app.notFound(w, r)
		return
	}
	app.mutateDraft(w, r, func(store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error) {
		return store.AddSet(day, exIndex)
	})
}

func (app *application) draftRemoveSetPOST(w http.ResponseWriter, r *http.Request) {
	exIndex, ok := parseIndex(r, "ex")
	setIndex, setOK := parseIndex(r, "set")
	if !ok || !setOK {
		app.notFound(w, r)
		return
	}
	app.mutateDraft(w, r, func(store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error) {
		return store.RemoveSet(day, exIndex, setIndex)
	})
}

func (app *application) draftChangeWeekPOST(w http.ResponseWriter, r *http.Request) {
	delta, err := strconv.Atoi(r.PathValue("delta"))
	if err != nil {
		app.notFound(w, r)
		return
	}
	app.mutateDraft(w, r, func(store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error) {
		return store.ChangeWeek(day, delta)
	})
}

func (app *application) draftClearPOST(w http.ResponseWriter, r *http.Request) {
	app.mutateDraft(w, r, func(store workout.DraftStore, day workout.Weekday) (workout.DraftStore, error) {
		return store.Clear(day)
	})
}

// draftCommitPOST saves the day's draft as a workout log. The draft stays as it is.
func (app *application) draftCommitPOST(w http.ResponseWriter, r *http.Request) {
	day, ok := app.draftDay(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := app.saveDraftForm(r, day, keepDraft); err != nil {
		app.fail(w, r, err, draftPath(day))
		return
	}
	log, err := app.workoutService.CommitDraft(ctx, day)
	if err != nil {
		app.fail(w, r, err, draftPath(day))
		return
	}
	app.metrics.CounterCommittedWorkouts.Inc()
	app.logger.LogAttrs(ctx, slog.LevelDebug, "draft committed from editor", slog.String("log_id", log.ID))
	app.succeed(w, r, "notice.committed", "/history")
}
