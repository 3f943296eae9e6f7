package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/myrjola/homegym/internal/coach"
	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/workout"
)

const (
	coachTextSessionKey  = "coach_text"
	coachLevelSessionKey = "coach_difficulty"
)

type routineGroup struct {
	Difficulty coach.Difficulty
	Routines   []coach.Routine
}

type coachTemplateData struct {
	BaseTemplateData
	Enabled      bool
	FreeText     string
	Difficulty   coach.Difficulty
	Difficulties []coach.Difficulty
	BodyWeightKg *float64
	RoutineSets  []routineGroup
	Pending      *workout.PendingPlan
	Weekdays     []workout.Weekday
}

func (app *application) coachGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	difficulty, ok := coach.ParseDifficulty(app.sessionManager.GetString(ctx, coachLevelSessionKey))
	if !ok {
		difficulty = coach.Beginner
	}
	freeText := app.sessionManager.GetString(ctx, coachTextSessionKey)

	// A routine link pre-fills the request.
	if d, found := coach.ParseDifficulty(r.URL.Query().Get("difficulty")); found {
		difficulty = d
		if index, err := strconv.Atoi(r.URL.Query().Get("routine")); err == nil {
			if routine, exists := coach.FindRoutine(d, index); exists {
				freeText = routine.Prompt
			}
		}
	}

	groups := make([]routineGroup, 0, len(coach.Difficulties()))
	for _, d := range coach.Difficulties() {
		routines, err := coach.Routines(d)
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		groups = append(groups, routineGroup{Difficulty: d, Routines: routines})
	}

	profile, err := app.healthService.Profile(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	var pending *workout.PendingPlan
	switch p, pendingErr := app.workoutService.PendingPlan(ctx); {
	case pendingErr == nil:
		pending = &p
	case !errors.Is(pendingErr, workout.ErrNotFound):
		app.serverError(w, r, pendingErr)
		return
	}

	base := app.newBaseTemplateData(r)
	app.render(w, r, http.StatusOK, "coach", coachTemplateData{
		BaseTemplateData: base,
		Enabled:          app.coachEnabled,
		FreeText:         freeText,
		Difficulty:       difficulty,
		Difficulties:     coach.Difficulties(),
		BodyWeightKg:     profile.WeightKg,
		RoutineSets:      groups,
		Pending:          pending,
		Weekdays:         workout.Weekdays(),
	})
}

// coachGeneratePOST asks the coach for a plan and parks it for review. A generation superseded by a newer one stores
// nothing.
func (app *application) coachGeneratePOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.fail(w, r, errors.Join(coach.ErrInvalidRequest, err), "/coach")
		return
	}
	freeText := strings.TrimSpace(r.PostFormValue("request"))
	difficulty := coach.Difficulty(r.PostFormValue("difficulty"))
	app.sessionManager.Put(ctx, coachTextSessionKey, freeText)
	app.sessionManager.Put(ctx, coachLevelSessionKey, string(difficulty))

	bodyWeight, err := parseFloatField(r, "body_weight")
	if err != nil {
		app.fail(w, r, err, "/coach")
		return
	}
	if err = app.workoutService.DiscardPendingPlan(ctx); err != nil {
		app.fail(w, r, err, "/coach")
		return
	}

	plan, err := app.coachService.GeneratePlan(ctx, coach.PlanRequest{
		FreeText:     freeText,
		Difficulty:   difficulty,
		BodyWeightKg: bodyWeight,
	})
	if err != nil {
		app.fail(w, r, err, "/coach")
		return
	}
	if err = app.workoutService.SetPendingPlan(ctx, plan, string(difficulty)); err != nil {
		app.fail(w, r, err, "/coach")
		return
	}
	redirect(w, r, "/coach")
}

// coachApplyPOST merges the pending plan into the chosen day's draft.
func (app *application) coachApplyPOST(w http.ResponseWriter, r *http.Request) {
	day, ok := workout.ParseWeekday(r.PostFormValue("day"))
	if !ok {
		app.fail(w, r, workout.ErrUnknownWeekday, "/coach")
		return
	}
	if _, err := app.workoutService.ApplyPendingPlan(r.Context(), day); err != nil {
		if errors.Is(err, workout.ErrNotFound) {
			err = coach.ErrStaleRequest
		}
		app.fail(w, r, err, "/coach")
		return
	}
	app.succeed(w, r, "notice.applied", draftPath(day))
}

// coachDiscardPOST drops the pending plan and any generation still in flight.
func (app *application) coachDiscardPOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app.coachService.Discard(ctx)
	if err := app.workoutService.DiscardPendingPlan(ctx); err != nil {
		app.fail(w, r, err, "/coach")
		return
	}
	app.succeed(w, r, "notice.discarded", "/coach")
}

type guideTemplateData struct {
	BaseTemplateData
	Exercise string
	Guide    string
	Back     string
}

// coachGuideGET explains how to perform the exercise in the name query parameter.
func (app *application) coachGuideGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	back := r.URL.Query().Get("back")
	if !isRelativePath(back) {
		back = "/coach"
	}
	guide, err := app.coachService.ExerciseGuide(ctx, name, contexthelpers.Language(ctx))
	if err != nil {
		app.fail(w, r, err, back)
		return
	}
	app.render(w, r, http.StatusOK, "guide", guideTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Exercise:         name,
		Guide:            guide,
		Back:             back,
	})
}
