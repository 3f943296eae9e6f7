package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/health"
)

type nutritionTemplateData struct {
	BaseTemplateData
	Date            string
	PreviousDate    string
	NextDate        string
	IsToday         bool
	Entries         []health.NutritionEntry
	Totals          health.Totals
	ProteinTargetG  *int
	CaloriesTarget  *int
	ProteinPercent  float64
	CaloriesPercent float64
	CoachEnabled    bool
}

func nutritionPath(date string) string {
	return "/nutrition?date=" + url.QueryEscape(date)
}

// nutritionGET shows the entries and totals of the day in the date query parameter, today by default.
func (app *application) nutritionGET(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()
	date := r.URL.Query().Get("date")
	if date == "" {
		date = health.FormatDate(now)
	}
	day, err := health.ParseDate(date, now.Location())
	if err != nil {
		app.notFound(w, r)
		return
	}

	entries, err := app.healthService.ListNutrition(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	profile, err := app.healthService.Profile(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	totals := health.DailyNutritionTotals(entries, date)
	data := nutritionTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Date:             date,
		PreviousDate:     health.FormatDate(day.AddDate(0, 0, -1)),
		NextDate:         health.FormatDate(day.AddDate(0, 0, 1)),
		IsToday:          date == health.FormatDate(now),
		Entries:          health.EntriesOn(entries, date),
		Totals:           totals,
		ProteinTargetG:   profile.ProteinTargetG,
		CaloriesTarget:   profile.TDEE,
		ProteinPercent:   0,
		CaloriesPercent:  0,
		CoachEnabled:     app.coachEnabled,
	}
	if profile.ProteinTargetG != nil {
		data.ProteinPercent = health.ProgressPercent(totals.ProteinGrams, float64(*profile.ProteinTargetG))
	}
	if profile.TDEE != nil {
		data.CaloriesPercent = health.ProgressPercent(totals.Calories, float64(*profile.TDEE))
	}
	app.render(w, r, http.StatusOK, "nutrition", data)
}

// macroField parses an optional macro. Blank means zero.
func macroField(r *http.Request, name string) (float64, error) {
	v, err := parseFloatField(r, name)
	if err != nil || v == nil {
		return 0, err
	}
	return *v, nil
}

func (app *application) nutritionPOST(w http.ResponseWriter, r *http.Request) {
	date := r.PostFormValue("date")
	back := nutritionPath(date)
	protein, err := macroField(r, "protein")
	if err != nil {
		app.fail(w, r, err, back)
		return
	}
	calories, err := macroField(r, "calories")
	if err != nil {
		app.fail(w, r, err, back)
		return
	}
	if _, err = app.healthService.AddNutrition(r.Context(), health.NutritionInput{
		Date:         date,
		Name:         r.PostFormValue("name"),
		ProteinGrams: protein,
		Calories:     calories,
	}); err != nil {
		app.fail(w, r, err, back)
		return
	}
	app.succeed(w, r, "notice.saved", back)
}

// nutritionEstimatePOST asks the coach for the macros of a described food and stores them as an entry.
func (app *application) nutritionEstimatePOST(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	date := r.PostFormValue("date")
	back := nutritionPath(date)
	food := strings.TrimSpace(r.PostFormValue("food"))
	grams, err := parseFloatField(r, "grams")
	if err != nil {
		app.fail(w, r, err, back)
		return
	}
	if food == "" || grams == nil {
		app.fail(w, r, fmt.Errorf("%w: food and grams are required", health.ErrInvalidInput), back)
		return
	}
	estimate, err := app.coachService.EstimateNutrition(ctx, food, *grams)
	if err != nil {
		app.fail(w, r, err, back)
		return
	}
	if _, err = app.healthService.AddNutrition(ctx, health.NutritionInput{
		Date:         date,
		Name:         fmt.Sprintf("%s (%s g)", food, formatFloat(*grams)),
		ProteinGrams: estimate.ProteinGrams,
		Calories:     estimate.Calories,
	}); err != nil {
		app.fail(w, r, err, back)
		return
	}
	app.logger.LogAttrs(ctx, slog.LevelDebug, "nutrition estimated",
		slog.Float64("protein_g", estimate.ProteinGrams), slog.Float64("calories", estimate.Calories))
	app.succeed(w, r, "notice.estimated", back)
}

func (app *application) nutritionDeletePOST(w http.ResponseWriter, r *http.Request) {
	back := nutritionPath(r.PostFormValue("date"))
	if err := app.healthService.DeleteNutrition(r.Context(), r.PathValue("id")); err != nil {
		app.fail(w, r, errors.Wrap(err, "delete nutrition entry"), back)
		return
	}
	app.succeed(w, r, "notice.deleted", back)
}
