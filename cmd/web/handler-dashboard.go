package main

import (
	"net/http"
	"time"

	"github.com/myrjola/homegym/internal/health"
	"github.com/myrjola/homegym/internal/workout"
	"golang.org/x/sync/errgroup"
)

const recentDays = 7

type dashboardTemplateData struct {
	BaseTemplateData
	Profile          health.Profile
	Draft            workout.Draft
	TotalWorkouts    int
	RecentWorkouts   int
	RecentSunLogs    int
	SunToday         bool
	Nutrition        health.Totals
	ProteinPercent   float64
	CaloriesPercent  float64
	ProteinTargetG   int
	CaloriesTarget   int
	HasTargets       bool
	LifetimeVolumeKg float64
}

func (app *application) dashboardGET(w http.ResponseWriter, r *http.Request) {
	var (
		ctx       = r.Context()
		g, gctx   = errgroup.WithContext(ctx)
		logs      []workout.Log
		sunLogs   []health.SunLog
		nutrition []health.NutritionEntry
		profile   health.Profile
	)
	g.Go(func() error {
		var err error
		logs, err = app.workoutService.ListLogs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sunLogs, err = app.healthService.ListSunLogs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		nutrition, err = app.healthService.ListNutrition(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = app.healthService.Profile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		app.serverError(w, r, err)
		return
	}

	now := time.Now()
	today := health.FormatDate(now)
	since := now.AddDate(0, 0, -recentDays)
	sunToday := false
	for _, s := range sunLogs {
		if health.FormatDate(s.CreatedAt.In(now.Location())) == today {
			sunToday = true
			break
		}
	}
	sunSince := 0
	for _, s := range sunLogs {
		if !s.CreatedAt.Before(since) {
			sunSince++
		}
	}

	base := app.newBaseTemplateData(r)
	drafts, err := app.workoutService.Drafts(ctx)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	draft, err := drafts.Draft(base.Today)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	totals := health.DailyNutritionTotals(nutrition, today)
	data := dashboardTemplateData{
		BaseTemplateData: base,
		Profile:          profile,
		Draft:            draft,
		TotalWorkouts:    len(logs),
		RecentWorkouts:   workout.CountSince(logs, since),
		RecentSunLogs:    sunSince,
		SunToday:         sunToday,
		Nutrition:        totals,
		ProteinPercent:   0,
		CaloriesPercent:  0,
		ProteinTargetG:   0,
		CaloriesTarget:   0,
		HasTargets:       profile.TDEE != nil && profile.ProteinTargetG != nil,
		LifetimeVolumeKg: workout.LifetimeVolume(logs),
	}
	if profile.ProteinTargetG != nil {
		data.ProteinTargetG = *profile.ProteinTargetG
		data.ProteinPercent = health.ProgressPercent(totals.ProteinGrams, float64(*profile.ProteinTargetG))
	}
	if profile.TDEE != nil {
		data.CaloriesTarget = *profile.TDEE
		data.CaloriesPercent = health.ProgressPercent(totals.Calories, float64(*profile.TDEE))
	}
	app.render(w, r, http.StatusOK, "dashboard", data)
}

type statsTemplateData struct {
	BaseTemplateData
	Stats workout.Stats
}

func (app *application) statsGET(w http.ResponseWriter, r *http.Request) {
	stats, err := app.workoutService.Stats(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "stats", statsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Stats:            stats,
	})
}
