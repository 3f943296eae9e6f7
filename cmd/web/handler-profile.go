package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/health"
	"github.com/myrjola/homegym/internal/workout"
	"golang.org/x/sync/errgroup"
)

type profileTemplateData struct {
	BaseTemplateData
	Profile         health.Profile
	BMI             float64
	HasBMI          bool
	Genders         []health.Gender
	ActivityFactors []float64
	ProteinFactors  []float64
}

func (app *application) profileGET(w http.ResponseWriter, r *http.Request) {
	profile, err := app.healthService.Profile(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	bmi, hasBMI := health.ComputeBMI(profile)
	app.render(w, r, http.StatusOK, "profile", profileTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Profile:          profile,
		BMI:              bmi,
		HasBMI:           hasBMI,
		Genders:          []health.Gender{health.GenderMale, health.GenderFemale},
		ActivityFactors:  health.ActivityFactors(),
		ProteinFactors:   health.ProteinFactors(),
	})
}

// parseProfileForm reads the profile form. Range checks are left to health.Profile.Validate.
func parseProfileForm(r *http.Request) (health.Profile, error) {
	var (
		p    health.Profile
		errs []error
		err  error
	)
	p.Nickname = strings.TrimSpace(r.PostFormValue("nickname"))
	p.Motto = strings.TrimSpace(r.PostFormValue("motto"))
	p.Gender = health.Gender(r.PostFormValue("gender"))

	if raw := strings.TrimSpace(r.PostFormValue("age")); raw != "" {
		age, convErr := strconv.Atoi(raw)
		if convErr != nil {
			errs = append(errs, fmt.Errorf("%w: age %q", health.ErrInvalidInput, raw))
		} else {
			p.Age = &age
		}
	}
	if p.HeightCm, err = parseFloatField(r, "height"); err != nil {
		errs = append(errs, err)
	}
	if p.WeightKg, err = parseFloatField(r, "weight"); err != nil {
		errs = append(errs, err)
	}
	for name, target := range map[string]*float64{
		"activity_factor": &p.ActivityFactor,
		"protein_factor":  &p.ProteinFactor,
	} {
		v, parseErr := parseFloatField(r, name)
		switch {
		case parseErr != nil:
			errs = append(errs, parseErr)
		case v == nil:
			errs = append(errs, fmt.Errorf("%w: %s is required", health.ErrInvalidInput, name))
		default:
			*target = *v
		}
	}
	return p, errors.Join(errs...)
}

func (app *application) profilePOST(w http.ResponseWriter, r *http.Request) {
	p, err := parseProfileForm(r)
	if err != nil {
		app.fail(w, r, err, "/profile")
		return
	}
	if _, err = app.healthService.SaveProfile(r.Context(), p); err != nil {
		app.fail(w, r, err, "/profile")
		return
	}
	app.succeed(w, r, "notice.saved", "/profile")
}

type exportSet struct {
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
}

type exportExercise struct {
	Name string      `json:"name"`
	Sets []exportSet `json:"sets"`
}

type exportLog struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Weekday   string           `json:"weekday"`
	WeekLabel string           `json:"week_label"`
	Exercises []exportExercise `json:"exercises"`
	CreatedAt time.Time        `json:"created_at"`
}

type exportNutrition struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Name         string    `json:"name"`
	ProteinGrams float64   `json:"protein_g"`
	Calories     float64   `json:"calories"`
	CreatedAt    time.Time `json:"created_at"`
}

type exportProfile struct {
	Nickname       string    `json:"nickname"`
	Motto          string    `json:"motto"`
	Age            *int      `json:"age"`
	HeightCm       *float64  `json:"height_cm"`
	WeightKg       *float64  `json:"weight_kg"`
	Gender         string    `json:"gender"`
	ActivityFactor float64   `json:"activity_factor"`
	ProteinFactor  float64   `json:"protein_factor"`
	TDEE           *int      `json:"tdee"`
	ProteinTargetG *int      `json:"protein_target_g"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type exportDocument struct {
	ExportedAt time.Time         `json:"exported_at"`
	Profile    exportProfile     `json:"profile"`
	Workouts   []exportLog       `json:"workouts"`
	SunLogs    []time.Time       `json:"sun_logs"`
	Nutrition  []exportNutrition `json:"nutrition"`
}

func newExportDocument(
	now time.Time, p health.Profile, logs []workout.Log, sun []health.SunLog, food []health.NutritionEntry,
) exportDocument {
	doc := exportDocument{
		ExportedAt: now,
		Profile: exportProfile{
			Nickname:       p.Nickname,
			Motto:          p.Motto,
			Age:            p.Age,
			HeightCm:       p.HeightCm,
			WeightKg:       p.WeightKg,
			Gender:         string(p.Gender),
			ActivityFactor: p.ActivityFactor,
			ProteinFactor:  p.ProteinFactor,
			TDEE:           p.TDEE,
			ProteinTargetG: p.ProteinTargetG,
			UpdatedAt:      p.UpdatedAt,
		},
		Workouts:  make([]exportLog, 0, len(logs)),
		SunLogs:   make([]time.Time, 0, len(sun)),
		Nutrition: make([]exportNutrition, 0, len(food)),
	}
	for _, log := range logs {
		exercises := make([]exportExercise, 0, len(log.Exercises))
		for _, e := range log.Exercises {
			sets := make([]exportSet, 0, len(e.Sets))
			for _, s := range e.Sets {
				sets = append(sets, exportSet(s))
			}
			exercises = append(exercises, exportExercise{Name: e.Name, Sets: sets})
		}
		doc.Workouts = append(doc.Workouts, exportLog{
			ID:        log.ID,
			Title:     log.Title,
			Weekday:   string(log.Weekday),
			WeekLabel: log.WeekLabel,
			Exercises: exercises,
			CreatedAt: log.CreatedAt,
		})
	}
	for _, s := range sun {
		doc.SunLogs = append(doc.SunLogs, s.CreatedAt)
	}
	for _, n := range food {
		doc.Nutrition = append(doc.Nutrition, exportNutrition{
			ID:           n.ID,
			Date:         n.Date,
			Name:         n.Name,
			ProteinGrams: n.ProteinGrams,
			Calories:     n.Calories,
			CreatedAt:    n.CreatedAt,
		})
	}
	return doc
}

// profileExportGET downloads everything stored about the user as JSON.
func (app *application) profileExportGET(w http.ResponseWriter, r *http.Request) {
	var (
		ctx     = r.Context()
		g, gctx = errgroup.WithContext(ctx)
		profile health.Profile
		logs    []workout.Log
		sun     []health.SunLog
		food    []health.NutritionEntry
	)
	g.Go(func() error {
		var err error
		profile, err = app.healthService.Profile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = app.workoutService.ListLogs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sun, err = app.healthService.ListSunLogs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		food, err = app.healthService.ListNutrition(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		app.serverError(w, r, err)
		return
	}

	now := time.Now()
	body, err := json.MarshalIndent(newExportDocument(now, profile, logs, sun, food), "", "  ")
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "marshal export"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="homegym-%s.json"`, now.Format(time.DateOnly)))
	_, _ = w.Write(body)
}

// profileForgetPOST deletes the user with all their data and ends the session.
func (app *application) profileForgetPOST(w http.ResponseWriter, r *http.Request) {
	if err := app.authenticator.Forget(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	redirect(w, r, "/")
}
