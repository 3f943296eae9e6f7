package health_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/myrjola/homegym/internal/feed"
	"github.com/myrjola/homegym/internal/health"
	"github.com/myrjola/homegym/internal/ptr"
	"github.com/myrjola/homegym/internal/sqlite"
	"github.com/myrjola/homegym/internal/testhelpers"
)

func newService(t *testing.T) (*health.Service, *sqlite.Database) {
	t.Helper()
	db := testhelpers.NewDatabase(t)
	return health.NewService(db, testhelpers.NewTestLogger(t)), db
}

func TestService_SunLogs(t *testing.T) {
	t.Parallel()
	svc, db := newService(t)
	ctx := testhelpers.NewUserContext(t, db)

	push, snapshots := feed.Latest[health.SunLog]()
	cancel, err := svc.SubscribeSunLogs(ctx, push)
	if err != nil {
		t.Fatalf("SubscribeSunLogs() error = %v", err)
	}
	defer cancel()
	if got := <-snapshots; len(got) != 0 {
		t.Fatalf("initial snapshot has %d logs", len(got))
	}

	now, err := svc.LogSun(ctx)
	if err != nil {
		t.Fatalf("LogSun() error = %v", err)
	}
	<-snapshots
	backdated, err := svc.LogSunOn(ctx, "2020-06-01")
	if err != nil {
		t.Fatalf("LogSunOn() error = %v", err)
	}
	got := <-snapshots
	var ids []string
	for _, l := range got {
		ids = append(ids, l.ID)
	}
	if diff := cmp.Diff([]string{now.ID, backdated.ID}, ids); diff != "" {
		t.Errorf("sun logs not newest first (-want +got):\n%s", diff)
	}
	if h := got[1].CreatedAt.Hour(); h != 12 {
		t.Errorf("back-dated hour = %d, want 12", h)
	}

	if err = svc.DeleteSunLog(ctx, backdated.ID); err != nil {
		t.Fatalf("DeleteSunLog() error = %v", err)
	}
	if got = <-snapshots; len(got) != 1 {
		t.Errorf("snapshot after delete has %d logs, want 1", len(got))
	}
	if err = svc.DeleteSunLog(ctx, backdated.ID); !errors.Is(err, health.ErrNotFound) {
		t.Errorf("DeleteSunLog() error = %v, want %v", err, health.ErrNotFound)
	}
	if _, err = svc.LogSunOn(ctx, "not a date"); !errors.Is(err, health.ErrInvalidInput) {
		t.Errorf("LogSunOn() error = %v, want %v", err, health.ErrInvalidInput)
	}
}

func TestService_Nutrition(t *testing.T) {
	t.Parallel()
	svc, db := newService(t)
	ctx := testhelpers.NewUserContext(t, db)
	other := testhelpers.NewUserContext(t, db)

	entry, err := svc.AddNutrition(ctx, health.NutritionInput{
		Date: "2026-03-02", Name: " ", ProteinGrams: 25, Calories: 0,
	})
	if err != nil {
		t.Fatalf("AddNutrition() error = %v", err)
	}
	if entry.Name != health.DefaultFoodName {
		t.Errorf("Name = %q, want %q", entry.Name, health.DefaultFoodName)
	}
	today, err := svc.AddNutrition(ctx, health.NutritionInput{
		Date: "", Name: "Greek yoghurt", ProteinGrams: 10, Calories: 100,
	})
	if err != nil {
		t.Fatalf("AddNutrition() error = %v", err)
	}
	if today.Date == "" {
		t.Error("date did not default to today")
	}

	entries, err := svc.ListNutrition(ctx)
	if err != nil {
		t.Fatalf("ListNutrition() error = %v", err)
	}
	if diff := cmp.Diff([]health.NutritionEntry{entry}, health.EntriesOn(entries, "2026-03-02"),
		cmpopts.IgnoreFields(health.NutritionEntry{}, "CreatedAt")); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if err = svc.DeleteNutrition(other, entry.ID); !errors.Is(err, health.ErrNotFound) {
		t.Errorf("deleting another user's entry: error = %v, want %v", err, health.ErrNotFound)
	}
	if err = svc.DeleteNutrition(ctx, entry.ID); err != nil {
		t.Errorf("DeleteNutrition() error = %v", err)
	}
}

func TestService_AddNutritionRejects(t *testing.T) {
	t.Parallel()
	svc, db := newService(t)
	ctx := testhelpers.NewUserContext(t, db)

	tests := map[string]health.NutritionInput{
		"no macros":     {Date: "2026-03-02", Name: "Water", ProteinGrams: 0, Calories: 0},
		"negative":      {Date: "2026-03-02", Name: "Odd", ProteinGrams: -1, Calories: 10},
		"malformed day": {Date: "02.03.2026", Name: "Egg", ProteinGrams: 6, Calories: 70},
		"infinite":      {Date: "2026-03-02", Name: "Egg", ProteinGrams: math.Inf(1), Calories: 70},
		"not a number":  {Date: "2026-03-02", Name: "Egg", ProteinGrams: 6, Calories: math.NaN()},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.AddNutrition(ctx, in); !errors.Is(err, health.ErrInvalidInput) {
				t.Errorf("AddNutrition() error = %v, want %v", err, health.ErrInvalidInput)
			}
		})
	}
}

func TestService_Profile(t *testing.T) {
	t.Parallel()
	svc, db := newService(t)
	ctx := testhelpers.NewUserContext(t, db)

	p, err := svc.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if diff := cmp.Diff(health.DefaultProfile(), p); diff != "" {
		t.Errorf("default profile mismatch (-want +got):\n%s", diff)
	}

	p.Nickname = "JJ"
	p.Age = ptr.Ref(25)
	p.HeightCm = ptr.Ref(175.0)
	p.WeightKg = ptr.Ref(70.0)
	p.TDEE = ptr.Ref(99999)
	saved, err := svc.SaveProfile(ctx, p)
	if err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	if saved.TDEE == nil || *saved.TDEE != 2009 {
		t.Errorf("TDEE = %v, want recomputed 2009", saved.TDEE)
	}

	loaded, err := svc.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if diff := cmp.Diff(saved, loaded, cmpopts.IgnoreFields(health.Profile{}, "UpdatedAt")); diff != "" {
		t.Errorf("loaded profile mismatch (-want +got):\n%s", diff)
	}

	invalid := loaded
	invalid.WeightKg = ptr.Ref(math.Inf(1))
	if _, err = svc.SaveProfile(ctx, invalid); !errors.Is(err, health.ErrInvalidInput) {
		t.Errorf("SaveProfile() with infinite weight error = %v, want %v", err, health.ErrInvalidInput)
	}

	// Removing an input clears the stored derived value.
	loaded.WeightKg = nil
	if saved, err = svc.SaveProfile(ctx, loaded); err != nil {
		t.Fatalf("SaveProfile() error = %v", err)
	}
	loaded, err = svc.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if loaded.TDEE != nil || loaded.ProteinTargetG != nil {
		t.Errorf("derived values kept: tdee %v protein %v", loaded.TDEE, loaded.ProteinTargetG)
	}

	loaded.ActivityFactor = 2
	if _, err = svc.SaveProfile(ctx, loaded); !errors.Is(err, health.ErrInvalidInput) {
		t.Errorf("SaveProfile() error = %v, want %v", err, health.ErrInvalidInput)
	}
}
