package coach_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/homegym/internal/ai"
	"github.com/myrjola/homegym/internal/coach"
	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/i18n"
	"github.com/myrjola/homegym/internal/metrics"
	"github.com/myrjola/homegym/internal/testhelpers"
	"github.com/myrjola/homegym/internal/workout"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeClient answers every request with complete.
type fakeClient struct {
	mu       sync.Mutex
	requests []ai.Request
	complete func(ctx context.Context, req ai.Request) (string, error)
}

func (f *fakeClient) Complete(ctx context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.complete(ctx, req)
}

func answer(text string) func(context.Context, ai.Request) (string, error) {
	return func(context.Context, ai.Request) (string, error) {
		return text, nil
	}
}

func newService(t *testing.T, client ai.Client) (*coach.Service, *metrics.Manager, context.Context) {
	t.Helper()
	m, _ := metrics.NewTestManager()
	svc := coach.NewService(client, m, testhelpers.NewTestLogger(t))
	return svc, m, contexthelpers.WithUserID(t.Context(), 1)
}

const planJSON = "Here you go:\n```json\n" + `{"title": "Push day", "exercises": [
  {"name": "Floor Press", "sets": [{"reps": 10, "weight": "18.1"}, {"reps": "10"}]},
  {"name": "Hammer Curl", "sets": []}
]}` + "\n```"

func TestService_GeneratePlan(t *testing.T) {
	t.Parallel()
	client := &fakeClient{mu: sync.Mutex{}, requests: nil, complete: answer(planJSON)}
	svc, m, ctx := newService(t, client)

	got, err := svc.GeneratePlan(ctx, coach.PlanRequest{
		FreeText:     "chest",
		Difficulty:   coach.Beginner,
		BodyWeightKg: nil,
	})
	if err != nil {
		t.Fatalf("GeneratePlan() error = %v", err)
	}
	want := workout.Plan{
		Title: "Push day",
		Exercises: []workout.PlanExercise{
			{Name: "Floor Press", Sets: []workout.PlanSet{{Reps: "10", Weight: "18.1"}, {Reps: "10", Weight: ""}}},
			{Name: "Hammer Curl", Sets: []workout.PlanSet{}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GeneratePlan() mismatch (-want +got):\n%s", diff)
	}
	if len(client.requests) != 1 || !strings.Contains(client.requests[0].User, "chest") {
		t.Errorf("requests = %+v, want one request about chest", client.requests)
	}
	if v := testutil.ToFloat64(m.CounterGenerations.WithLabelValues("plan", "ok")); v != 1 {
		t.Errorf("ok generations = %v, want 1", v)
	}
}

func TestService_GeneratePlan_staleAfterDiscard(t *testing.T) {
	t.Parallel()
	client := &fakeClient{mu: sync.Mutex{}, requests: nil, complete: nil}
	svc, m, ctx := newService(t, client)
	client.complete = func(ctx context.Context, _ ai.Request) (string, error) {
		// The user discards the pending plan while the response is in flight.
		svc.Discard(ctx)
		return planJSON, nil
	}

	_, err := svc.GeneratePlan(ctx, coach.PlanRequest{FreeText: "chest", Difficulty: coach.Beginner, BodyWeightKg: nil})
	if !errors.Is(err, coach.ErrStaleRequest) {
		t.Fatalf("GeneratePlan() error = %v, want ErrStaleRequest", err)
	}
	if v := testutil.ToFloat64(m.CounterStaleGenerations); v != 1 {
		t.Errorf("stale generations = %v, want 1", v)
	}
}

func TestService_GeneratePlan_staleAfterNewerRequest(t *testing.T) {
	t.Parallel()
	client := &fakeClient{mu: sync.Mutex{}, requests: nil, complete: nil}
	svc, _, ctx := newService(t, client)
	var calls atomic.Int32
	newer := make(chan error, 1)
	client.complete = func(ctx context.Context, _ ai.Request) (string, error) {
		if calls.Add(1) == 1 {
			// A second request starts and finishes before the first response arrives.
			_, err := svc.GeneratePlan(ctx, coach.PlanRequest{
				FreeText: "arms", Difficulty: coach.Advanced, BodyWeightKg: nil,
			})
			newer <- err
		}
		return planJSON, nil
	}

	_, err := svc.GeneratePlan(ctx, coach.PlanRequest{FreeText: "chest", Difficulty: coach.Beginner, BodyWeightKg: nil})
	if !errors.Is(err, coach.ErrStaleRequest) {
		t.Errorf("first GeneratePlan() error = %v, want ErrStaleRequest", err)
	}
	if err = <-newer; err != nil {
		t.Errorf("second GeneratePlan() error = %v", err)
	}
}

func TestService_GeneratePlan_failures(t *testing.T) {
	t.Parallel()

	genErr := &ai.Error{Kind: ai.KindRateLimit, StatusCode: 429, Err: errors.New("slow down")}
	tests := []struct {
		name     string
		req      coach.PlanRequest
		complete func(context.Context, ai.Request) (string, error)
		wantErr  error
		outcome  string
	}{
		{
			name:     "blank request",
			req:      coach.PlanRequest{FreeText: "  ", Difficulty: coach.Beginner, BodyWeightKg: nil},
			complete: answer(planJSON),
			wantErr:  coach.ErrInvalidRequest,
			outcome:  "",
		},
		{
			name:     "unknown difficulty",
			req:      coach.PlanRequest{FreeText: "chest", Difficulty: "expert", BodyWeightKg: nil},
			complete: answer(planJSON),
			wantErr:  coach.ErrInvalidRequest,
			outcome:  "",
		},
		{
			name:     "malformed response",
			req:      coach.PlanRequest{FreeText: "chest", Difficulty: coach.Beginner, BodyWeightKg: nil},
			complete: answer("I cannot help with that."),
			wantErr:  workout.ErrMalformedPlan,
			outcome:  "malformed",
		},
		{
			name: "rate limited",
			req:  coach.PlanRequest{FreeText: "chest", Difficulty: coach.Beginner, BodyWeightKg: nil},
			complete: func(context.Context, ai.Request) (string, error) {
				return "", genErr
			},
			wantErr: ai.ErrGenerationFailed,
			outcome: "rate_limit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &fakeClient{mu: sync.Mutex{}, requests: nil, complete: tt.complete}
			svc, m, ctx := newService(t, client)
			_, err := svc.GeneratePlan(ctx, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GeneratePlan() error = %v, want %v", err, tt.wantErr)
			}
			if tt.outcome == "" {
				if len(client.requests) != 0 {
					t.Errorf("invalid requests should not reach the client, got %d calls", len(client.requests))
				}
				return
			}
			if v := testutil.ToFloat64(m.CounterGenerations.WithLabelValues("plan", tt.outcome)); v != 1 {
				t.Errorf("%s generations = %v, want 1", tt.outcome, v)
			}
		})
	}
}

func TestService_EstimateNutrition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		food    string
		grams   float64
		answer  string
		want    coach.Estimate
		wantErr error
	}{
		{
			name:    "numbers",
			food:    "chicken breast",
			grams:   200,
			answer:  `{"protein": 46.2, "calories": 330}`,
			want:    coach.Estimate{ProteinGrams: 46.2, Calories: 330},
			wantErr: nil,
		},
		{
			name:    "numeric strings in prose",
			food:    "tofu",
			grams:   100,
			answer:  `Sure! {"protein": "8", "calories": "76"}`,
			want:    coach.Estimate{ProteinGrams: 8, Calories: 76},
			wantErr: nil,
		},
		{
			name:    "null protein",
			food:    "apple",
			grams:   150,
			answer:  `{"protein": null, "calories": 78}`,
			want:    coach.Estimate{ProteinGrams: 0, Calories: 78},
			wantErr: nil,
		},
		{
			name:    "not json",
			food:    "rice",
			grams:   100,
			answer:  "About 130 kcal.",
			want:    coach.Estimate{ProteinGrams: 0, Calories: 0},
			wantErr: workout.ErrMalformedPlan,
		},
		{
			name:    "negative",
			food:    "rice",
			grams:   100,
			answer:  `{"protein": -1, "calories": 130}`,
			want:    coach.Estimate{ProteinGrams: 0, Calories: 0},
			wantErr: workout.ErrMalformedPlan,
		},
		{
			name:    "no weight",
			food:    "rice",
			grams:   0,
			answer:  `{"protein": 1, "calories": 130}`,
			want:    coach.Estimate{ProteinGrams: 0, Calories: 0},
			wantErr: coach.ErrInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &fakeClient{mu: sync.Mutex{}, requests: nil, complete: answer(tt.answer)}
			svc, _, ctx := newService(t, client)
			got, err := svc.EstimateNutrition(ctx, tt.food, tt.grams)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("EstimateNutrition() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("EstimateNutrition() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestService_ExerciseGuide(t *testing.T) {
	t.Parallel()
	client := &fakeClient{mu: sync.Mutex{}, requests: nil, complete: answer("- Keep your elbows tucked")}
	svc, _, ctx := newService(t, client)

	got, err := svc.ExerciseGuide(ctx, "Floor Press", i18n.TraditionalChinese)
	if err != nil {
		t.Fatalf("ExerciseGuide() error = %v", err)
	}
	if got != "- Keep your elbows tucked" {
		t.Errorf("ExerciseGuide() = %q", got)
	}
	req := client.requests[0]
	if req.JSON {
		t.Error("guides are markdown, not JSON")
	}
	if !strings.Contains(req.User, `"Floor Press"`) || !strings.Contains(req.User, "Traditional Chinese") {
		t.Errorf("guide prompt = %q", req.User)
	}

	if _, err = svc.ExerciseGuide(ctx, " ", i18n.English); !errors.Is(err, coach.ErrInvalidRequest) {
		t.Errorf("ExerciseGuide(blank) error = %v, want ErrInvalidRequest", err)
	}
}
