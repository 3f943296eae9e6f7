package coach

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/myrjola/homegym/internal/ai"
	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/i18n"
	"github.com/myrjola/homegym/internal/metrics"
	"github.com/myrjola/homegym/internal/workout"
)

var (
	// ErrStaleRequest is returned when a newer generation or a discard superseded the request.
	ErrStaleRequest = errors.NewSentinel("plan request superseded")
	// ErrInvalidRequest is returned for blank prompts and out of range inputs.
	ErrInvalidRequest = errors.NewSentinel("invalid request")
)

const (
	operationPlan      = "plan"
	operationNutrition = "nutrition"
	operationGuide     = "guide"
)

// Service turns natural-language requests into plans, nutrition estimates and exercise guides.
// It never retries a failed generation and never applies a plan by itself.
type Service struct {
	client  ai.Client
	tracker *Tracker
	metrics *metrics.Manager
	logger  *slog.Logger
}

// NewService creates a new coach service.
func NewService(client ai.Client, m *metrics.Manager, logger *slog.Logger) *Service {
	return &Service{
		client:  client,
		tracker: NewTracker(),
		metrics: m,
		logger:  logger,
	}
}

// GeneratePlan asks the generative service for a plan and normalizes the answer.
//
// The returned plan is meant for review before workout.Service.ApplyPendingPlan. If the user started another
// generation or discarded the pending plan while this one was in flight, the result is dropped with
// ErrStaleRequest.
func (s *Service) GeneratePlan(ctx context.Context, req PlanRequest) (workout.Plan, error) {
	if strings.TrimSpace(req.FreeText) == "" {
		return workout.Plan{}, fmt.Errorf("%w: empty plan request", ErrInvalidRequest)
	}
	if _, ok := ParseDifficulty(string(req.Difficulty)); !ok {
		return workout.Plan{}, fmt.Errorf("%w: difficulty %q", ErrInvalidRequest, req.Difficulty)
	}
	token := s.tracker.Begin(contexthelpers.AuthenticatedUserID(ctx))

	text, err := s.complete(ctx, operationPlan, BuildPlanPrompt(req))
	if !s.tracker.Current(token) {
		s.metrics.CounterStaleGenerations.Inc()
		s.logger.LogAttrs(ctx, slog.LevelInfo, "dropping superseded plan response")
		return workout.Plan{}, ErrStaleRequest
	}
	s.tracker.Finish(token)
	if err != nil {
		return workout.Plan{}, err
	}

	plan, err := workout.NormalizePlan(text)
	if err != nil {
		s.metrics.CounterGenerations.WithLabelValues(operationPlan, "malformed").Inc()
		s.logger.LogAttrs(ctx, slog.LevelWarn, "generated plan is malformed",
			slog.String("difficulty", string(req.Difficulty)), errors.SlogError(err))
		return workout.Plan{}, fmt.Errorf("normalize plan: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "plan generated",
		slog.String("difficulty", string(req.Difficulty)), slog.Int("exercises", len(plan.Exercises)))
	return plan, nil
}

// Discard makes any in-flight plan generation of the user stale.
func (s *Service) Discard(ctx context.Context) {
	s.tracker.Invalidate(contexthelpers.AuthenticatedUserID(ctx))
}

// Estimate is the estimated macros of a food portion.
type Estimate struct {
	ProteinGrams float64
	Calories     float64
}

// number decodes a JSON number, a numeric string or null.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if text == "" || text == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("not a finite number: %s", data)
	}
	*n = number(f)
	return nil
}

// EstimateNutrition asks the generative service for the protein and calories of grams of food.
func (s *Service) EstimateNutrition(ctx context.Context, food string, grams float64) (Estimate, error) {
	food = strings.TrimSpace(food)
	if food == "" || grams <= 0 {
		return Estimate{}, fmt.Errorf("%w: food name and a positive weight are required", ErrInvalidRequest)
	}
	text, err := s.complete(ctx, operationNutrition, buildNutritionPrompt(food, grams))
	if err != nil {
		return Estimate{}, err
	}
	var raw struct {
		Protein  number `json:"protein"`
		Calories number `json:"calories"`
	}
	if err = workout.DecodeEmbeddedJSON(text, &raw); err != nil {
		s.metrics.CounterGenerations.WithLabelValues(operationNutrition, "malformed").Inc()
		return Estimate{}, fmt.Errorf("decode nutrition estimate: %w", err)
	}
	if raw.Protein < 0 || raw.Calories < 0 {
		return Estimate{}, fmt.Errorf("%w: negative estimate", workout.ErrMalformedPlan)
	}
	return Estimate{ProteinGrams: float64(raw.Protein), Calories: float64(raw.Calories)}, nil
}

// ExerciseGuide returns short markdown form guidance for an exercise in lang.
func (s *Service) ExerciseGuide(ctx context.Context, exercise string, lang i18n.Language) (string, error) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return "", fmt.Errorf("%w: exercise name is required", ErrInvalidRequest)
	}
	return s.complete(ctx, operationGuide, buildGuidePrompt(exercise, lang.PromptName()))
}

// complete calls the client and records the outcome.
func (s *Service) complete(ctx context.Context, operation string, req ai.Request) (string, error) {
	start := time.Now()
	text, err := s.client.Complete(ctx, req)
	s.metrics.HistogramGenerationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		outcome := string(ai.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
		s.metrics.CounterGenerations.WithLabelValues(operation, outcome).Inc()
		return "", fmt.Errorf("%s: %w", operation, err)
	}
	s.metrics.CounterGenerations.WithLabelValues(operation, "ok").Inc()
	return text, nil
}
