package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	neturl "net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/myrjola/homegym/internal/e2etest"
	"github.com/myrjola/homegym/internal/logging"
	"github.com/myrjola/homegym/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	expectedArgsCount    = 3
	roundsPerUser        = 10
	maxConcurrentUsers   = 20
	scenarioTimeout      = 30 * time.Second
	successRateThreshold = 95.0
	percentageMultiplier = 100
	baseWeight           = 15.0
	weightRange          = 20
	baseReps             = 8
	repsRange            = 8
)

var exercises = []string{"Floor Press", "Goblet Squat", "Bent-over Row", "Overhead Press", "Romanian Deadlift"}

type results struct {
	operations atomic.Int64
	failures   atomic.Int64
}

func (r *results) record(err error) error {
	r.operations.Add(1)
	if err != nil {
		r.failures.Add(1)
	}
	return err
}

func (r *results) successRate() float64 {
	ops := r.operations.Load()
	if ops == 0 {
		return 0
	}
	return float64(ops-r.failures.Load()) / float64(ops) * percentageMultiplier
}

// userScenario drives one anonymous user through a week of training: it commits the Monday draft with random
// loads, logs a sun session and a meal, and finally checks the stats page.
func userScenario(ctx context.Context, url string, user int, res *results) error {
	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	client, err := e2etest.NewClient(url)
	if err != nil {
		return fmt.Errorf("new client for user %d: %w", user, err)
	}
	exercise := exercises[user%len(exercises)]

	for round := range roundsPerUser {
		if err = res.record(getPage(ctx, client, "/drafts/Monday")); err != nil {
			return fmt.Errorf("user %d round %d: %w", user, round, err)
		}
		form := neturl.Values{
			"title":      {"Stress " + strconv.Itoa(user)},
			"week_label": {"Week " + strconv.Itoa(round+1)},
			"name_0":     {exercise},
			"reps_0_0":   {strconv.Itoa(baseReps + rand.IntN(repsRange))},                               //nolint:gosec // load
			"weight_0_0": {strconv.FormatFloat(baseWeight+float64(rand.IntN(weightRange)), 'f', 1, 64)}, //nolint:gosec // load
		}
		if err = res.record(postPage(ctx, client, "/drafts/Monday/commit", form, "/history")); err != nil {
			return fmt.Errorf("user %d round %d commit: %w", user, round, err)
		}
		if err = res.record(postPage(ctx, client, "/sun", neturl.Values{"date": {""}}, "/sun")); err != nil {
			return fmt.Errorf("user %d round %d sun: %w", user, round, err)
		}
		meal := neturl.Values{"name": {"Oats"}, "protein": {"12"}, "calories": {"380"}, "date": {""}}
		if err = res.record(postPage(ctx, client, "/nutrition", meal, "/nutrition")); err != nil {
			return fmt.Errorf("user %d round %d nutrition: %w", user, round, err)
		}
	}

	doc, err := client.GetDoc(ctx, "/stats")
	if err = res.record(err); err != nil {
		return fmt.Errorf("user %d stats: %w", user, err)
	}
	if !strings.Contains(doc.Text(), exercise) {
		return res.record(fmt.Errorf("user %d stats miss %s", user, exercise))
	}
	return nil
}

func getPage(ctx context.Context, client *e2etest.Client, path string) error {
	if _, err := client.GetDoc(ctx, path); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return nil
}

func postPage(ctx context.Context, client *e2etest.Client, path string, form neturl.Values, wantPath string) error {
	doc, err := client.PostForm(ctx, path, form)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	if doc.Url == nil || doc.Url.Path != wantPath {
		return fmt.Errorf("post %s landed on %v, want %s", path, doc.Url, wantPath)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != expectedArgsCount {
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <hostname> <users>")
		os.Exit(1)
	}
	hostname := os.Args[1]
	users, err := strconv.Atoi(os.Args[2])
	if err != nil || users < 1 {
		logger.LogAttrs(ctx, slog.LevelError, "users must be a positive number", slog.String("users", os.Args[2]))
		os.Exit(1)
	}
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname), slog.Int("users", users))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	probe, err := e2etest.NewClient(url)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", slog.Any("error", err))
		os.Exit(1)
	}
	if err = probe.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}

	var (
		res   results
		start = time.Now()
		g     errgroup.Group
		errs  = make([]error, users)
	)
	g.SetLimit(maxConcurrentUsers)
	for user := range users {
		g.Go(func() error {
			errs[user] = userScenario(ctx, url, user, &res)
			return nil
		})
	}
	_ = g.Wait()

	if err = errors.Join(errs...); err != nil {
		logger.LogAttrs(ctx, slog.LevelWarn, "some scenarios failed", slog.Any("error", err))
	}
	rate := res.successRate()
	logger.LogAttrs(ctx, slog.LevelInfo, "stress test finished",
		slog.Int64("operations", res.operations.Load()),
		slog.Int64("failures", res.failures.Load()),
		slog.Float64("success_rate", rate),
		slog.Duration("duration", time.Since(start)))
	if rate < successRateThreshold {
		logger.LogAttrs(ctx, slog.LevelError, "success rate below threshold", slog.Float64("threshold", successRateThreshold))
		os.Exit(1)
	}
}
