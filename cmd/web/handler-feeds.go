package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/feed"
)

const (
	feedLogs      = "logs"
	feedSun       = "sun"
	feedNutrition = "nutrition"

	keepAliveInterval = 30 * time.Second
)

// subscribeJSON subscribes to a collection feed and encodes every snapshot as JSON.
func subscribeJSON[T any](
	ctx context.Context,
	subscribe func(context.Context, func([]T)) (func(), error),
) (<-chan []byte, func(), error) {
	fn, latest := feed.Latest[T]()
	cancel, err := subscribe(ctx, fn)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snapshot := <-latest:
				if snapshot == nil {
					snapshot = []T{}
				}
				data, marshalErr := json.Marshal(snapshot)
				if marshalErr != nil {
					continue
				}
				select {
				case out <- data:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, cancel, nil
}

// feedGET streams snapshots of a collection as server-sent events until the client goes away.
func (app *application) feedGET(w http.ResponseWriter, r *http.Request) {
	ctx, cancelCtx := context.WithCancel(r.Context())
	defer cancelCtx()

	collection := r.PathValue("collection")
	var (
		events      <-chan []byte
		unsubscribe func()
		err         error
	)
	switch collection {
	case feedLogs:
		events, unsubscribe, err = subscribeJSON(ctx, app.workoutService.SubscribeLogs)
	case feedSun:
		events, unsubscribe, err = subscribeJSON(ctx, app.healthService.SubscribeSunLogs)
	case feedNutrition:
		events, unsubscribe, err = subscribeJSON(ctx, app.healthService.SubscribeNutrition)
	default:
		app.notFound(w, r)
		return
	}
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	defer unsubscribe()

	gauge := app.metrics.GaugeFeedSubscribers.WithLabelValues(collection)
	gauge.Inc()
	defer gauge.Dec()

	rc := http.NewResponseController(w)
	// Streams outlive the server's read and write timeouts.
	if err = rc.SetWriteDeadline(time.Time{}); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "clear write deadline", errors.SlogError(err))
	}
	if err = rc.SetReadDeadline(time.Time{}); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelDebug, "clear read deadline", errors.SlogError(err))
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err = rc.Flush(); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "flush feed headers", errors.SlogError(err))
		return
	}
	app.logger.LogAttrs(ctx, slog.LevelDebug, "feed opened", slog.String("collection", collection))

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			app.logger.LogAttrs(ctx, slog.LevelDebug, "feed closed", slog.String("collection", collection))
			return
		case <-ticker.C:
			_, err = fmt.Fprint(w, ": keep-alive\n\n")
		case data, ok := <-events:
			if !ok {
				return
			}
			_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", collection, data)
		}
		if err == nil {
			err = rc.Flush()
		}
		if err != nil {
			app.logger.LogAttrs(ctx, slog.LevelDebug, "write feed", errors.SlogError(err))
			return
		}
	}
}
