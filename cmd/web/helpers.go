package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/myrjola/homegym/internal/ai"
	"github.com/myrjola/homegym/internal/coach"
	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/health"
	"github.com/myrjola/homegym/internal/sqlite"
	"github.com/myrjola/homegym/internal/workout"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	buf, renderErr := app.renderToBuf(r.Context(), "error", app.newBaseTemplateData(r))
	if renderErr != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "render error page", errors.SlogError(renderErr))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = buf.WriteTo(w)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusNotFound, "not-found", app.newBaseTemplateData(r))
}

// redirect detects if the request is originating from a fetch API call or a top-level navigation and points the user
// to the correct URL.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("Sec-Fetch-Dest") == "empty" {
		w.Header().Set("Content-Location", path)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, path, http.StatusSeeOther)
}

// notice is a one-shot message shown on the next rendered page.
type notice struct {
	// Kind is "success" or "error".
	Kind string
	// Key is the translation key of the message.
	Key string
}

const noticesSessionKey = "notices"

func (app *application) addNotice(ctx context.Context, kind, key string) {
	notices, _ := app.sessionManager.Get(ctx, noticesSessionKey).([]notice)
	app.sessionManager.Put(ctx, noticesSessionKey, append(notices, notice{Kind: kind, Key: key}))
}

// popNotices returns and forgets the pending notices. Requests without a session have none.
func (app *application) popNotices(ctx context.Context) []notice {
	if !contexthelpers.IsAuthenticated(ctx) {
		return nil
	}
	notices, _ := app.sessionManager.Pop(ctx, noticesSessionKey).([]notice)
	return notices
}

func (app *application) succeed(w http.ResponseWriter, r *http.Request, key, path string) {
	app.addNotice(r.Context(), "success", key)
	redirect(w, r, path)
}

// noticeKey maps the expected failures of a user action to a message. Unexpected errors have no message.
func noticeKey(err error) (string, bool) {
	switch {
	case errors.Is(err, coach.ErrStaleRequest):
		return "notice.stale", true
	case errors.Is(err, workout.ErrEmptyPlan):
		return "notice.empty_plan", true
	case errors.Is(err, workout.ErrMalformedPlan):
		return "notice.malformed", true
	case ai.KindOf(err) == ai.KindDisabled:
		return "notice.disabled", true
	case errors.Is(err, ai.ErrGenerationFailed):
		return "notice.generation", true
	case errors.Is(err, workout.ErrNotFound), errors.Is(err, health.ErrNotFound):
		return "notice.not_found", true
	case errors.Is(err, workout.ErrIndexOutOfRange), errors.Is(err, workout.ErrUnknownField),
		errors.Is(err, workout.ErrUnknownWeekday), errors.Is(err, health.ErrInvalidInput),
		errors.Is(err, coach.ErrInvalidRequest):
		return "notice.invalid", true
	case errors.Is(err, sqlite.ErrPersistenceFailure):
		return "notice.persistence", true
	}
	return "", false
}

// fail reports err once. Expected failures become a notice on the page at path, anything else is a server error.
func (app *application) fail(w http.ResponseWriter, r *http.Request, err error, path string) {
	key, ok := noticeKey(err)
	if !ok {
		app.serverError(w, r, err)
		return
	}
	level := slog.LevelInfo
	if errors.Is(err, sqlite.ErrPersistenceFailure) || errors.Is(err, ai.ErrGenerationFailed) {
		level = slog.LevelWarn
	}
	app.logger.LogAttrs(r.Context(), level, "action failed", slog.String("notice", key), errors.SlogError(err))
	app.addNotice(r.Context(), "error", key)
	redirect(w, r, path)
}

// parseFloatField parses an optional numeric form field. Blank values are nil, NaN and infinities are invalid.
func parseFloatField(r *http.Request, name string) (*float64, error) {
	raw := r.PostFormValue(name)
	if raw == "" {
		return nil, nil //nolint:nilnil // absent value.
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Join(health.ErrInvalidInput, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s is not a finite number", health.ErrInvalidInput, name)
	}
	return &f, nil
}

// parseIndex parses the path value name as a zero-based index.
func parseIndex(r *http.Request, name string) (int, bool) {
	index, err := strconv.Atoi(r.PathValue(name))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
