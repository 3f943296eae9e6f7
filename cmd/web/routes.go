package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		common = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(commonContext(next))))
		}
		noAuth = func(next http.Handler) http.Handler {
			return app.recoverPanic(common(app.timeout(next)))
		}
		withSession = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(
				app.authenticator.Middleware(common(next)))))
		}
		session = func(next http.Handler) http.Handler {
			return withSession(app.timeout(next))
		}
		// slowSession is for handlers waiting on the generative service.
		slowSession = func(next http.Handler) http.Handler {
			return withSession(app.longTimeout(next))
		}
		// stream is for server-sent events which outlive every timeout.
		stream = func(next http.Handler) http.Handler {
			return withSession(next)
		}
	)

	mux.Handle("GET /{$}", session(http.HandlerFunc(app.dashboardGET)))
	mux.Handle("GET /stats", session(http.HandlerFunc(app.statsGET)))

	mux.Handle("GET /drafts/{day}", session(http.HandlerFunc(app.draftGET)))
	mux.Handle("POST /drafts/{day}", session(http.HandlerFunc(app.draftPOST)))
	mux.Handle("POST /drafts/{day}/exercises", session(http.HandlerFunc(app.draftAddExercisePOST)))
	mux.Handle("POST /drafts/{day}/exercises/{ex}/delete", session(http.HandlerFunc(app.draftRemoveExercisePOST)))
	mux.Handle("POST /drafts/{day}/exercises/{ex}/sets", session(http.HandlerFunc(app.draftAddSetPOST)))
	mux.Handle("POST /drafts/{day}/exercises/{ex}/sets/{set}/delete",
		session(http.HandlerFunc(app.draftRemoveSetPOST)))
	mux.Handle("POST /drafts/{day}/week/{delta}", session(http.HandlerFunc(app.draftChangeWeekPOST)))
	mux.Handle("POST /drafts/{day}/clear", session(http.HandlerFunc(app.draftClearPOST)))
	mux.Handle("POST /drafts/{day}/commit", session(http.HandlerFunc(app.draftCommitPOST)))

	mux.Handle("GET /coach", session(http.HandlerFunc(app.coachGET)))
	mux.Handle("POST /coach/generate", slowSession(http.HandlerFunc(app.coachGeneratePOST)))
	mux.Handle("POST /coach/apply", session(http.HandlerFunc(app.coachApplyPOST)))
	mux.Handle("POST /coach/discard", session(http.HandlerFunc(app.coachDiscardPOST)))
	mux.Handle("GET /coach/guide", slowSession(http.HandlerFunc(app.coachGuideGET)))

	mux.Handle("GET /history", session(http.HandlerFunc(app.historyGET)))
	mux.Handle("POST /history/{id}/delete", session(http.HandlerFunc(app.historyDeletePOST)))
	mux.Handle("POST /history/{id}/repeat", session(http.HandlerFunc(app.historyRepeatPOST)))

	mux.Handle("GET /nutrition", session(http.HandlerFunc(app.nutritionGET)))
	mux.Handle("POST /nutrition", session(http.HandlerFunc(app.nutritionPOST)))
	mux.Handle("POST /nutrition/estimate", slowSession(http.HandlerFunc(app.nutritionEstimatePOST)))
	mux.Handle("POST /nutrition/{id}/delete", session(http.HandlerFunc(app.nutritionDeletePOST)))

	mux.Handle("GET /sun", session(http.HandlerFunc(app.sunGET)))
	mux.Handle("POST /sun", session(http.HandlerFunc(app.sunPOST)))
	mux.Handle("POST /sun/{id}/delete", session(http.HandlerFunc(app.sunDeletePOST)))

	mux.Handle("GET /profile", session(http.HandlerFunc(app.profileGET)))
	mux.Handle("POST /profile", session(http.HandlerFunc(app.profilePOST)))
	mux.Handle("GET /profile/export", session(http.HandlerFunc(app.profileExportGET)))
	mux.Handle("POST /profile/forget", session(http.HandlerFunc(app.profileForgetPOST)))

	mux.Handle("POST /language", noAuth(http.HandlerFunc(app.setLanguagePOST)))

	mux.Handle("GET /api/healthy", noAuth(http.HandlerFunc(app.healthy)))
	mux.Handle("GET /api/feeds/{collection}", stream(http.HandlerFunc(app.feedGET)))
	mux.Handle("POST /api/csp-violation", noAuth(http.HandlerFunc(app.cspViolation)))
	if app.metricsEnabled {
		mux.Handle("GET /metrics", noAuth(promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))) //nolint:exhaustruct,lll // defaults.
	}

	// File server with custom 404 handling
	fileServerHandler, err := app.fileServerHandler()
	if err != nil {
		return nil, fmt.Errorf("fileServerHandler: %w", err)
	}
	mux.Handle("/", fileServerHandler)

	return mux, nil
}
