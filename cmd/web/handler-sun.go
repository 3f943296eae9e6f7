package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/myrjola/homegym/internal/health"
)

type sunTemplateData struct {
	BaseTemplateData
	Logs  []health.SunLog
	Today string
}

func (app *application) sunGET(w http.ResponseWriter, r *http.Request) {
	logs, err := app.healthService.ListSunLogs(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "sun", sunTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Logs:             logs,
		Today:            health.FormatDate(time.Now()),
	})
}

// sunPOST logs a sun exposure now, or at noon of the optional date form field.
func (app *application) sunPOST(w http.ResponseWriter, r *http.Request) {
	var err error
	if date := strings.TrimSpace(r.PostFormValue("date")); date != "" {
		_, err = app.healthService.LogSunOn(r.Context(), date)
	} else {
		_, err = app.healthService.LogSun(r.Context())
	}
	if err != nil {
		app.fail(w, r, err, "/sun")
		return
	}
	app.succeed(w, r, "notice.saved", "/sun")
}

func (app *application) sunDeletePOST(w http.ResponseWriter, r *http.Request) {
	if err := app.healthService.DeleteSunLog(r.Context(), r.PathValue("id")); err != nil {
		app.fail(w, r, err, "/sun")
		return
	}
	app.succeed(w, r, "notice.deleted", "/sun")
}
