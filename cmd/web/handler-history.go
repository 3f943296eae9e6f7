package main

import (
	"net/http"

	"github.com/myrjola/homegym/internal/workout"
)

type historyEntry struct {
	Log    workout.Log
	Volume float64
}

type historyTemplateData struct {
	BaseTemplateData
	Entries []historyEntry
}

func (app *application) historyGET(w http.ResponseWriter, r *http.Request) {
	logs, err := app.workoutService.ListLogs(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	entries := make([]historyEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, historyEntry{Log: log, Volume: workout.LogVolume(log)})
	}
	app.render(w, r, http.StatusOK, "history", historyTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Entries:          entries,
	})
}

func (app *application) historyDeletePOST(w http.ResponseWriter, r *http.Request) {
	if err := app.workoutService.DeleteLog(r.Context(), r.PathValue("id")); err != nil {
		app.fail(w, r, err, "/history")
		return
	}
	app.succeed(w, r, "notice.deleted", "/history")
}

// historyRepeatPOST copies a logged workout into the draft of its weekday.
func (app *application) historyRepeatPOST(w http.ResponseWriter, r *http.Request) {
	day, err := app.workoutService.RepeatLog(r.Context(), r.PathValue("id"))
	if err != nil {
		app.fail(w, r, err, "/history")
		return
	}
	redirect(w, r, draftPath(day))
}
