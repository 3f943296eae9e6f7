package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/myrjola/homegym/internal/errors"
)

const maxCSPReportBytes = 64 << 10

// cspReport is the body browsers post to the report-uri of the Content-Security-Policy.
type cspReport struct {
	Body struct {
		DocumentURI       string `json:"document-uri"`
		ViolatedDirective string `json:"violated-directive"`
		BlockedURI        string `json:"blocked-uri"`
		SourceFile        string `json:"source-file"`
		LineNumber        int    `json:"line-number"`
		ScriptSample      string `json:"script-sample"`
		Disposition       string `json:"disposition"`
	} `json:"csp-report"`
}

// cspViolation logs the reported violation. Reports are untrusted input so they only ever reach the log.
func (app *application) cspViolation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var report cspReport
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCSPReportBytes)).Decode(&report); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelInfo, "discard csp report", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if report.Body.ViolatedDirective == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	app.logger.LogAttrs(ctx, slog.LevelWarn, "csp violation",
		slog.String("document_uri", report.Body.DocumentURI),
		slog.String("violated_directive", report.Body.ViolatedDirective),
		slog.String("blocked_uri", report.Body.BlockedURI),
		slog.String("source_file", report.Body.SourceFile),
		slog.Int("line_number", report.Body.LineNumber),
		slog.String("script_sample", report.Body.ScriptSample),
		slog.String("disposition", report.Body.Disposition),
		slog.String("user_agent", r.UserAgent()))
	w.WriteHeader(http.StatusNoContent)
}
