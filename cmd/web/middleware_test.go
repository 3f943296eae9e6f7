package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/flightrecorder"
	"github.com/myrjola/homegym/internal/i18n"
)

type timeoutResponseWriter struct {
	httptest.ResponseRecorder
}

func newTimeoutResponseWriter() *timeoutResponseWriter {
	return &timeoutResponseWriter{
		ResponseRecorder: *httptest.NewRecorder(),
	}
}

// SetWriteDeadline is needed to not get "feature not implemented" error.
func (w *timeoutResponseWriter) SetWriteDeadline(_ time.Time) error {
	return nil
}

func sleeper(d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(d)
		_, _ = w.Write([]byte("done"))
	})
}

func Test_application_timeout(t *testing.T) {
	tests := []struct {
		name     string
		sleep    time.Duration
		slow     bool
		timesOut bool
	}{
		{name: "completes within timeout", sleep: 500 * time.Millisecond, slow: false, timesOut: false},
		{name: "times out", sleep: 3 * time.Second, slow: false, timesOut: true},
		{name: "generation gets the ai timeout", sleep: 26 * time.Second, slow: true, timesOut: false},
		{name: "generation times out", sleep: 30 * time.Second, slow: true, timesOut: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				app := &application{ //nolint:exhaustruct // this is a test
					logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
					aiTimeout: 25 * time.Second,
				}
				handler := app.timeout(sleeper(tt.sleep))
				if tt.slow {
					handler = app.longTimeout(sleeper(tt.sleep))
				}
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				w := newTimeoutResponseWriter()

				handler.ServeHTTP(w, req)

				time.Sleep(tt.sleep)

				if tt.timesOut {
					if w.Code != http.StatusServiceUnavailable {
						t.Errorf("Expected status 503 on timeout, got %d", w.Code)
					}
					if !strings.Contains(w.Body.String(), "timed out") {
						t.Errorf("Expected timeout message in response body, got: %s", w.Body.String())
					}
				} else if w.Code != http.StatusOK {
					t.Errorf("Expected status 200, got %d", w.Code)
				}
			})
		})
	}
}

func Test_application_timeoutCapturesTrace(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	recorder, err := flightrecorder.New(flightrecorder.Config{
		TracesDirectory: dir,
		MinAge:          0,
		MaxBytes:        0,
		Cooldown:        0,
		Now:             nil,
	}, logger)
	if err != nil {
		t.Fatalf("new flight recorder: %v", err)
	}
	if err = recorder.Start(t.Context()); err != nil {
		t.Fatalf("start flight recorder: %v", err)
	}
	defer recorder.Stop(t.Context())

	app := &application{logger: logger, flightRecorder: recorder} //nolint:exhaustruct // this is a test
	blocking := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	w := newTimeoutResponseWriter()
	app.timeout(blocking).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	traces, err := filepath.Glob(filepath.Join(dir, "timeout-history-*.trace"))
	if err != nil {
		t.Fatalf("glob traces: %v", err)
	}
	if len(traces) != 1 {
		entries, _ := os.ReadDir(dir)
		t.Fatalf("got traces %v, directory holds %v", traces, entries)
	}
}

func Test_commonContext(t *testing.T) {
	tests := []struct {
		name           string
		cookie         string
		acceptLanguage string
		want           i18n.Language
	}{
		{name: "default", cookie: "", acceptLanguage: "", want: i18n.English},
		{name: "accept language", cookie: "", acceptLanguage: "zh-TW,zh;q=0.9", want: i18n.TraditionalChinese},
		{name: "cookie wins", cookie: "en", acceptLanguage: "zh-TW", want: i18n.English},
		{name: "unsupported cookie", cookie: "xx", acceptLanguage: "zh-TW", want: i18n.TraditionalChinese},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got  i18n.Language
				path string
			)
			handler := commonContext(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = contexthelpers.Language(r.Context())
				path = contexthelpers.CurrentPath(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: languageCookieName, Value: tt.cookie}) //nolint:exhaustruct // test.
			}
			if tt.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tt.acceptLanguage)
			}

			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("language = %q, want %q", got, tt.want)
			}
			if path != "/stats" {
				t.Errorf("current path = %q, want /stats", path)
			}
		})
	}
}

func Test_isRelativePath(t *testing.T) {
	tests := map[string]bool{
		"/":                   true,
		"/drafts/monday":      true,
		"//evil.test":         false,
		"/\\evil.test":        false,
		"https://evil.test/":  false,
		"drafts":              false,
		"":                    false,
		"javascript://alert1": false,
	}
	for path, want := range tests {
		if got := isRelativePath(path); got != want {
			t.Errorf("isRelativePath(%q) = %v, want %v", path, got, want)
		}
	}
}
