package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func Test_application_profile(t *testing.T) {
	var (
		ctx = t.Context()
		doc *goquery.Document
		err error
	)
	server, _ := startServer(t)
	client := server.Client()

	t.Run("Empty profile has no targets", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/profile"); err != nil {
			t.Fatalf("Failed to get profile: %v", err)
		}
		if got := mustText(t, doc, "[data-testid=tdee]"); got != "-" {
			t.Errorf("tdee = %q, want -", got)
		}
	})

	t.Run("Save computes targets", func(t *testing.T) {
		doc, err = client.SubmitForm(ctx, doc, "/profile", map[string]string{
			"Nickname":    "Lin",
			"Age":         "25",
			"Height (cm)": "175",
			"Weight (kg)": "70",
		})
		if err != nil {
			t.Fatalf("Failed to save profile: %v", err)
		}
		checkNotice(t, doc, "Saved.")
		for selector, want := range map[string]string{
			"[data-testid=tdee]":           "2009",
			"[data-testid=protein-target]": "140",
			"[data-testid=bmi]":            "22.9",
		} {
			if got := mustText(t, doc, selector); got != want {
				t.Errorf("%s = %q, want %q", selector, got, want)
			}
		}
	})

	t.Run("Dashboard shows targets", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/"); err != nil {
			t.Fatalf("Failed to get dashboard: %v", err)
		}
		if got := mustText(t, doc, ".greeting"); got != "Hi Lin" {
			t.Errorf("greeting = %q, want Hi Lin", got)
		}
		if !strings.Contains(doc.Find(".metrics").Text(), "/ 140 g") {
			t.Error("expected the protein target on the dashboard")
		}
	})

	t.Run("Invalid input keeps the saved profile", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/profile"); err != nil {
			t.Fatalf("Failed to get profile: %v", err)
		}
		if doc, err = client.SubmitForm(ctx, doc, "/profile", map[string]string{"Age": "-3"}); err != nil {
			t.Fatalf("Failed to post profile: %v", err)
		}
		checkNotice(t, doc, "Check the form and try again.")
		if got := mustText(t, doc, "[data-testid=tdee]"); got != "2009" {
			t.Errorf("tdee = %q, want 2009", got)
		}
	})

	t.Run("Non-finite weight is rejected", func(t *testing.T) {
		for _, weight := range []string{"NaN", "+Inf", "-Inf"} {
			if doc, err = client.GetDoc(ctx, "/profile"); err != nil {
				t.Fatalf("Failed to get profile: %v", err)
			}
			if doc, err = client.SubmitForm(ctx, doc, "/profile", map[string]string{"Weight (kg)": weight}); err != nil {
				t.Fatalf("Failed to post profile: %v", err)
			}
			checkNotice(t, doc, "Check the form and try again.")
			if got := mustText(t, doc, "[data-testid=tdee]"); got != "2009" {
				t.Errorf("tdee after weight %s = %q, want 2009", weight, got)
			}
		}
	})

	t.Run("Export", func(t *testing.T) {
		if _, err = client.PostForm(ctx, "/sun", url.Values{}); err != nil {
			t.Fatalf("Failed to log sun: %v", err)
		}
		resp, getErr := client.Get(ctx, "/profile/export")
		if getErr != nil {
			t.Fatalf("Failed to export: %v", getErr)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if got := resp.Header.Get("Content-Disposition"); !strings.HasPrefix(got, "attachment;") {
			t.Errorf("content disposition = %q", got)
		}
		var export struct {
			Profile struct {
				Nickname string `json:"nickname"`
				TDEE     *int   `json:"tdee"`
			} `json:"profile"`
			Workouts []json.RawMessage `json:"workouts"`
			SunLogs  []string          `json:"sun_logs"`
		}
		if err = json.NewDecoder(resp.Body).Decode(&export); err != nil {
			t.Fatalf("decode export: %v", err)
		}
		if export.Profile.Nickname != "Lin" || export.Profile.TDEE == nil || *export.Profile.TDEE != 2009 {
			t.Errorf("exported profile = %+v", export.Profile)
		}
		if len(export.SunLogs) != 1 || export.Workouts == nil || len(export.Workouts) != 0 {
			t.Errorf("exported %d sun logs and %v workouts", len(export.SunLogs), export.Workouts)
		}
	})

	t.Run("Forget", func(t *testing.T) {
		if doc, err = client.PostForm(ctx, "/profile/forget", url.Values{}); err != nil {
			t.Fatalf("Failed to forget: %v", err)
		}
		if doc.Url.Path != "/" {
			t.Errorf("landed on %s, want /", doc.Url.Path)
		}
		if doc.Find(".greeting").Length() != 0 {
			t.Error("expected the profile to be gone")
		}
		var sunLogs int
		if err = server.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM sun_logs").Scan(&sunLogs); err != nil {
			t.Fatalf("count sun logs: %v", err)
		}
		if sunLogs != 0 {
			t.Errorf("sun logs = %d, want 0", sunLogs)
		}
	})
}
