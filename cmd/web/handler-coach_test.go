package main

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/homegym/internal/e2etest"
	"github.com/myrjola/homegym/internal/testhelpers"
)

func Test_application_coach(t *testing.T) {
	var (
		ctx = t.Context()
		doc *goquery.Document
		err error
	)
	server, fake := startServer(t)
	client := server.Client()

	t.Run("Routines prefill the request", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/coach"); err != nil {
			t.Fatalf("Failed to get coach: %v", err)
		}
		if got := doc.Find("ul.routines li").Length(); got != 13 {
			t.Errorf("routines = %d, want 13", got)
		}
		link := doc.Find("ul.routines a").First().AttrOr("href", "")
		if doc, err = client.GetDoc(ctx, link); err != nil {
			t.Fatalf("Failed to follow routine link: %v", err)
		}
		if strings.TrimSpace(doc.Find("textarea[name=request]").Text()) == "" {
			t.Error("expected the routine prompt in the request field")
		}
	})

	t.Run("Generate", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/coach"); err != nil {
			t.Fatalf("Failed to get coach: %v", err)
		}
		doc, err = client.SubmitForm(ctx, doc, "/coach/generate", map[string]string{
			"What do you want to train?": "arms",
			"Level":                      "intermediate",
			"Body weight (kg)":           "72.5",
		})
		if err != nil {
			t.Fatalf("Failed to generate: %v", err)
		}
		pending := doc.Find("[data-testid=pending-plan]")
		if pending.Length() == 0 {
			t.Fatalf("pending plan not shown: %v", noticeTexts(doc))
		}
		if got := pending.Find("h2").Text(); !strings.Contains(got, "Arm day") {
			t.Errorf("pending title = %q, want Arm day", got)
		}
		if got := pending.Find("li").Length(); got != 2 {
			t.Errorf("pending exercises = %d, want 2", got)
		}
		prompts := fake.prompts()
		if got := prompts[len(prompts)-1]; got != "User request: arms. Body weight: 72.5 kg." {
			t.Errorf("prompt = %q", got)
		}
		if got := doc.Find("select[name=difficulty] option[selected]").AttrOr("value", ""); got != "intermediate" {
			t.Errorf("remembered difficulty = %q, want intermediate", got)
		}
	})

	t.Run("Apply", func(t *testing.T) {
		if doc, err = client.PostForm(ctx, "/coach/apply", url.Values{"day": {"Wednesday"}}); err != nil {
			t.Fatalf("Failed to apply: %v", err)
		}
		if doc.Url.Path != "/drafts/Wednesday" {
			t.Errorf("landed on %s, want /drafts/Wednesday", doc.Url.Path)
		}
		checkNotice(t, doc, "Plan applied to the planner.")
		for name, want := range map[string]string{
			"title":      "Arm day",
			"week_label": "Week 1",
			"name_0":     "Floor Press",
			"reps_0_0":   "10",
			"weight_0_0": "12.5",
			"reps_0_1":   "8",
			"name_1":     "Hammer Curl",
			"reps_1_0":   "",
		} {
			if got := inputValue(t, doc, name); got != want {
				t.Errorf("%s = %q, want %q", name, got, want)
			}
		}
	})

	t.Run("Apply without a pending plan", func(t *testing.T) {
		if doc, err = client.PostForm(ctx, "/coach/apply", url.Values{"day": {"Wednesday"}}); err != nil {
			t.Fatalf("Failed to apply: %v", err)
		}
		checkNotice(t, doc, "A newer request replaced this one.")
	})

	t.Run("Malformed answer", func(t *testing.T) {
		fake.setPlan("Sorry, I can only chat today.")
		defer fake.setPlan(fakePlan)
		doc, err = client.PostForm(ctx, "/coach/generate", url.Values{
			"request":    {"legs"},
			"difficulty": {"beginner"},
		})
		if err != nil {
			t.Fatalf("Failed to generate: %v", err)
		}
		checkNotice(t, doc, "The coach answered in an unexpected format. Try again.")
		if doc.Find("[data-testid=pending-plan]").Length() != 0 {
			t.Error("expected no pending plan")
		}
	})

	t.Run("Blank request", func(t *testing.T) {
		doc, err = client.PostForm(ctx, "/coach/generate", url.Values{
			"request":    {"  "},
			"difficulty": {"beginner"},
		})
		if err != nil {
			t.Fatalf("Failed to generate: %v", err)
		}
		checkNotice(t, doc, "Check the form and try again.")
	})

	t.Run("Discard", func(t *testing.T) {
		if _, err = client.PostForm(ctx, "/coach/generate", url.Values{
			"request":    {"chest"},
			"difficulty": {"advanced"},
		}); err != nil {
			t.Fatalf("Failed to generate: %v", err)
		}
		if doc, err = client.PostForm(ctx, "/coach/discard", url.Values{}); err != nil {
			t.Fatalf("Failed to discard: %v", err)
		}
		checkNotice(t, doc, "Plan discarded.")
		if doc.Find("[data-testid=pending-plan]").Length() != 0 {
			t.Error("expected the pending plan to be gone")
		}
	})

	t.Run("Guide", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/coach/guide?name=Floor+Press&back=/drafts/Wednesday"); err != nil {
			t.Fatalf("Failed to get guide: %v", err)
		}
		if got := mustText(t, doc, "h1"); got != "How to do Floor Press" {
			t.Errorf("heading = %q", got)
		}
		if got := doc.Find(".markdown li").Length(); got != 2 {
			t.Errorf("guide bullets = %d, want 2", got)
		}
		if doc.Find("a[href='/drafts/Wednesday']").Length() == 0 {
			t.Error("expected a link back to the planner")
		}
		prompts := fake.prompts()
		if got := prompts[len(prompts)-1]; !strings.Contains(got, `"Floor Press"`) || !strings.Contains(got, "English") {
			t.Errorf("guide prompt = %q", got)
		}
	})
}

type postResult struct {
	doc *goquery.Document
	err error
}

// postInBackground posts form to urlPath from a goroutine. The result arrives on the returned channel.
func postInBackground(ctx context.Context, client *e2etest.Client, urlPath string, form url.Values) <-chan postResult {
	done := make(chan postResult, 1)
	go func() {
		doc, err := client.PostForm(ctx, urlPath, form)
		done <- postResult{doc: doc, err: err}
	}()
	return done
}

func waitStarted(t *testing.T, started <-chan struct{}) {
	t.Helper()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("plan request did not reach the coach")
	}
}

func Test_application_coachDuringOtherRequests(t *testing.T) {
	var (
		ctx = t.Context()
		doc *goquery.Document
		err error
	)
	server, fake := startServer(t)
	client := server.Client()
	if _, err = client.GetDoc(ctx, "/coach"); err != nil {
		t.Fatalf("Failed to get coach: %v", err)
	}

	t.Run("Draft edits survive a slow generation", func(t *testing.T) {
		started, release := fake.holdNextPlan()
		defer release()
		generation := postInBackground(ctx, client, "/coach/generate", url.Values{
			"request":    {"arms"},
			"difficulty": {"beginner"},
		})
		waitStarted(t, started)

		if doc, err = client.PostForm(ctx, "/drafts/Monday", url.Values{
			"title":      {"Edited while generating"},
			"week_label": {"Week 3"},
		}); err != nil {
			t.Fatalf("Failed to save draft: %v", err)
		}
		if got := inputValue(t, doc, "title"); got != "Edited while generating" {
			t.Fatalf("title = %q right after saving", got)
		}

		release()
		res := <-generation
		if res.err != nil {
			t.Fatalf("Failed to generate: %v", res.err)
		}
		if res.doc.Find("[data-testid=pending-plan]").Length() == 0 {
			t.Errorf("pending plan not shown: %v", noticeTexts(res.doc))
		}

		if doc, err = client.GetDoc(ctx, "/drafts/Monday"); err != nil {
			t.Fatalf("Failed to get draft: %v", err)
		}
		if got := inputValue(t, doc, "title"); got != "Edited while generating" {
			t.Errorf("title = %q, want the edit made during generation", got)
		}
		if got := inputValue(t, doc, "week_label"); got != "Week 3" {
			t.Errorf("week label = %q, want Week 3", got)
		}
	})

	t.Run("Superseded generation keeps the newer plan", func(t *testing.T) {
		started, release := fake.holdNextPlan()
		defer release()
		older := postInBackground(ctx, client, "/coach/generate", url.Values{
			"request":    {"arms"},
			"difficulty": {"beginner"},
		})
		waitStarted(t, started)

		fake.setPlan(`{"title": "Leg day", "exercises": [{"name": "Goblet Squat", "sets": [{"reps": 12}]}]}`)
		defer fake.setPlan(fakePlan)
		if doc, err = client.PostForm(ctx, "/coach/generate", url.Values{
			"request":    {"legs"},
			"difficulty": {"beginner"},
		}); err != nil {
			t.Fatalf("Failed to generate: %v", err)
		}
		if got := doc.Find("[data-testid=pending-plan] h2").Text(); !strings.Contains(got, "Leg day") {
			t.Fatalf("pending title = %q, want Leg day", got)
		}

		release()
		res := <-older
		if res.err != nil {
			t.Fatalf("Failed to finish the older generation: %v", res.err)
		}
		checkNotice(t, res.doc, "A newer request replaced this one.")

		if doc, err = client.GetDoc(ctx, "/coach"); err != nil {
			t.Fatalf("Failed to get coach: %v", err)
		}
		if got := doc.Find("[data-testid=pending-plan] h2").Text(); !strings.Contains(got, "Leg day") {
			t.Errorf("pending title = %q, want Leg day", got)
		}
	})
}

func Test_application_coachDisabled(t *testing.T) {
	ctx := t.Context()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/coach")
	if err != nil {
		t.Fatalf("Failed to get coach: %v", err)
	}
	if _, disabled := doc.Find("form[action='/coach/generate'] button[type=submit]").Attr("disabled"); !disabled {
		t.Error("expected the generate button to be disabled")
	}

	doc, err = client.PostForm(ctx, "/coach/generate", url.Values{"request": {"arms"}, "difficulty": {"beginner"}})
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	var notices int
	for _, text := range noticeTexts(doc) {
		if text == "The coach is not configured on this server." {
			notices++
		}
	}
	if notices != 2 {
		t.Errorf("expected the disabled banner and the failure notice, got %v", noticeTexts(doc))
	}
}
