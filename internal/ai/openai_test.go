package ai_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/homegym/internal/ai"
	"github.com/myrjola/homegym/internal/testhelpers"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
	return string(body)
}

func newClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *ai.OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return ai.NewOpenAIClient(ai.Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/",
		Model:   "test-model",
		Timeout: timeout,
	}, testhelpers.NewTestLogger(t))
}

func TestOpenAIClient_Complete(t *testing.T) {
	t.Parallel()
	requests := make(chan chatRequest, 1)
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		requests <- req
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, completionBody("  {\"title\": \"Core\"}\n"))
	}, 0)

	text, err := client.Complete(t.Context(), ai.Request{System: "be brief", User: "plan legs", JSON: true})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if text != `{"title": "Core"}` {
		t.Errorf("Complete() = %q", text)
	}

	got := <-requests
	if got.Model != "test-model" {
		t.Errorf("model = %q", got.Model)
	}
	var roles []string
	for _, m := range got.Messages {
		roles = append(roles, m.Role+":"+m.Content)
	}
	if diff := cmp.Diff([]string{"system:be brief", "user:plan legs"}, roles); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", got.ResponseFormat)
	}
}

func TestOpenAIClient_CompleteFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind ai.Kind
	}{
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     `{"error": {"message": "slow down", "type": "requests", "code": "rate_limit_exceeded"}}`,
			wantKind: ai.KindRateLimit,
		},
		{
			name:     "bad key",
			status:   http.StatusUnauthorized,
			body:     `{"error": {"message": "Incorrect API key", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			wantKind: ai.KindAuth,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error": {"message": "boom", "type": "server_error", "code": null}}`,
			wantKind: ai.KindServer,
		},
		{
			name:     "empty content",
			status:   http.StatusOK,
			body:     completionBody("   "),
			wantKind: ai.KindEmpty,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = fmt.Fprint(w, tt.body)
			}, 0)

			_, err := client.Complete(t.Context(), ai.Request{System: "", User: "hello", JSON: false})
			if !errors.Is(err, ai.ErrGenerationFailed) {
				t.Fatalf("Complete() error = %v, want %v", err, ai.ErrGenerationFailed)
			}
			if kind := ai.KindOf(err); kind != tt.wantKind {
				t.Errorf("KindOf() = %q, want %q", kind, tt.wantKind)
			}
			if n := calls.Load(); n != 1 {
				t.Errorf("server called %d times, want exactly once", n)
			}
		})
	}
}

func TestOpenAIClient_CompleteTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = fmt.Fprint(w, completionBody("late"))
	}, 50*time.Millisecond)
	defer close(release)

	_, err := client.Complete(t.Context(), ai.Request{System: "", User: "hello", JSON: false})
	if kind := ai.KindOf(err); kind != ai.KindTimeout {
		t.Errorf("KindOf() = %q, want %q (err = %v)", kind, ai.KindTimeout, err)
	}
}

func TestDisabled(t *testing.T) {
	_, err := ai.Disabled{}.Complete(t.Context(), ai.Request{System: "", User: "hello", JSON: false})
	if !errors.Is(err, ai.ErrGenerationFailed) || ai.KindOf(err) != ai.KindDisabled {
		t.Errorf("Complete() error = %v", err)
	}
}
