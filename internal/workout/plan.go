package workout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/myrjola/homegym/internal/errors"
)

// ErrMalformedPlan is returned when generated text does not contain the expected JSON shape.
var ErrMalformedPlan = errors.NewSentinel("malformed plan")

// Plan is the structured training plan produced by the coach before it is applied to a draft.
type Plan struct {
	Title     string         `json:"title"`
	Exercises []PlanExercise `json:"exercises"`
}

// PlanExercise is a named movement of a Plan. Its sets may be empty.
type PlanExercise struct {
	Name string    `json:"name"`
	Sets []PlanSet `json:"sets"`
}

// PlanSet accepts reps and weight as JSON strings or numbers. Missing values become empty strings.
type PlanSet struct {
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
}

// UnmarshalJSON decodes reps and weight from strings, numbers or null.
func (s *PlanSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		Reps   json.RawMessage `json:"reps"`
		Weight json.RawMessage `json:"weight"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal set: %w", err)
	}
	var err error
	if s.Reps, err = scalarText(raw.Reps); err != nil {
		return fmt.Errorf("reps: %w", err)
	}
	if s.Weight, err = scalarText(raw.Weight); err != nil {
		return fmt.Errorf("weight: %w", err)
	}
	return nil
}

// scalarText renders a JSON string, number or null as text.
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("unmarshal string: %w", err)
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return n.String(), nil
}

var (
	// jsonFence matches a code fence tagged json anywhere in the text.
	jsonFence = regexp.MustCompile("(?s)```(?i:json)\\b[ \\t]*(.*?)```")
	// fencedBlock matches any markdown code fence. An info string is skipped when it is followed by a newline.
	fencedBlock = regexp.MustCompile("(?s)```(?:[A-Za-z0-9_+-]*[ \\t]*\\r?\\n)?(.*?)```")
)

// ExtractJSON finds the JSON payload in generated text.
//
// In priority order it returns the interior of the first code fence tagged json, the interior of the first fence of
// any kind, the substring from the first '{' to the last '}', or the trimmed text as is.
func ExtractJSON(text string) string {
	for _, fence := range []*regexp.Regexp{jsonFence, fencedBlock} {
		if m := fence.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first >= 0 && last > first {
		return text[first : last+1]
	}
	return strings.TrimSpace(text)
}

// DecodeEmbeddedJSON extracts the JSON object from generated text with ExtractJSON and decodes it into v.
// Any failure wraps ErrMalformedPlan.
func DecodeEmbeddedJSON(text string, v any) error {
	payload := ExtractJSON(text)
	if !strings.HasPrefix(payload, "{") {
		return fmt.Errorf("%w: no JSON object found", ErrMalformedPlan)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPlan, err)
	}
	return nil
}

// NormalizePlan parses generated text into a Plan. A plan without exercises is malformed and missing set lists
// default to empty.
func NormalizePlan(text string) (Plan, error) {
	var plan Plan
	if err := DecodeEmbeddedJSON(text, &plan); err != nil {
		return Plan{}, err
	}
	if len(plan.Exercises) == 0 {
		return Plan{}, fmt.Errorf("%w: plan has no exercises", ErrMalformedPlan)
	}
	plan.Title = strings.TrimSpace(plan.Title)
	for i := range plan.Exercises {
		plan.Exercises[i].Name = strings.TrimSpace(plan.Exercises[i].Name)
		if plan.Exercises[i].Sets == nil {
			plan.Exercises[i].Sets = []PlanSet{}
		}
	}
	return plan, nil
}
