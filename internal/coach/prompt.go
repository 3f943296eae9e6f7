package coach

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/myrjola/homegym/internal/ai"
)

// Difficulty conditions the rep and set guidance of generated plans.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Difficulties lists the difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{Beginner, Intermediate, Advanced}
}

// ParseDifficulty returns the difficulty named s and false for unknown names.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties() {
		if string(d) == strings.ToLower(strings.TrimSpace(s)) {
			return d, true
		}
	}
	return "", false
}

// WeightIncrements are the discrete kilogram settings of the adjustable dumbbells.
func WeightIncrements() []float64 {
	return []float64{4.5, 5.6, 6.8, 9, 10.2, 11.3, 13.6, 14.7, 15.8, 18.1, 19.2, 20.4, 22.6, 23.8, 25}
}

func repGuidance(d Difficulty) string {
	switch d {
	case Intermediate:
		return "8-12 reps per set with a hypertrophy focus"
	case Advanced:
		return "5x5 strength work or drop sets, high intensity"
	case Beginner:
		return "12-15 reps per set with a focus on form and mind-muscle connection"
	}
	return ""
}

func weightLoad(d Difficulty) string {
	switch d {
	case Intermediate:
		return "moderate"
	case Advanced:
		return "heavy"
	case Beginner:
		return "light"
	}
	return ""
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const planSchema = `{
  "title": "workout title",
  "exercises": [
    {
      "name": "exercise name",
      "sets": [
        {"reps": "suggested reps", "weight": "suggested weight from the list above, may be empty"},
        {"reps": "suggested reps", "weight": ""},
        {"reps": "suggested reps", "weight": ""}
      ]
    }
  ]
}`

// PlanRequest is a natural-language request for a training plan.
type PlanRequest struct {
	FreeText   string
	Difficulty Difficulty
	// BodyWeightKg is optional context for choosing starting weights.
	BodyWeightKg *float64
}

// BuildPlanPrompt renders the system instruction and user message of a plan request.
func BuildPlanPrompt(req PlanRequest) ai.Request {
	increments := make([]string, 0, len(WeightIncrements()))
	for _, w := range WeightIncrements() {
		increments = append(increments, formatKg(w))
	}

	var b strings.Builder
	b.WriteString("You are a strength coach specialising in chest and arm training.\n")
	fmt.Fprintf(&b, "The user's training level is %s.\n\n", req.Difficulty)
	b.WriteString("Equipment constraints:\n")
	b.WriteString("1. The user owns one pair of adjustable dumbbells and nothing else.\n")
	b.WriteString("2. The user has NO workout bench.\n")
	fmt.Fprintf(&b, "3. The dumbbells can only be set to these weights in kg: [%s].\n\n", strings.Join(increments, ", "))
	b.WriteString("Exercise rules:\n")
	b.WriteString("1. Only program chest or arm exercises.\n")
	b.WriteString("2. Without a bench every lying movement must be done on the floor, or standing or seated " +
		"without back support. Recommended: floor press, glute-bridge floor press, kneeling push-up, " +
		"standing or seated curls, standing or seated triceps extensions. Forbidden: incline or flat " +
		"bench presses and anything else that needs a bench.\n")
	fmt.Fprintf(&b, "3. Sets and reps for this level: %s. Usually 3-4 sets per exercise.\n", repGuidance(req.Difficulty))
	if req.BodyWeightKg != nil {
		fmt.Fprintf(&b, "4. Use the user's body weight to pick %s starting weights, always from the list above.\n",
			weightLoad(req.Difficulty))
	}
	b.WriteString("\nRespond with a single JSON object only, no markdown and no other text, shaped exactly like:\n")
	b.WriteString(planSchema)

	user := fmt.Sprintf("User request: %s.", strings.TrimSpace(req.FreeText))
	if req.BodyWeightKg != nil {
		user += fmt.Sprintf(" Body weight: %s kg.", formatKg(*req.BodyWeightKg))
	}
	return ai.Request{System: b.String(), User: user, JSON: true}
}

// buildNutritionPrompt asks for the macros of grams of food.
func buildNutritionPrompt(food string, grams float64) ai.Request {
	return ai.Request{
		System: "",
		User: fmt.Sprintf("Estimate the nutrition of %s g of %q. Respond with pure JSON only, no markdown or "+
			`other text, shaped as {"protein": number in grams, "calories": number in kcal}.`, formatKg(grams), food),
		JSON: true,
	}
}

// buildGuidePrompt asks for short form guidance on an exercise in language.
func buildGuidePrompt(exercise, language string) ai.Request {
	return ai.Request{
		System: "",
		User: fmt.Sprintf("Briefly explain how to perform the exercise %q correctly: the steps, breathing and "+
			"common mistakes. Answer in %s as a markdown bullet list of under 200 words.", exercise, language),
		JSON: false,
	}
}
