package coach

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Routine is a curated plan request that fills the free-text prompt.
type Routine struct {
	Day         string `yaml:"day"`
	Title       string `yaml:"title"`
	Icon        string `yaml:"icon"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`
}

//go:embed routines.yaml
var routinesYAML []byte

var loadRoutines = sync.OnceValues(func() (map[Difficulty][]Routine, error) {
	return parseRoutines(routinesYAML)
})

func parseRoutines(data []byte) (map[Difficulty][]Routine, error) {
	var raw map[string][]Routine
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal routines: %w", err)
	}
	routines := make(map[Difficulty][]Routine, len(raw))
	for key, list := range raw {
		d, ok := ParseDifficulty(key)
		if !ok {
			return nil, fmt.Errorf("unknown difficulty %q in routines", key)
		}
		for i, r := range list {
			if r.Title == "" || r.Prompt == "" {
				return nil, fmt.Errorf("routine %d of %s needs a title and a prompt", i, d)
			}
		}
		routines[d] = list
	}
	return routines, nil
}

// Routines returns the curated routines of difficulty d.
func Routines(d Difficulty) ([]Routine, error) {
	all, err := loadRoutines()
	if err != nil {
		return nil, err
	}
	return all[d], nil
}

// FindRoutine looks up a routine by difficulty and position.
func FindRoutine(d Difficulty, index int) (Routine, bool) {
	routines, err := Routines(d)
	if err != nil || index < 0 || index >= len(routines) {
		return Routine{}, false
	}
	return routines[index], true
}
