package workout

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultVolumeWindow is the number of workouts in the volume chart.
const DefaultVolumeWindow = 7

// ParseNumber converts free text to a number. Anything that is not a finite number counts as 0.
func ParseNumber(text string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// SetVolume is weight times reps.
func SetVolume(s Set) float64 {
	return ParseNumber(s.Weight) * ParseNumber(s.Reps)
}

// LogVolume sums the volume of every set in the log.
func LogVolume(log Log) float64 {
	var total float64
	for _, e := range log.Exercises {
		for _, s := range e.Sets {
			total += SetVolume(s)
		}
	}
	return total
}

// VolumePoint is one bar of the volume chart.
type VolumePoint struct {
	LogID     string
	Label     string
	Title     string
	Volume    float64
	CreatedAt time.Time
}

// VolumeSeries is the volume of the most recent workouts in chronological order.
type VolumeSeries struct {
	Points []VolumePoint
	Max    float64
}

// Percent scales v against the series maximum to 0-100. It is 0 for an all-zero series.
func (s VolumeSeries) Percent(v float64) float64 {
	if s.Max <= 0 {
		return 0
	}
	return v / s.Max * 100 //nolint:mnd // percent.
}

// NewVolumeSeries takes the n most recent logs from logs, which must be ordered newest first, and returns their
// volumes oldest first.
func NewVolumeSeries(logs []Log, n int) VolumeSeries {
	window := logs[:min(max(n, 0), len(logs))]
	series := VolumeSeries{Points: make([]VolumePoint, 0, len(window)), Max: 0}
	for i := len(window) - 1; i >= 0; i-- {
		log := window[i]
		volume := LogVolume(log)
		series.Points = append(series.Points, VolumePoint{
			LogID:     log.ID,
			Label:     log.CreatedAt.Format("1/2"),
			Title:     log.Title,
			Volume:    volume,
			CreatedAt: log.CreatedAt,
		})
		series.Max = max(series.Max, volume)
	}
	return series
}

// LifetimeVolume sums the volume of every log.
func LifetimeVolume(logs []Log) float64 {
	var total float64
	for _, log := range logs {
		total += LogVolume(log)
	}
	return total
}

// PersonalRecord returns the heaviest weight lifted in any exercise whose name contains keyword, or 0 when nothing
// matches. Matching ignores case. An empty keyword matches nothing.
func PersonalRecord(logs []Log, keyword string) float64 {
	return personalRecord(logs, []string{keyword})
}

func personalRecord(logs []Log, keywords []string) float64 {
	var best float64
	for _, log := range logs {
		for _, e := range log.Exercises {
			if !matchesAny(e.Name, keywords) {
				continue
			}
			for _, s := range e.Sets {
				best = max(best, ParseNumber(s.Weight))
			}
		}
	}
	return best
}

// matchesAny reports whether name contains one of keywords. Case is ignored on purpose so that "bench" finds
// "Bench Press".
func matchesAny(name string, keywords []string) bool {
	name = strings.ToLower(name)
	for _, k := range keywords {
		if k != "" && strings.Contains(name, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// RecordFacet is a family of movements tracked for personal records.
type RecordFacet struct {
	Key      string
	Label    string
	Keywords []string
}

// RecordFacets are the movement families shown on the stats page.
func RecordFacets() []RecordFacet {
	return []RecordFacet{
		{Key: "chest_press", Label: "Chest press", Keywords: []string{"臥推", "bench", "chest press", "floor press"}},
		{Key: "squat", Label: "Squat", Keywords: []string{"深蹲", "squat"}},
		{Key: "deadlift", Label: "Deadlift", Keywords: []string{"硬舉", "deadlift"}},
	}
}

// Record is the personal record of a facet. Weight 0 means there is no record.
type Record struct {
	Facet  RecordFacet
	Weight float64
}

// HasRecord reports whether any matching set has been logged with a weight.
func (r Record) HasRecord() bool {
	return r.Weight > 0
}

// PersonalRecords computes the record of every facet in RecordFacets.
func PersonalRecords(logs []Log) []Record {
	facets := RecordFacets()
	records := make([]Record, 0, len(facets))
	for _, f := range facets {
		records = append(records, Record{Facet: f, Weight: personalRecord(logs, f.Keywords)})
	}
	return records
}

// CountSince counts the logs created at or after since.
func CountSince(logs []Log, since time.Time) int {
	count := 0
	for _, log := range logs {
		if !log.CreatedAt.Before(since) {
			count++
		}
	}
	return count
}

// SortNewestFirst orders logs by creation time, newest first.
func SortNewestFirst(logs []Log) {
	slices.SortStableFunc(logs, func(a, b Log) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// Stats is the read model behind the stats page.
type Stats struct {
	TotalWorkouts  int
	Volume         VolumeSeries
	LifetimeVolume float64
	Records        []Record
}

// ComputeStats derives all analytics from logs ordered newest first.
func ComputeStats(logs []Log) Stats {
	return Stats{
		TotalWorkouts:  len(logs),
		Volume:         NewVolumeSeries(logs, DefaultVolumeWindow),
		LifetimeVolume: LifetimeVolume(logs),
		Records:        PersonalRecords(logs),
	}
}
