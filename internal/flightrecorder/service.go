// Package flightrecorder keeps a rolling execution trace in memory and dumps it to disk when a request runs out of
// time, so slow coach generations and stuck database calls can be inspected with go tool trace.
package flightrecorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/myrjola/homegym/internal/errors"
)

const (
	defaultMinAge   = 5 * time.Minute
	defaultMaxBytes = 64 * 1024 * 1024
	defaultCooldown = 30 * time.Minute
)

// Config configures a Recorder. Zero durations and sizes fall back to defaults.
type Config struct {
	TracesDirectory string
	MinAge          time.Duration
	MaxBytes        uint64
	// Cooldown is the minimum time between two dumps.
	Cooldown time.Duration
	// Now is the clock used for the cooldown and file names. Defaults to time.Now.
	Now func() time.Time
}

// Recorder wraps a runtime/trace flight recorder.
type Recorder struct {
	logger    *slog.Logger
	recorder  *trace.FlightRecorder
	directory string
	cooldown  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	lastCapture time.Time
}

// New creates the traces directory if needed and prepares a Recorder. Call Start to begin recording.
func New(cfg Config, logger *slog.Logger) (*Recorder, error) {
	if cfg.TracesDirectory == "" {
		return nil, errors.New("traces directory is required")
	}
	if err := os.MkdirAll(cfg.TracesDirectory, 0o700); err != nil { //nolint:mnd // owner only
		return nil, errors.Wrap(err, "create traces directory", slog.String("directory", cfg.TracesDirectory))
	}
	if stat, err := os.Stat(cfg.TracesDirectory); err != nil {
		return nil, errors.Wrap(err, "stat traces directory")
	} else if !stat.IsDir() {
		return nil, errors.New("traces path is not a directory", slog.String("directory", cfg.TracesDirectory))
	}

	minAge := cfg.MinAge
	if minAge <= 0 {
		minAge = defaultMinAge
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxBytes
	}
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Recorder{
		logger:      logger,
		recorder:    trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: minAge, MaxBytes: maxBytes}),
		directory:   cfg.TracesDirectory,
		cooldown:    cooldown,
		now:         now,
		mu:          sync.Mutex{},
		lastCapture: time.Time{},
	}, nil
}

// Start begins recording.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.recorder.Start(); err != nil {
		return errors.Wrap(err, "start flight recorder")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("directory", r.directory), slog.Duration("cooldown", r.cooldown))
	return nil
}

// Stop ends recording. Capture is a no-op afterwards.
func (r *Recorder) Stop(ctx context.Context) {
	r.recorder.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the recorded window to a file named after reason. It returns the file path, or an empty string
// when the recorder is cooling down from an earlier capture or not running.
func (r *Recorder) Capture(ctx context.Context, reason string) string {
	if !r.recorder.Enabled() {
		return ""
	}

	r.mu.Lock()
	now := r.now()
	if !r.lastCapture.IsZero() && now.Sub(r.lastCapture) < r.cooldown {
		r.mu.Unlock()
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skip trace capture during cooldown",
			slog.String("reason", reason), slog.Time("last_capture", r.lastCapture))
		return ""
	}
	r.lastCapture = now
	r.mu.Unlock()

	name := fmt.Sprintf("%s-%s.trace", slug(reason), now.UTC().Format("20060102-150405"))
	path := filepath.Join(r.directory, name)
	written, err := r.writeFile(path)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "capture trace", errors.SlogError(err))
		return ""
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace",
		slog.String("reason", reason), slog.String("file", path), slog.Int64("bytes", written))
	return path
}

func (r *Recorder) writeFile(path string) (_ int64, err error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "create trace file", slog.String("file", path))
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, errors.Wrap(closeErr, "close trace file", slog.String("file", path)))
		}
	}()
	written, err := r.recorder.WriteTo(file)
	if err != nil {
		return written, errors.Wrap(err, "write trace", slog.String("file", path))
	}
	return written, nil
}

// slug turns a reason such as "timeout /coach/generate" into a safe file name prefix.
func slug(reason string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(reason) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "trace"
	}
	return s
}
