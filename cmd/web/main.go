package main

import (
	"context"
	"encoding/gob"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/myrjola/homegym/internal/account"
	"github.com/myrjola/homegym/internal/ai"
	"github.com/myrjola/homegym/internal/coach"
	"github.com/myrjola/homegym/internal/envstruct"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/flightrecorder"
	"github.com/myrjola/homegym/internal/health"
	"github.com/myrjola/homegym/internal/logging"
	"github.com/myrjola/homegym/internal/metrics"
	"github.com/myrjola/homegym/internal/sqlite"
	"github.com/myrjola/homegym/internal/workout"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yuin/goldmark"
)

type application struct {
	logger         *slog.Logger
	authenticator  *account.Authenticator
	sessionManager *scs.SessionManager
	templateFS     fs.FS
	markdown       goldmark.Markdown
	workoutService *workout.Service
	healthService  *health.Service
	coachService   *coach.Service
	coachEnabled   bool
	metrics        *metrics.Manager
	registry       *prometheus.Registry
	metricsEnabled bool
	aiTimeout      time.Duration
	flightRecorder *flightrecorder.Recorder
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"HOMEGYM_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"HOMEGYM_SQLITE_URL" envDefault:"./homegym.sqlite3"`
	// TemplatePath is the path to the directory containing the HTML templates.
	TemplatePath string `env:"HOMEGYM_TEMPLATE_PATH" envDefault:""`
	// OpenAIAPIKey enables the coach. Without it every generation fails with a "disabled" notice.
	OpenAIAPIKey string `env:"HOMEGYM_OPENAI_API_KEY" envFallback:"OPENAI_API_KEY" envDefault:""`
	// OpenAIBaseURL overrides the API endpoint, for example with a compatible gateway or a test server.
	OpenAIBaseURL string `env:"HOMEGYM_OPENAI_BASE_URL" envDefault:""`
	OpenAIModel   string `env:"HOMEGYM_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	// AITimeout bounds a single generation.
	AITimeout time.Duration `env:"HOMEGYM_AI_TIMEOUT" envDefault:"25s"`
	// SessionLifetime is how long an idle browser keeps its anonymous user.
	SessionLifetime time.Duration `env:"HOMEGYM_SESSION_LIFETIME" envDefault:"8760h"`
	MetricsEnabled  bool          `env:"HOMEGYM_METRICS_ENABLED" envDefault:"true"`
	// OptimizeInterval is how often the database runs PRAGMA optimize. Zero disables it.
	OptimizeInterval time.Duration `env:"HOMEGYM_OPTIMIZE_INTERVAL" envDefault:"24h"`
	// TracesDirectory receives an execution trace when a request times out. Empty disables the flight recorder.
	TracesDirectory string `env:"HOMEGYM_TRACES_DIRECTORY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var htmlTemplatePath string
	if htmlTemplatePath, err = resolveAndVerifyTemplatePath(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve template path")
	}

	db, err := sqlite.NewDatabase(ctx, sqlite.Config{URL: cfg.SqliteURL, OptimizeInterval: cfg.OptimizeInterval}, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	registerSessionTypes()
	sessionManager := initializeSessionManager(db, cfg.SessionLifetime)

	registry := metrics.NewRegistry()
	metricsManager := metrics.NewManager(registry)

	var aiClient ai.Client = ai.Disabled{}
	coachEnabled := cfg.OpenAIAPIKey != ""
	if coachEnabled {
		aiClient = ai.NewOpenAIClient(ai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.AITimeout,
		}, logger)
	} else {
		logger.LogAttrs(ctx, slog.LevelWarn, "no OpenAI API key configured, the coach is disabled")
	}

	app := application{
		logger:         logger,
		authenticator:  account.New(db, sessionManager, logger),
		sessionManager: sessionManager,
		templateFS:     os.DirFS(htmlTemplatePath),
		markdown:       goldmark.New(),
		workoutService: workout.NewService(db, logger),
		healthService:  health.NewService(db, logger),
		coachService:   coach.NewService(aiClient, metricsManager, logger),
		coachEnabled:   coachEnabled,
		metrics:        metricsManager,
		registry:       registry,
		metricsEnabled: cfg.MetricsEnabled,
		aiTimeout:      cfg.AITimeout,
	}

	if cfg.TracesDirectory != "" {
		if app.flightRecorder, err = flightrecorder.New(flightrecorder.Config{
			TracesDirectory: cfg.TracesDirectory,
			MinAge:          0,
			MaxBytes:        0,
			Cooldown:        0,
			Now:             nil,
		}, logger); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = app.flightRecorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer app.flightRecorder.Stop(ctx)
	}

	var handler http.Handler
	if handler, err = app.routes(); err != nil {
		return errors.Wrap(err, "setup routes")
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, handler); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

// registerSessionTypes registers the types stored in the session for gob encoding.
// See https://github.com/alexedwards/scs?tab=readme-ov-file#working-with-session-data.
func registerSessionTypes() {
	gob.Register([]notice{})
}

func initializeSessionManager(dbs *sqlite.Database, lifetime time.Duration) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = lifetime
	sessionManager.IdleTimeout = lifetime
	sessionManager.Cookie.Name = "homegym_session"
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
