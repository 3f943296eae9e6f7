package health

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/feed"
	"github.com/myrjola/homegym/internal/sqlite"
)

// Service manages the sun logs, nutrition entries and profile of the user bound to the context.
type Service struct {
	repo          *repository
	logger        *slog.Logger
	sunFeed       *feed.Hub[SunLog]
	nutritionFeed *feed.Hub[NutritionEntry]
	now           func() time.Time
}

// NewService creates a new health service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	return &Service{
		repo:          newRepositoryFactory(db, logger).newRepository(),
		logger:        logger,
		sunFeed:       feed.NewHub[SunLog](),
		nutritionFeed: feed.NewHub[NutritionEntry](),
		now:           time.Now,
	}
}

// ListSunLogs returns all sun logs newest first.
func (s *Service) ListSunLogs(ctx context.Context) ([]SunLog, error) {
	logs, err := s.repo.sun.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sun logs: %w", err)
	}
	return logs, nil
}

// LogSun records a sun exposure happening now.
func (s *Service) LogSun(ctx context.Context) (SunLog, error) {
	return s.createSunLog(ctx, s.now())
}

// LogSunOn records a sun exposure at noon of the calendar day date in the server's location.
func (s *Service) LogSunOn(ctx context.Context, date string) (SunLog, error) {
	at, err := SunExposureAt(date, s.now().Location())
	if err != nil {
		return SunLog{}, err
	}
	return s.createSunLog(ctx, at)
}

func (s *Service) createSunLog(ctx context.Context, at time.Time) (SunLog, error) {
	log := SunLog{ID: uuid.NewString(), CreatedAt: at}
	if err := s.repo.sun.Create(ctx, log); err != nil {
		return SunLog{}, fmt.Errorf("create sun log: %w", err)
	}
	s.publishSun(ctx)
	return log, nil
}

// DeleteSunLog removes a sun log.
func (s *Service) DeleteSunLog(ctx context.Context, id string) error {
	if err := s.repo.sun.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sun log %s: %w", id, err)
	}
	s.publishSun(ctx)
	return nil
}

// SubscribeSunLogs registers fn for snapshots of the user's sun logs and delivers the current snapshot right away.
func (s *Service) SubscribeSunLogs(ctx context.Context, fn func([]SunLog)) (func(), error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	cancel := s.sunFeed.Subscribe(userID, fn)
	if err := s.sunFeed.Refresh(userID, func() ([]SunLog, error) { return s.ListSunLogs(ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("initial sun snapshot: %w", err)
	}
	return cancel, nil
}

func (s *Service) publishSun(ctx context.Context) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	if err := s.sunFeed.Refresh(userID, func() ([]SunLog, error) { return s.ListSunLogs(ctx) }); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "publish sun snapshot", errors.SlogError(err))
	}
}

// ListNutrition returns every nutrition entry, latest day first.
func (s *Service) ListNutrition(ctx context.Context) ([]NutritionEntry, error) {
	entries, err := s.repo.nutrition.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nutrition entries: %w", err)
	}
	return entries, nil
}

// AddNutrition stores a food entry. The date defaults to today and the name to DefaultFoodName. An entry needs
// protein or calories.
func (s *Service) AddNutrition(ctx context.Context, in NutritionInput) (NutritionEntry, error) {
	now := s.now()
	entry := NutritionEntry{
		ID:           uuid.NewString(),
		Date:         strings.TrimSpace(in.Date),
		Name:         strings.TrimSpace(in.Name),
		ProteinGrams: in.ProteinGrams,
		Calories:     in.Calories,
		CreatedAt:    now,
	}
	if entry.Date == "" {
		entry.Date = FormatDate(now)
	}
	if _, err := ParseDate(entry.Date, now.Location()); err != nil {
		return NutritionEntry{}, err
	}
	if entry.Name == "" {
		entry.Name = DefaultFoodName
	}
	if !isFinite(entry.ProteinGrams) || !isFinite(entry.Calories) {
		return NutritionEntry{}, fmt.Errorf("%w: macros must be finite numbers", ErrInvalidInput)
	}
	if entry.ProteinGrams < 0 || entry.Calories < 0 {
		return NutritionEntry{}, fmt.Errorf("%w: negative macros", ErrInvalidInput)
	}
	if entry.ProteinGrams == 0 && entry.Calories == 0 {
		return NutritionEntry{}, fmt.Errorf("%w: entry needs protein or calories", ErrInvalidInput)
	}
	if err := s.repo.nutrition.Create(ctx, entry); err != nil {
		return NutritionEntry{}, fmt.Errorf("create nutrition entry: %w", err)
	}
	s.publishNutrition(ctx)
	return entry, nil
}

// DeleteNutrition removes a nutrition entry.
func (s *Service) DeleteNutrition(ctx context.Context, id string) error {
	if err := s.repo.nutrition.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete nutrition entry %s: %w", id, err)
	}
	s.publishNutrition(ctx)
	return nil
}

// SubscribeNutrition registers fn for snapshots of the user's nutrition entries and delivers the current snapshot
// right away.
func (s *Service) SubscribeNutrition(ctx context.Context, fn func([]NutritionEntry)) (func(), error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	cancel := s.nutritionFeed.Subscribe(userID, fn)
	if err := s.nutritionFeed.Refresh(userID, func() ([]NutritionEntry, error) {
		return s.ListNutrition(ctx)
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("initial nutrition snapshot: %w", err)
	}
	return cancel, nil
}

func (s *Service) publishNutrition(ctx context.Context) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	if err := s.nutritionFeed.Refresh(userID, func() ([]NutritionEntry, error) {
		return s.ListNutrition(ctx)
	}); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "publish nutrition snapshot", errors.SlogError(err))
	}
}

// Profile returns the saved profile or DefaultProfile if the user has not saved one.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	p, err := s.repo.profile.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return DefaultProfile(), nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// SaveProfile validates p, recomputes its derived targets and overwrites the stored profile.
func (s *Service) SaveProfile(ctx context.Context, p Profile) (Profile, error) {
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	p = p.Recompute()
	p.UpdatedAt = s.now()
	if err := s.repo.profile.Put(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("put profile: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "profile saved",
		slog.Bool("has_tdee", p.TDEE != nil), slog.Bool("has_protein_target", p.ProteinTargetG != nil))
	return p, nil
}
