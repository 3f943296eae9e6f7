package workout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/homegym/internal/contexthelpers"
	"github.com/myrjola/homegym/internal/errors"
	"github.com/myrjola/homegym/internal/feed"
	"github.com/myrjola/homegym/internal/sqlite"
)

// Service manages the drafts, pending plan and committed workouts of the user bound to the context.
type Service struct {
	repo   *repository
	logger *slog.Logger
	feed   *feed.Hub[Log]
	now    func() time.Time
}

// NewService creates a new workout service.
func NewService(db *sqlite.Database, logger *slog.Logger) *Service {
	factory := newRepositoryFactory(db, logger)
	return &Service{
		repo:   factory.newRepository(),
		logger: logger,
		feed:   feed.NewHub[Log](),
		now:    time.Now,
	}
}

// ListLogs returns all logs newest first.
func (s *Service) ListLogs(ctx context.Context) ([]Log, error) {
	logs, err := s.repo.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}

// GetLog returns a single log.
func (s *Service) GetLog(ctx context.Context, id string) (Log, error) {
	log, err := s.repo.logs.Get(ctx, id)
	if err != nil {
		return Log{}, fmt.Errorf("get log %s: %w", id, err)
	}
	return log, nil
}

// Drafts returns the user's drafts.
func (s *Service) Drafts(ctx context.Context) (DraftStore, error) {
	store, err := s.repo.drafts.Get(ctx)
	if err != nil {
		return DraftStore{}, fmt.Errorf("get drafts: %w", err)
	}
	return store, nil
}

// UpdateDrafts applies updateFn to the current drafts and saves them when it reports a change. Concurrent updates of
// the same user are serialized so that none of them is lost.
func (s *Service) UpdateDrafts(ctx context.Context, updateFn func(store *DraftStore) (bool, error)) (DraftStore, error) {
	store, err := s.repo.drafts.Update(ctx, updateFn)
	if err != nil {
		return DraftStore{}, fmt.Errorf("update drafts: %w", err)
	}
	return store, nil
}

// CommitDraft snapshots the stored draft of day into a new persisted log. The draft is left as it is.
func (s *Service) CommitDraft(ctx context.Context, day Weekday) (Log, error) {
	store, err := s.Drafts(ctx)
	if err != nil {
		return Log{}, err
	}
	log, err := store.Commit(day, s.now())
	if err != nil {
		return Log{}, fmt.Errorf("commit draft: %w", err)
	}
	if err = s.repo.logs.Create(ctx, log); err != nil {
		return Log{}, fmt.Errorf("create log: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "workout committed",
		slog.String("log_id", log.ID), slog.String("weekday", string(log.Weekday)),
		slog.Int("exercises", len(log.Exercises)))
	s.publish(ctx)
	return log, nil
}

// DeleteLog removes a log.
func (s *Service) DeleteLog(ctx context.Context, id string) error {
	if err := s.repo.logs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete log %s: %w", id, err)
	}
	s.publish(ctx)
	return nil
}

// RepeatLog loads the log with id into the draft of the log's weekday and returns that weekday.
func (s *Service) RepeatLog(ctx context.Context, id string) (Weekday, error) {
	log, err := s.GetLog(ctx, id)
	if err != nil {
		return "", err
	}
	if _, err = s.UpdateDrafts(ctx, func(store *DraftStore) (bool, error) {
		next, loadErr := store.LoadLog(log)
		if loadErr != nil {
			return false, fmt.Errorf("load log into draft: %w", loadErr)
		}
		*store = next
		return true, nil
	}); err != nil {
		return "", err
	}
	return log.Weekday, nil
}

// PendingPlan returns the plan awaiting review, or ErrNotFound when there is none.
func (s *Service) PendingPlan(ctx context.Context) (PendingPlan, error) {
	p, err := s.repo.plans.Get(ctx)
	if err != nil {
		return PendingPlan{}, fmt.Errorf("get pending plan: %w", err)
	}
	return p, nil
}

// SetPendingPlan parks plan for review, replacing any earlier one.
func (s *Service) SetPendingPlan(ctx context.Context, plan Plan, difficulty string) error {
	p := PendingPlan{Plan: plan, Difficulty: difficulty, CreatedAt: s.now()}
	if err := s.repo.plans.Put(ctx, p); err != nil {
		return fmt.Errorf("put pending plan: %w", err)
	}
	return nil
}

// DiscardPendingPlan drops the plan awaiting review, if any.
func (s *Service) DiscardPendingPlan(ctx context.Context) error {
	if err := s.repo.plans.Delete(ctx); err != nil {
		return fmt.Errorf("discard pending plan: %w", err)
	}
	return nil
}

// ApplyPendingPlan merges the plan awaiting review into the draft of day and drops it. It returns ErrNotFound when
// there is no plan to apply.
func (s *Service) ApplyPendingPlan(ctx context.Context, day Weekday) (PendingPlan, error) {
	p, err := s.PendingPlan(ctx)
	if err != nil {
		return PendingPlan{}, err
	}
	if _, err = s.UpdateDrafts(ctx, func(store *DraftStore) (bool, error) {
		next, applyErr := store.ApplyPlan(day, p.Plan)
		if applyErr != nil {
			return false, fmt.Errorf("apply plan: %w", applyErr)
		}
		*store = next
		return true, nil
	}); err != nil {
		return PendingPlan{}, err
	}
	if err = s.DiscardPendingPlan(ctx); err != nil {
		return PendingPlan{}, err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "plan applied",
		slog.String("weekday", string(day)), slog.Int("exercises", len(p.Plan.Exercises)))
	return p, nil
}

// Stats computes the analytics over all logs.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	logs, err := s.ListLogs(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(logs), nil
}

// SubscribeLogs registers fn for snapshots of the user's logs and delivers the current snapshot right away.
// Call the returned function to unsubscribe.
func (s *Service) SubscribeLogs(ctx context.Context, fn func([]Log)) (func(), error) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	cancel := s.feed.Subscribe(userID, fn)
	if err := s.feed.Refresh(userID, func() ([]Log, error) { return s.ListLogs(ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}
	return cancel, nil
}

// publish pushes a fresh snapshot to subscribers. The write already succeeded so failures are only logged.
func (s *Service) publish(ctx context.Context) {
	userID := contexthelpers.AuthenticatedUserID(ctx)
	if err := s.feed.Refresh(userID, func() ([]Log, error) { return s.ListLogs(ctx) }); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "publish log snapshot", errors.SlogError(err))
	}
}
