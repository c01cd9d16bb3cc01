package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/PabloGalante/farum-progress/internal/app/history"
	"github.com/PabloGalante/farum-progress/internal/domain"
	"github.com/PabloGalante/farum-progress/internal/observability"
)

var (
	ErrNoMessages = errors.New("no messages to analyze")

	// ErrProgressTracking wraps every failure surfaced by Tracker.
	ErrProgressTracking = errors.New("progress tracking failed")
)

// Tracker builds progress records from session transcripts and keeps the
// history up to date.
type Tracker struct {
	analyzer *Analyzer
	history  *history.Store
	now      func() time.Time
	newID    func() domain.RecordID
}

type Option func(*Tracker)

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithIDGenerator overrides how record ids are generated.
func WithIDGenerator(gen func() domain.RecordID) Option {
	return func(t *Tracker) {
		t.newID = gen
	}
}

func NewTracker(llm domain.LLMClient, store *history.Store, opts ...Option) *Tracker {
	t := &Tracker{
		analyzer: NewAnalyzer(llm),
		history:  store,
		now:      time.Now,
		newID: func() domain.RecordID {
			return domain.RecordID(uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Analyzer exposes the single-prompt operations.
func (t *Tracker) Analyzer() *Analyzer {
	return t.analyzer
}

// History exposes the underlying history store.
func (t *Tracker) History() *history.Store {
	return t.history
}

// TrackProgressWithEmotions analyses messages and appends the resulting record
// to the history. A record that fails validation is returned but not stored.
func (t *Tracker) TrackProgressWithEmotions(ctx context.Context, messages []domain.Message) (*domain.ProgressRecord, error) {
	log := observability.LoggerFromContext(ctx).With("message_count", len(messages))

	if len(messages) == 0 {
		log.Error("cannot track progress without messages")
		return nil, fmt.Errorf("%w: %w", ErrProgressTracking, ErrNoMessages)
	}

	rec := t.analyze(ctx, log, messages)

	if err := domain.ValidateRecord(rec); err != nil {
		log.Warn("progress record failed validation, not persisted", "error", err)
		return rec, nil
	}

	if err := t.history.Append(ctx, *rec); err != nil {
		log.Error("failed to persist progress record", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrProgressTracking, err)
	}

	log.Info("progress tracked", "record_id", rec.ID, "goals", len(rec.Goals))
	return rec, nil
}

// analyze runs the five analyses concurrently and assembles a fresh record.
// Failed analyses contribute their defaults.
func (t *Tracker) analyze(ctx context.Context, log *slog.Logger, messages []domain.Message) *domain.ProgressRecord {
	var (
		emotions     domain.EmotionAnalysis
		engagement   []int
		summary      string
		goals        []domain.GoalDetail
		improvements domain.Improvements
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		emotions, err = t.analyzer.AnalyzeEmotions(gctx, messages)
		logFallback(log, "emotions", err)
		return nil
	})
	g.Go(func() error {
		var err error
		engagement, err = t.analyzer.ScoreEngagement(gctx, messages)
		logFallback(log, "engagement", err)
		return nil
	})
	g.Go(func() error {
		var err error
		summary, err = t.analyzer.GenerateSummary(gctx, messages)
		logFallback(log, "summary", err)
		return nil
	})
	g.Go(func() error {
		var err error
		goals, err = t.analyzer.ExtractGoals(gctx, messages)
		logFallback(log, "goals", err)
		return nil
	})
	g.Go(func() error {
		var err error
		improvements, err = t.analyzer.ExtractImprovements(gctx, messages)
		logFallback(log, "improvements", err)
		return nil
	})

	// analyses never return errors; failures were replaced by defaults
	_ = g.Wait()

	tracked := make([]domain.Goal, 0, len(goals))
	for _, d := range goals {
		tracked = append(tracked, d.Goal())
	}

	return &domain.ProgressRecord{
		ID:             t.newID(),
		SessionSummary: summary,
		Goals:          tracked,
		Improvements:   improvements,
		Timestamp:      t.now().UTC(),
		EmotionalJourney: domain.EmotionalJourney{
			Emotions:         emotions.Emotions,
			DominantEmotions: emotions.DominantEmotions,
			EngagementLevel:  engagement,
		},
	}
}

func logFallback(log *slog.Logger, analysis string, err error) {
	if err == nil {
		return
	}
	log.Warn("analysis failed, using default", "analysis", analysis, "error", err)
}
