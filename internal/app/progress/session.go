package progress

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/PabloGalante/farum-progress/internal/domain"
	"github.com/PabloGalante/farum-progress/internal/observability"
)

// trendSegments is how many contiguous chunks a session is split into when
// computing the engagement trend.
const trendSegments = 3

// EndSession closes a session: it analyses messages, merges goals and the
// emotion timeline with the most recent stored record, replaces engagement
// with the per-segment trend, appends a holistic analysis to the summary and
// stores the result.
func (t *Tracker) EndSession(ctx context.Context, messages []domain.Message) (*domain.ProgressRecord, error) {
	log := observability.LoggerFromContext(ctx).With("message_count", len(messages))

	if len(messages) == 0 {
		log.Error("cannot end session without messages")
		return nil, fmt.Errorf("%w: %w", ErrProgressTracking, ErrNoMessages)
	}
	log.Info("ending session")

	prior, hasPrior := t.history.Latest(ctx)

	rec := t.analyze(ctx, log, messages)

	if hasPrior {
		if len(prior.Goals) > 0 {
			rec.Goals = MergeGoals(prior.Goals, rec.Goals)
		}
		rec.EmotionalJourney.Emotions = ConcatEmotions(prior.EmotionalJourney.Emotions, rec.EmotionalJourney.Emotions)
		log.Debug("merged with previous record", "previous_id", prior.ID)
	}

	rec.EmotionalJourney.EngagementLevel = t.EngagementTrend(ctx, messages)

	analysis, err := t.analyzer.AnalyzeSession(ctx, messages)
	if err != nil {
		log.Warn("session analysis failed, summary left as is", "error", err)
	} else if !analysis.Empty() {
		rec.SessionSummary = appendAnalysis(rec.SessionSummary, analysis)
	}

	if err := domain.ValidateRecord(rec); err != nil {
		log.Error("session record failed validation", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrProgressTracking, err)
	}

	if err := t.history.Append(ctx, *rec); err != nil {
		log.Error("failed to persist session record", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrProgressTracking, err)
	}

	log.Info("session ended", "record_id", rec.ID, "goals", len(rec.Goals))
	return rec, nil
}

// EngagementTrend scores each of three contiguous chunks of the session on
// its own and averages every dimension, rounded to the nearest integer.
// A chunk whose scoring fails counts as all zeros.
func (t *Tracker) EngagementTrend(ctx context.Context, messages []domain.Message) []int {
	log := observability.LoggerFromContext(ctx)

	segments := splitSegments(messages, trendSegments)
	if len(segments) == 0 {
		return domain.ZeroEngagement()
	}

	sums := make([]int, domain.EngagementSize)
	for i, seg := range segments {
		scores, err := t.analyzer.ScoreEngagement(ctx, seg)
		if err != nil {
			log.Warn("segment engagement failed, counting as zero", "segment", i, "error", err)
		}
		for d := range sums {
			if d < len(scores) {
				sums[d] += scores[d]
			}
		}
	}

	out := make([]int, domain.EngagementSize)
	for d, sum := range sums {
		out[d] = int(math.Round(float64(sum) / float64(len(segments))))
	}
	return out
}

// splitSegments cuts messages into contiguous chunks of ceil(len/n) messages.
// Short inputs yield fewer than n chunks.
func splitSegments(messages []domain.Message, n int) [][]domain.Message {
	if len(messages) == 0 || n <= 0 {
		return nil
	}
	size := (len(messages) + n - 1) / n

	var out [][]domain.Message
	for start := 0; start < len(messages); start += size {
		end := min(start+size, len(messages))
		out = append(out, messages[start:end])
	}
	return out
}

func appendAnalysis(summary string, a domain.SessionAnalysis) string {
	var b strings.Builder
	if s := strings.TrimSpace(summary); s != "" {
		b.WriteString(s)
		b.WriteString("\n\n")
	}
	b.WriteString("Session Analysis:")
	if a.EmotionalState != "" {
		b.WriteString("\nEmotional State: ")
		b.WriteString(a.EmotionalState)
	}
	if len(a.KeyTopics) > 0 {
		b.WriteString("\nKey Topics: ")
		b.WriteString(strings.Join(a.KeyTopics, ", "))
	}
	if len(a.Insights) > 0 {
		b.WriteString("\nInsights: ")
		b.WriteString(strings.Join(a.Insights, "; "))
	}
	return b.String()
}
