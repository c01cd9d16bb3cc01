package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRecord = errors.New("invalid progress record")

// ValidateRecord checks that every required field of r is present with the
// right container shape, and that goals respect the progress/status mapping.
func ValidateRecord(r *ProgressRecord) error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	}

	var problems []string
	if r.Timestamp.IsZero() {
		problems = append(problems, "missing timestamp")
	}
	if r.Goals == nil {
		problems = append(problems, "goals is not a list")
	}
	for i, g := range r.Goals {
		if strings.TrimSpace(g.Goal) == "" {
			problems = append(problems, fmt.Sprintf("goal %d has empty text", i))
		}
		if g.Progress != ClampProgress(g.Progress) {
			problems = append(problems, fmt.Sprintf("goal %d progress %d out of range", i, g.Progress))
		}
		if g.Status != StatusForProgress(g.Progress) {
			problems = append(problems, fmt.Sprintf("goal %d status %q does not match progress %d", i, g.Status, g.Progress))
		}
	}

	imp := r.Improvements
	if imp.Strengths == nil || imp.Challenges == nil || imp.Recommendations == nil {
		problems = append(problems, "improvements lists missing")
	}

	ej := r.EmotionalJourney
	if ej.Emotions == nil {
		problems = append(problems, "emotions is not a list")
	}
	if ej.DominantEmotions == nil {
		problems = append(problems, "dominantEmotions is not a list")
	}
	if len(ej.EngagementLevel) != EngagementSize {
		problems = append(problems, fmt.Sprintf("engagementLevel has %d values, want %d", len(ej.EngagementLevel), EngagementSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(problems, "; "))
	}
	return nil
}
