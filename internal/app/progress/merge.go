package progress

import (
	"strings"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

// MergeGoals folds next into prior. Goals match on exact, case-sensitive
// text; a match keeps the higher progress and its derived status. Goals seen
// only in next are appended in their original order.
//
// Near-duplicate phrasings ("Sleep better" / "sleep better") stay separate.
func MergeGoals(prior, next []domain.Goal) []domain.Goal {
	out := make([]domain.Goal, 0, len(prior)+len(next))
	index := make(map[string]int, len(prior)+len(next))

	for _, g := range append(append([]domain.Goal{}, prior...), next...) {
		if strings.TrimSpace(g.Goal) == "" {
			continue
		}
		if i, ok := index[g.Goal]; ok {
			if g.Progress > out[i].Progress {
				out[i] = domain.NewGoal(g.Goal, g.Progress)
			}
			continue
		}
		index[g.Goal] = len(out)
		out = append(out, domain.NewGoal(g.Goal, g.Progress))
	}
	return out
}

// ConcatEmotions returns prior followed by next, oldest first.
func ConcatEmotions(prior, next []domain.EmotionPoint) []domain.EmotionPoint {
	out := make([]domain.EmotionPoint, 0, len(prior)+len(next))
	out = append(out, prior...)
	return append(out, next...)
}
