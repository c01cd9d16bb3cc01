package parse

import (
	"strings"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

// ImprovementList reads blocks that start with a literal "Strengths:",
// "Challenges:" or "Recommendations:" label followed by "-" bullet lines.
func ImprovementList(text string) domain.Improvements {
	return safely("improvement_list", domain.EmptyImprovements, func() domain.Improvements {
		out := domain.EmptyImprovements()

		for _, block := range sections(text) {
			var target *[]string
			switch {
			case strings.HasPrefix(block, "Strengths:"):
				target = &out.Strengths
			case strings.HasPrefix(block, "Challenges:"):
				target = &out.Challenges
			case strings.HasPrefix(block, "Recommendations:"):
				target = &out.Recommendations
			default:
				continue
			}

			for _, l := range lines(block)[1:] {
				l = strings.TrimSpace(l)
				if !strings.HasPrefix(l, "-") {
					continue
				}
				if item := strings.TrimSpace(strings.TrimPrefix(l, "-")); item != "" {
					*target = append(*target, item)
				}
			}
		}
		return out
	})
}
