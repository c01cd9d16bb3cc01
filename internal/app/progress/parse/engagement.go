package parse

import (
	"regexp"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

var integerRe = regexp.MustCompile(`\d+`)

// Engagement takes the first five integers anywhere in text, clamps each
// to [0,100] and zero-pads the result to exactly five values.
func Engagement(text string) []int {
	return safely("engagement", domain.ZeroEngagement, func() []int {
		out := domain.ZeroEngagement()
		for i, tok := range integerRe.FindAllString(text, domain.EngagementSize) {
			out[i] = domain.ClampProgress(atoiOr(tok, 0))
		}
		return out
	})
}
