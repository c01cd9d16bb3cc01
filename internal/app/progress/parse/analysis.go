package parse

import (
	"strings"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

func emptySessionAnalysis() domain.SessionAnalysis {
	return domain.SessionAnalysis{
		KeyTopics: []string{},
		Insights:  []string{},
	}
}

type analysisSection int

const (
	sectionUnknown analysisSection = iota
	sectionEmotionalState
	sectionKeyTopics
	sectionInsights
)

func classifyAnalysis(s string) analysisSection {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "emotional state"):
		return sectionEmotionalState
	case strings.Contains(lower, "key topics"):
		return sectionKeyTopics
	case strings.Contains(lower, "insights"):
		return sectionInsights
	}
	return sectionUnknown
}

// SessionAnalysis reads a holistic session analysis. Each section is
// attributed by its label (the text before the first colon), falling back to
// a keyword anywhere in the section, so their order in the reply does not
// matter. The first emotional state wins.
func SessionAnalysis(text string) domain.SessionAnalysis {
	return safely("session_analysis", emptySessionAnalysis, func() domain.SessionAnalysis {
		out := emptySessionAnalysis()

		for _, sec := range sections(text) {
			kind := sectionUnknown
			if label, _, ok := strings.Cut(sec, ":"); ok {
				kind = classifyAnalysis(label)
			}
			if kind == sectionUnknown {
				kind = classifyAnalysis(sec)
			}

			switch kind {
			case sectionEmotionalState:
				if out.EmotionalState == "" {
					out.EmotionalState = afterColon(sec)
				}
			case sectionKeyTopics:
				out.KeyTopics = append(out.KeyTopics, splitDashList(afterColon(sec))...)
			case sectionInsights:
				out.Insights = append(out.Insights, splitDashList(afterColon(sec))...)
			}
		}
		return out
	})
}
