package parse

import (
	"strings"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

func emptyProgressReport() domain.ProgressReport {
	return domain.ProgressReport{
		Goals:        []domain.Goal{},
		Improvements: domain.EmptyImprovements(),
	}
}

// ProgressReport reads a summary / goals / improvements reply.
// The first line of each section selects what the section holds.
//
// Goal lines look like "Sleep better | in progress (40%)". Only the
// percentage matters: the status is always derived from it.
func ProgressReport(text string) domain.ProgressReport {
	return safely("progress_report", emptyProgressReport, func() domain.ProgressReport {
		out := emptyProgressReport()

		for _, sec := range sections(text) {
			ls := lines(sec)
			head := strings.ToLower(ls[0])
			body := ls[1:]

			switch {
			case strings.Contains(head, "summary"):
				parts := []string{}
				if v := afterColon(ls[0]); v != "" {
					parts = append(parts, v)
				}
				for _, l := range body {
					if l = strings.TrimSpace(l); l != "" {
						parts = append(parts, l)
					}
				}
				out.Summary = strings.Join(parts, "\n")

			case strings.Contains(head, "goals"):
				for _, l := range body {
					if g, ok := progressGoalLine(l); ok {
						out.Goals = append(out.Goals, g)
					}
				}

			case strings.Contains(head, "improvements"):
				for _, l := range body {
					addImprovementLine(&out.Improvements, l)
				}
			}
		}
		return out
	})
}

func progressGoalLine(line string) (domain.Goal, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimLeft(line, "-*"))

	text, statusText, ok := strings.Cut(line, "|")
	if !ok {
		return domain.Goal{}, false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Goal{}, false
	}
	return domain.NewGoal(text, lastPercent(statusText)), true
}

func addImprovementLine(imp *domain.Improvements, line string) {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, "strengths:"):
		imp.Strengths = append(imp.Strengths, splitDashList(afterColon(trimmed))...)
	case strings.HasPrefix(lower, "challenges:"):
		imp.Challenges = append(imp.Challenges, splitDashList(afterColon(trimmed))...)
	case strings.HasPrefix(lower, "recommendations:"):
		imp.Recommendations = append(imp.Recommendations, splitDashList(afterColon(trimmed))...)
	}
}
