package parse

import (
	"regexp"
	"strings"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

var (
	goalTitleRe       = regexp.MustCompile(`(?im)^[ \t]*[-*]?[ \t]*title:[ \t]*(.+?)[ \t]*$`)
	goalDescriptionRe = regexp.MustCompile(`(?im)^[ \t]*[-*]?[ \t]*description:[ \t]*(.+?)[ \t]*$`)
	goalProgressRe    = regexp.MustCompile(`(?i)progress:[ \t]*(\d+)[ \t]*%`)
	goalStatusRe      = regexp.MustCompile(`(?im)^[ \t]*[-*]?[ \t]*status:[ \t]*(.+?)[ \t]*$`)
)

func emptyGoalList() []domain.GoalDetail {
	return []domain.GoalDetail{}
}

// GoalList reads blocks of "Title: / Description: / Progress: NN% / Status:"
// fields. Each field is matched on its own, in any order. A block without
// both a title and a description is dropped.
func GoalList(text string) []domain.GoalDetail {
	return safely("goal_list", emptyGoalList, func() []domain.GoalDetail {
		out := emptyGoalList()

		for _, block := range sections(text) {
			title := firstGroup(goalTitleRe, block)
			desc := firstGroup(goalDescriptionRe, block)
			if title == "" || desc == "" {
				continue
			}

			progress := 0
			if m := goalProgressRe.FindStringSubmatch(block); m != nil {
				progress = atoiOr(m[1], 0)
			}

			out = append(out, domain.GoalDetail{
				Title:          title,
				Description:    desc,
				Progress:       domain.ClampProgress(progress),
				ReportedStatus: parseStatus(firstGroup(goalStatusRe, block)),
			})
		}
		return out
	})
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parseStatus accepts "in-progress", "In Progress", "in_progress" and so on.
func parseStatus(s string) domain.GoalStatus {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	if st := domain.GoalStatus(s); st.Valid() {
		return st
	}
	return domain.GoalNotStarted
}
