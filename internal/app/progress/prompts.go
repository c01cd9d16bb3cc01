package progress

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

const analystPreamble = `You are Farum's session analyst. Farum is an AI companion focused on
mental well-being; you are reviewing one of its conversations with a user.
Base every statement only on the conversation below. Do not diagnose.`

const emotionInstructions = `Track how the user's emotions change over the conversation.

Write one line per noticeable emotional shift, in this exact form:
moment | emotion | intensity from 0 to 10

After the lines, write "Distribution:" followed by the dominant emotions
of the whole session as "emotion: NN%" pairs that add up to 100%.`

const engagementInstructions = `Rate the user's engagement in this session on five dimensions, in this order:
participation, emotional depth, self-reflection, progress, openness.

Reply with exactly five integers between 0 and 100, separated by spaces,
and nothing else.`

const summaryInstructions = `Write a short progress summary of this session (2-4 sentences),
focused on what the user worked on and how they ended the session.

Use this format:
Summary:
<your summary>`

const goalsInstructions = `Identify the personal goals the user is working toward.

For each goal write one block, separated by a blank line:
Title: <short goal name>
Description: <one sentence>
Progress: <0-100>%
Status: <not-started | in-progress | achieved>`

const improvementsInstructions = `Describe the user's growth in this session.

Use exactly these three blocks, separated by blank lines, one "-" bullet per item:
Strengths:
- ...

Challenges:
- ...

Recommendations:
- ...`

const sessionAnalysisInstructions = `Give a holistic analysis of the whole session.

Use exactly these three sections, separated by blank lines:
Emotional State: <one line>

Key Topics: - <topic> - <topic>

Insights: - <insight> - <insight>`

// formatConversation renders messages as "User: ..." / "Farum: ..." lines.
func formatConversation(messages []domain.Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		role := domain.AgentLabel
		if m.IsUser {
			role = "User"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(m.Text)
	}
	return b.String()
}

func buildPrompt(instructions string, messages []domain.Message) string {
	return fmt.Sprintf("%s\n\n%s\n\nConversation:\n%s\n", analystPreamble, instructions, formatConversation(messages))
}
