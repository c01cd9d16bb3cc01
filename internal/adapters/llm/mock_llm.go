package llm

import (
	"context"
	"strings"
)

// MockLLM returns canned, well-formed replies for each analysis prompt so the
// whole pipeline can run locally without credentials.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch {
	case strings.Contains(prompt, "Distribution:"):
		return "start | anxious | 7\nmiddle | reflective | 5\nend | calm | 3\n\nDistribution: anxious: 40%, reflective: 35%, calm: 25%", nil
	case strings.Contains(prompt, "five integers"):
		return "70 60 65 50 75", nil
	case strings.Contains(prompt, "Title:"):
		return "Title: Sleep better\nDescription: Keep a regular bedtime\nProgress: 30%\nStatus: in-progress", nil
	case strings.Contains(prompt, "Recommendations:"):
		return "Strengths:\n- Names feelings clearly\n\nChallenges:\n- Ruminates at night\n\nRecommendations:\n- Try a short wind-down routine", nil
	case strings.Contains(prompt, "Key Topics:"):
		return "Emotional State: calmer than at the start\n\nKey Topics: - sleep - work stress\n\nInsights: - worry peaks before bedtime", nil
	case strings.Contains(prompt, "Summary:"):
		return "Summary:\nThe user talked through work stress and how it affects their sleep.", nil
	default:
		return "Te escucho. Contame un poco mas sobre como te hace sentir eso.", nil
	}
}
