package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/farum-progress/internal/app/progress/parse"
	"github.com/PabloGalante/farum-progress/internal/domain"
)

// Analyzer runs single-prompt analyses against the model.
//
// Every operation returns its typed safe default together with a non-nil
// error when the model call fails, so callers pick their own fallback.
type Analyzer struct {
	llm domain.LLMClient
}

func NewAnalyzer(llm domain.LLMClient) *Analyzer {
	return &Analyzer{llm: llm}
}

func (a *Analyzer) ask(ctx context.Context, op, instructions string, messages []domain.Message) (string, error) {
	reply, err := a.llm.GenerateContent(ctx, buildPrompt(instructions, messages))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return reply, nil
}

// AnalyzeEmotions returns the emotion timeline and dominant emotions.
func (a *Analyzer) AnalyzeEmotions(ctx context.Context, messages []domain.Message) (domain.EmotionAnalysis, error) {
	reply, err := a.ask(ctx, "analyze emotions", emotionInstructions, messages)
	if err != nil {
		return parse.EmotionList(""), err
	}
	return parse.EmotionList(reply), nil
}

// ScoreEngagement returns the five engagement dimensions, each in [0,100].
func (a *Analyzer) ScoreEngagement(ctx context.Context, messages []domain.Message) ([]int, error) {
	reply, err := a.ask(ctx, "score engagement", engagementInstructions, messages)
	if err != nil {
		return domain.ZeroEngagement(), err
	}
	return parse.Engagement(reply), nil
}

// GenerateSummary returns a short session summary. If the reply has no
// recognisable summary section the whole reply is used.
func (a *Analyzer) GenerateSummary(ctx context.Context, messages []domain.Message) (string, error) {
	reply, err := a.ask(ctx, "generate summary", summaryInstructions, messages)
	if err != nil {
		return "", err
	}
	if s := parse.ProgressReport(reply).Summary; s != "" {
		return s, nil
	}
	return strings.TrimSpace(reply), nil
}

// ExtractGoals returns the goals the user is working toward.
func (a *Analyzer) ExtractGoals(ctx context.Context, messages []domain.Message) ([]domain.GoalDetail, error) {
	reply, err := a.ask(ctx, "extract goals", goalsInstructions, messages)
	if err != nil {
		return parse.GoalList(""), err
	}
	return parse.GoalList(reply), nil
}

// ExtractImprovements returns strengths, challenges and recommendations.
func (a *Analyzer) ExtractImprovements(ctx context.Context, messages []domain.Message) (domain.Improvements, error) {
	reply, err := a.ask(ctx, "extract improvements", improvementsInstructions, messages)
	if err != nil {
		return domain.EmptyImprovements(), err
	}
	return parse.ImprovementList(reply), nil
}

// AnalyzeSession returns the holistic emotional state, topics and insights.
func (a *Analyzer) AnalyzeSession(ctx context.Context, messages []domain.Message) (domain.SessionAnalysis, error) {
	reply, err := a.ask(ctx, "analyze session", sessionAnalysisInstructions, messages)
	if err != nil {
		return parse.SessionAnalysis(""), err
	}
	return parse.SessionAnalysis(reply), nil
}
