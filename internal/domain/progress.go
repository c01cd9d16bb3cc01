package domain

// GoalStatus is derived from a goal's progress, never set independently.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not-started"
	GoalInProgress GoalStatus = "in-progress"
	GoalAchieved   GoalStatus = "achieved"
)

// Valid reports whether s is one of the known statuses.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalNotStarted, GoalInProgress, GoalAchieved:
		return true
	}
	return false
}

// ClampProgress bounds a progress value to [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// StatusForProgress maps a progress value to its status.
// Out-of-range values are clamped first.
func StatusForProgress(p int) GoalStatus {
	switch ClampProgress(p) {
	case 0:
		return GoalNotStarted
	case 100:
		return GoalAchieved
	default:
		return GoalInProgress
	}
}

// Goal is a therapeutic goal tracked across sessions.
type Goal struct {
	Goal     string     `json:"goal"`
	Progress int        `json:"progress"`
	Status   GoalStatus `json:"status"`
}

// NewGoal builds a Goal with clamped progress and the matching status.
func NewGoal(text string, progress int) Goal {
	p := ClampProgress(progress)
	return Goal{
		Goal:     text,
		Progress: p,
		Status:   StatusForProgress(p),
	}
}

// GoalDetail is the richer goal shape the model returns when asked to list goals.
// ReportedStatus is what the model said, kept for display only.
type GoalDetail struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Progress       int        `json:"progress"`
	ReportedStatus GoalStatus `json:"reportedStatus"`
}

// Goal projects the detail onto a tracked Goal, deriving status from progress.
func (d GoalDetail) Goal() Goal {
	return NewGoal(d.Title, d.Progress)
}

type Improvements struct {
	Strengths       []string `json:"strengths"`
	Challenges      []string `json:"challenges"`
	Recommendations []string `json:"recommendations"`
}

// EmptyImprovements returns Improvements with non-nil, empty lists.
func EmptyImprovements() Improvements {
	return Improvements{
		Strengths:       []string{},
		Challenges:      []string{},
		Recommendations: []string{},
	}
}

type EmotionPoint struct {
	Timestamp string `json:"timestamp"`
	Value     int    `json:"value"`
	Emotion   string `json:"emotion"`
}

type DominantEmotion struct {
	Emotion    string `json:"emotion"`
	Percentage int    `json:"percentage"`
}

// EngagementDimensions names the five engagement axes, in score order.
var EngagementDimensions = [...]string{
	"participation",
	"emotional depth",
	"self-reflection",
	"progress",
	"openness",
}

// EngagementSize is the number of engagement dimensions.
const EngagementSize = len(EngagementDimensions)

// ZeroEngagement returns a score with every dimension at zero.
func ZeroEngagement() []int {
	return make([]int, EngagementSize)
}

type EmotionalJourney struct {
	Emotions         []EmotionPoint    `json:"emotions"`
	DominantEmotions []DominantEmotion `json:"dominantEmotions"`
	EngagementLevel  []int             `json:"engagementLevel"`
}

// EmotionAnalysis is the parsed result of an emotion-tracking prompt.
type EmotionAnalysis struct {
	Emotions         []EmotionPoint
	DominantEmotions []DominantEmotion
}

// SessionAnalysis is the holistic read of a whole session.
type SessionAnalysis struct {
	EmotionalState string   `json:"emotionalState"`
	KeyTopics      []string `json:"keyTopics"`
	Insights       []string `json:"insights"`
}

// Empty reports whether nothing was extracted.
func (a SessionAnalysis) Empty() bool {
	return a.EmotionalState == "" && len(a.KeyTopics) == 0 && len(a.Insights) == 0
}

// ProgressReport is the parsed result of a summary/goals/improvements prompt.
type ProgressReport struct {
	Summary      string
	Goals        []Goal
	Improvements Improvements
}

// ProgressRecord is the per-session snapshot persisted to history.
type ProgressRecord struct {
	ID               RecordID         `json:"id,omitempty"`
	SessionSummary   string           `json:"sessionSummary"`
	Goals            []Goal           `json:"goals"`
	Improvements     Improvements     `json:"improvements"`
	Timestamp        Timestamp        `json:"timestamp"`
	EmotionalJourney EmotionalJourney `json:"emotionalJourney"`
}
