package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/farum-progress/internal/app/progress"
	"github.com/PabloGalante/farum-progress/internal/domain"
	"github.com/PabloGalante/farum-progress/internal/observability"
)

type Server struct {
	tracker *progress.Tracker
}

func NewServer(tracker *progress.Tracker) http.Handler {
	s := &Server{tracker: tracker}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /progress → analyse a transcript and store the record (POST)
	mux.HandleFunc("/progress", s.handleProgress)

	// /progress/history       → GET: list stored records
	// /progress/history/{id}  → GET: one stored record
	mux.HandleFunc("/progress/history", s.handleHistory)
	mux.HandleFunc("/progress/history/", s.handleHistoryWithID)

	// /sessions/end → end-of-session merge (POST)
	mux.HandleFunc("/sessions/end", s.handleEndSession)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

// messageRequest accepts both "is_user" and the "isUser" key used by stored
// transcripts.
type messageRequest struct {
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
	IsUser      *bool     `json:"is_user"`
	IsUserCamel *bool     `json:"isUser"`
}

func (m messageRequest) isUser() bool {
	switch {
	case m.IsUser != nil:
		return *m.IsUser
	case m.IsUserCamel != nil:
		return *m.IsUserCamel
	}
	return false
}

type transcriptRequest struct {
	Messages []messageRequest `json:"messages"`
}

type goalResponse struct {
	Goal     string `json:"goal"`
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

type improvementsResponse struct {
	Strengths       []string `json:"strengths"`
	Challenges      []string `json:"challenges"`
	Recommendations []string `json:"recommendations"`
}

type emotionResponse struct {
	Timestamp string `json:"timestamp"`
	Emotion   string `json:"emotion"`
	Value     int    `json:"value"`
}

type dominantEmotionResponse struct {
	Emotion    string `json:"emotion"`
	Percentage int    `json:"percentage"`
}

type engagementResponse struct {
	Participation  int `json:"participation"`
	EmotionalDepth int `json:"emotional_depth"`
	SelfReflection int `json:"self_reflection"`
	Progress       int `json:"progress"`
	Openness       int `json:"openness"`
}

type emotionalJourneyResponse struct {
	Emotions         []emotionResponse         `json:"emotions"`
	DominantEmotions []dominantEmotionResponse `json:"dominant_emotions"`
	Engagement       engagementResponse        `json:"engagement"`
}

type recordResponse struct {
	ID               string                   `json:"id"`
	SessionSummary   string                   `json:"session_summary"`
	Goals            []goalResponse           `json:"goals"`
	Improvements     improvementsResponse     `json:"improvements"`
	Timestamp        time.Time                `json:"timestamp"`
	EmotionalJourney emotionalJourneyResponse `json:"emotional_journey"`
}

type historyResponse struct {
	Records  []recordResponse `json:"records"`
	Capacity int              `json:"capacity"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /progress
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleTrackProgress(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/end
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	msgs, ok := decodeTranscript(w, r)
	if !ok {
		return
	}

	rec, err := s.tracker.EndSession(r.Context(), msgs)
	if err != nil {
		trackerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(*rec))
}

// /progress/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	store := s.tracker.History()
	records := store.Load(r.Context())

	resp := historyResponse{
		Records:  make([]recordResponse, 0, len(records)),
		Capacity: store.Capacity(),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

// /progress/history/{id}
func (s *Server) handleHistoryWithID(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/progress/history/"), "/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	rec, ok := s.tracker.History().Find(r.Context(), domain.RecordID(id))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleTrackProgress(w http.ResponseWriter, r *http.Request) {
	msgs, ok := decodeTranscript(w, r)
	if !ok {
		return
	}

	rec, err := s.tracker.TrackProgressWithEmotions(r.Context(), msgs)
	if err != nil {
		trackerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(*rec))
}

func decodeTranscript(w http.ResponseWriter, r *http.Request) ([]domain.Message, bool) {
	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return nil, false
	}
	if len(req.Messages) == 0 {
		badRequest(w, "messages are required")
		return nil, false
	}

	msgs := make([]domain.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, domain.Message{
			Text:      m.Text,
			Timestamp: m.Timestamp,
			IsUser:    m.isUser(),
		})
	}
	return msgs, true
}

// ─────────────────────────────────────────────
// Progress Helpers
// ─────────────────────────────────────────────

func toRecordResponse(rec domain.ProgressRecord) recordResponse {
	goals := make([]goalResponse, 0, len(rec.Goals))
	for _, g := range rec.Goals {
		goals = append(goals, goalResponse{
			Goal:     g.Goal,
			Progress: g.Progress,
			Status:   string(g.Status),
		})
	}

	emotions := make([]emotionResponse, 0, len(rec.EmotionalJourney.Emotions))
	for _, e := range rec.EmotionalJourney.Emotions {
		emotions = append(emotions, emotionResponse{
			Timestamp: e.Timestamp,
			Emotion:   e.Emotion,
			Value:     e.Value,
		})
	}

	dominant := make([]dominantEmotionResponse, 0, len(rec.EmotionalJourney.DominantEmotions))
	for _, d := range rec.EmotionalJourney.DominantEmotions {
		dominant = append(dominant, dominantEmotionResponse{
			Emotion:    d.Emotion,
			Percentage: d.Percentage,
		})
	}

	return recordResponse{
		ID:             string(rec.ID),
		SessionSummary: rec.SessionSummary,
		Goals:          goals,
		Improvements: improvementsResponse{
			Strengths:       nonNil(rec.Improvements.Strengths),
			Challenges:      nonNil(rec.Improvements.Challenges),
			Recommendations: nonNil(rec.Improvements.Recommendations),
		},
		Timestamp: rec.Timestamp,
		EmotionalJourney: emotionalJourneyResponse{
			Emotions:         emotions,
			DominantEmotions: dominant,
			Engagement:       toEngagementResponse(rec.EmotionalJourney.EngagementLevel),
		},
	}
}

func toEngagementResponse(levels []int) engagementResponse {
	at := func(i int) int {
		if i < len(levels) {
			return levels[i]
		}
		return 0
	}
	return engagementResponse{
		Participation:  at(0),
		EmotionalDepth: at(1),
		SelfReflection: at(2),
		Progress:       at(3),
		Openness:       at(4),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func trackerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, progress.ErrNoMessages) {
		badRequest(w, "messages are required")
		return
	}
	observability.LoggerFromContext(r.Context()).Error("progress request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
