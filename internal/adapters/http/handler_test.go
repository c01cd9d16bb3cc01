package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/farum-progress/internal/adapters/http"
	"github.com/PabloGalante/farum-progress/internal/adapters/llm"
	"github.com/PabloGalante/farum-progress/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-progress/internal/app/history"
	"github.com/PabloGalante/farum-progress/internal/app/progress"
)

const transcript = `{"messages":[
	{"text":"I could not sleep again","timestamp":"2026-10-18T09:00:00Z","is_user":true},
	{"text":"What kept you awake?","timestamp":"2026-10-18T09:00:05Z","is_user":false},
	{"text":"Work, mostly","timestamp":"2026-10-18T09:01:00Z","is_user":true}
]}`

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	store := history.NewStore(memory.NewKVStore())
	tracker := progress.NewTracker(llm.NewMockLLM(), store)

	return httpadapter.NewServer(tracker)
}

// recordingLLM remembers every prompt it answers.
type recordingLLM struct {
	*llm.MockLLM
	mu      sync.Mutex
	prompts []string
}

func (r *recordingLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	r.mu.Lock()
	r.prompts = append(r.prompts, prompt)
	r.mu.Unlock()
	return r.MockLLM.GenerateContent(ctx, prompt)
}

func (r *recordingLLM) sawLine(line string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.prompts {
		if strings.Contains(p, line) {
			return true
		}
	}
	return false
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body=%s", w.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestTrackProgressStoresRecord(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/progress", transcript)
	require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())

	rec := decode(t, w)
	id, _ := rec["id"].(string)
	require.NotEmpty(t, id)
	assert.Contains(t, rec["session_summary"], "work stress")

	goals, _ := rec["goals"].([]any)
	require.Len(t, goals, 1)
	goal := goals[0].(map[string]any)
	assert.Equal(t, "Sleep better", goal["goal"])
	assert.Equal(t, "in-progress", goal["status"])

	w = do(t, srv, http.MethodGet, "/progress/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	hist := decode(t, w)
	records, _ := hist["records"].([]any)
	assert.Len(t, records, 1)
	assert.EqualValues(t, 50, hist["capacity"])

	w = do(t, srv, http.MethodGet, "/progress/history/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["id"])
}

func TestEndSessionMergesWithPrevious(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/progress", transcript).Code)

	w := do(t, srv, http.MethodPost, "/sessions/end", transcript)
	require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())

	rec := decode(t, w)
	assert.Contains(t, rec["session_summary"], "Session Analysis:")

	journey := rec["emotional_journey"].(map[string]any)
	emotions, _ := journey["emotions"].([]any)
	assert.Len(t, emotions, 6, "prior and current emotions are concatenated")

	w = do(t, srv, http.MethodGet, "/progress/history", "")
	records, _ := decode(t, w)["records"].([]any)
	assert.Len(t, records, 2)
}

func TestTrackProgressAcceptsBothUserKeys(t *testing.T) {
	cases := map[string]string{
		"snake case": `{"messages":[{"text":"I could not sleep","is_user":true},{"text":"Tell me more","is_user":false}]}`,
		"camel case": `{"messages":[{"text":"I could not sleep","isUser":true},{"text":"Tell me more","isUser":false}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := &recordingLLM{MockLLM: llm.NewMockLLM()}
			tracker := progress.NewTracker(rec, history.NewStore(memory.NewKVStore()))
			srv := httpadapter.NewServer(tracker)

			w := do(t, srv, http.MethodPost, "/progress", body)
			require.Equal(t, http.StatusCreated, w.Code, "body=%s", w.Body.String())

			assert.True(t, rec.sawLine("User: I could not sleep"))
			assert.True(t, rec.sawLine("Farum: Tell me more"))
		})
	}
}

func TestTrackProgressRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	cases := map[string]string{
		"invalid json":   `{"messages":`,
		"empty messages": `{"messages":[]}`,
		"missing field":  `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/progress", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHistoryRecordNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/progress/history/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/progress"},
		{http.MethodGet, "/sessions/end"},
		{http.MethodPost, "/progress/history"},
		{http.MethodDelete, "/progress/history/abc"},
	} {
		w := do(t, srv, tc.method, tc.path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodOptions, "/progress", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
