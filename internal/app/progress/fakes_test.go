package progress_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PabloGalante/farum-progress/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-progress/internal/app/history"
	"github.com/PabloGalante/farum-progress/internal/app/progress"
	"github.com/PabloGalante/farum-progress/internal/domain"
	"github.com/PabloGalante/farum-progress/internal/retry"
)

const (
	kindEmotions     = "emotions"
	kindEngagement   = "engagement"
	kindSummary      = "summary"
	kindGoals        = "goals"
	kindImprovements = "improvements"
	kindAnalysis     = "analysis"
)

func classify(prompt string) string {
	switch {
	case strings.Contains(prompt, "Distribution:"):
		return kindEmotions
	case strings.Contains(prompt, "five integers"):
		return kindEngagement
	case strings.Contains(prompt, "Title:"):
		return kindGoals
	case strings.Contains(prompt, "Recommendations:"):
		return kindImprovements
	case strings.Contains(prompt, "Key Topics:"):
		return kindAnalysis
	case strings.Contains(prompt, "Summary:"):
		return kindSummary
	}
	return "unknown"
}

// scriptedLLM answers by prompt kind. Each kind has a queue of replies; the
// last reply repeats once the queue is drained.
type scriptedLLM struct {
	mu      sync.Mutex
	replies map[string][]string
	errs    map[string]error
	calls   map[string]int
	prompts map[string][]string
}

func newScriptedLLM() *scriptedLLM {
	return &scriptedLLM{
		replies: map[string][]string{
			kindEmotions:     {"10:00 | anxious | 7\n10:20 | calm | 4\n\nDistribution: anxious: 60%, calm: 40%"},
			kindEngagement:   {"80 70 60 50 40"},
			kindSummary:      {"Summary:\nTalked about sleep and work."},
			kindGoals:        {"Title: Sleep better\nDescription: Regular bedtime\nProgress: 70%\nStatus: in-progress\n\nTitle: Exercise\nDescription: Walk daily\nProgress: 20%"},
			kindImprovements: {"Strengths:\n- Open\n\nChallenges:\n- Rumination\n\nRecommendations:\n- Wind-down routine"},
			kindAnalysis:     {"Emotional State: calmer\n\nKey Topics: - sleep - work\n\nInsights: - worry peaks at night"},
		},
		errs:    map[string]error{},
		calls:   map[string]int{},
		prompts: map[string][]string{},
	}
}

func (s *scriptedLLM) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := classify(prompt)
	s.calls[kind]++
	s.prompts[kind] = append(s.prompts[kind], prompt)

	if err := s.errs[kind]; err != nil {
		return "", err
	}
	q := s.replies[kind]
	if len(q) == 0 {
		return "", errors.New("no scripted reply for " + kind)
	}
	reply := q[0]
	if len(q) > 1 {
		s.replies[kind] = q[1:]
	}
	return reply, nil
}

func (s *scriptedLLM) failWith(kind string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[kind] = err
}

func (s *scriptedLLM) script(kind string, replies ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[kind] = replies
}

func (s *scriptedLLM) count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[kind]
}

func (s *scriptedLLM) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *scriptedLLM) lastPrompt(kind string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prompts[kind]
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// countingKV records store traffic and can be made to fail writes.
type countingKV struct {
	*memory.KVStore
	mu      sync.Mutex
	gets    int
	sets    int
	failSet error
}

func newCountingKV() *countingKV {
	return &countingKV{KVStore: memory.NewKVStore()}
}

func (c *countingKV) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.KVStore.Get(ctx, key)
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.sets++
	err := c.failSet
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.KVStore.Set(ctx, key, value)
}

func (c *countingKV) traffic() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets + c.sets
}

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type harness struct {
	llm     *scriptedLLM
	kv      *countingKV
	history *history.Store
	tracker *progress.Tracker
}

func newHarness() *harness {
	llm := newScriptedLLM()
	kv := newCountingKV()
	store := history.NewStore(kv, history.WithRetryPolicy(retry.Policy{
		Retries: 3,
		Delay:   time.Second,
		Sleep:   func(context.Context, time.Duration) error { return nil },
	}))

	n := 0
	tracker := progress.NewTracker(llm, store,
		progress.WithClock(func() time.Time { return fixedNow }),
		progress.WithIDGenerator(func() domain.RecordID {
			n++
			return domain.RecordID("rec-" + strconv.Itoa(n))
		}),
	)

	return &harness{llm: llm, kv: kv, history: store, tracker: tracker}
}

func messages(n int) []domain.Message {
	out := make([]domain.Message, n)
	for i := range out {
		out[i] = domain.Message{
			Text:      "message " + strconv.Itoa(i),
			Timestamp: fixedNow.Add(time.Duration(i) * time.Minute),
			IsUser:    i%2 == 0,
		}
	}
	return out
}
