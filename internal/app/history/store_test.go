package history_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-progress/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-progress/internal/app/history"
	"github.com/PabloGalante/farum-progress/internal/domain"
	"github.com/PabloGalante/farum-progress/internal/retry"
)

func noWait(context.Context, time.Duration) error { return nil }

func fastRetry() history.Option {
	return history.WithRetryPolicy(retry.Policy{Retries: 3, Delay: time.Second, Sleep: noWait})
}

func record(i int) domain.ProgressRecord {
	return domain.ProgressRecord{
		ID:             domain.RecordID(fmt.Sprintf("rec-%d", i)),
		SessionSummary: fmt.Sprintf("session %d", i),
		Goals:          []domain.Goal{domain.NewGoal("Sleep better", i%101)},
		Improvements:   domain.EmptyImprovements(),
		Timestamp:      time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
		EmotionalJourney: domain.EmotionalJourney{
			Emotions:         []domain.EmotionPoint{},
			DominantEmotions: []domain.DominantEmotion{},
			EngagementLevel:  domain.ZeroEngagement(),
		},
	}
}

// flakyKV fails the first failSets writes and counts calls.
type flakyKV struct {
	*memory.KVStore
	failSets int
	sets     int
	getErr   error
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.KVStore.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	f.sets++
	if f.sets <= f.failSets {
		return errors.New("quota exceeded")
	}
	return f.KVStore.Set(ctx, key, value)
}

func TestLoadEmpty(t *testing.T) {
	s := history.NewStore(memory.NewKVStore())
	got := s.Load(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got)

	_, ok := s.Latest(context.Background())
	assert.False(t, ok)
}

func TestAppendAndLatest(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(memory.NewKVStore())

	require.NoError(t, s.Append(ctx, record(1)))
	require.NoError(t, s.Append(ctx, record(2)))

	all := s.Load(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, "session 1", all[0].SessionSummary)

	latest, ok := s.Latest(ctx)
	require.True(t, ok)
	assert.Equal(t, record(2).ID, latest.ID)
	assert.True(t, record(2).Timestamp.Equal(latest.Timestamp))

	found, ok := s.Find(ctx, "rec-1")
	require.True(t, ok)
	assert.Equal(t, "session 1", found.SessionSummary)

	_, ok = s.Find(ctx, "nope")
	assert.False(t, ok)
}

func TestAppendEvictsOldestBeyondCapacity(t *testing.T) {
	ctx := context.Background()
	s := history.NewStore(memory.NewKVStore())
	require.Equal(t, 50, s.Capacity())

	for i := 1; i <= 51; i++ {
		require.NoError(t, s.Append(ctx, record(i)))
	}

	all := s.Load(ctx)
	require.Len(t, all, 50)
	assert.Equal(t, domain.RecordID("rec-2"), all[0].ID)
	assert.Equal(t, domain.RecordID("rec-51"), all[49].ID)
}

func TestCustomCapacityAndKey(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	s := history.NewStore(kv, history.WithCapacity(2), history.WithKey("custom"))

	for i := 1; i <= 4; i++ {
		require.NoError(t, s.Append(ctx, record(i)))
	}

	_, found, err := kv.Get(ctx, history.DefaultKey)
	require.NoError(t, err)
	assert.False(t, found)

	all := s.Load(ctx)
	require.Len(t, all, 2)
	assert.Equal(t, domain.RecordID("rec-3"), all[0].ID)
}

func TestAppendRetriesWrites(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{KVStore: memory.NewKVStore(), failSets: 2}
	s := history.NewStore(kv, fastRetry())

	require.NoError(t, s.Append(ctx, record(1)))
	assert.Equal(t, 3, kv.sets)
	assert.Len(t, s.Load(ctx), 1)
}

func TestAppendFailsAfterRetryBudget(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{KVStore: memory.NewKVStore(), failSets: 100}
	s := history.NewStore(kv, fastRetry())

	err := s.Append(ctx, record(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 4, kv.sets)
}

func TestLoadDegradesOnReadError(t *testing.T) {
	kv := &flakyKV{KVStore: memory.NewKVStore(), getErr: errors.New("storage unavailable")}
	s := history.NewStore(kv, fastRetry())

	got := s.Load(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got)

	// a failing read must not let Append overwrite what is stored
	require.Error(t, s.Append(context.Background(), record(1)))
	assert.Equal(t, 0, kv.sets)
}

func TestLoadNonListPayload(t *testing.T) {
	ctx := context.Background()
	for _, payload := range []string{`{"sessionSummary":"x"}`, `"text"`, `42`, `null`, `not json`} {
		kv := memory.NewKVStore()
		require.NoError(t, kv.Set(ctx, history.DefaultKey, payload))

		got := history.NewStore(kv).Load(ctx)
		assert.Empty(t, got, "payload %s", payload)
	}
}

func TestLoadDropsMalformedElements(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()

	good := `{"sessionSummary":"ok","goals":[{"goal":"Sleep better","progress":40,"status":"in-progress"}],` +
		`"improvements":{"strengths":[],"challenges":[],"recommendations":["rest"]},` +
		`"timestamp":"2025-03-01T10:00:00.000Z",` +
		`"emotionalJourney":{"emotions":[{"timestamp":"10:00","value":5,"emotion":"calm"}],"dominantEmotions":[],"engagementLevel":[1,2,3,4,5]}}`

	payload := `[` +
		good + `,` +
		`42,` +
		`{"sessionSummary":"no goals","improvements":{},"timestamp":"2025-03-01T10:00:00Z","emotionalJourney":{}},` +
		`{"sessionSummary":"bad goals","goals":{},"improvements":{"strengths":[],"challenges":[],"recommendations":[]},"timestamp":"2025-03-01T10:00:00Z","emotionalJourney":{"emotions":[],"dominantEmotions":[],"engagementLevel":[]}},` +
		`{"sessionSummary":"bad journey","goals":[],"improvements":{"strengths":[],"challenges":[],"recommendations":[]},"timestamp":"2025-03-01T10:00:00Z","emotionalJourney":{"emotions":null,"dominantEmotions":[],"engagementLevel":[]}},` +
		`{"sessionSummary":"bad time","goals":[],"improvements":{"strengths":[],"challenges":[],"recommendations":[]},"timestamp":"yesterday","emotionalJourney":{"emotions":[],"dominantEmotions":[],"engagementLevel":[]}}` +
		`]`
	require.NoError(t, kv.Set(ctx, history.DefaultKey, payload))

	got := history.NewStore(kv).Load(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].SessionSummary)
	assert.Equal(t, []string{"rest"}, got[0].Improvements.Recommendations)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got[0].EmotionalJourney.EngagementLevel)
	assert.Equal(t, domain.RecordID(""), got[0].ID)
}
