// Package history keeps the bounded list of progress records under a single
// storage key.
package history

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PabloGalante/farum-progress/internal/domain"
	"github.com/PabloGalante/farum-progress/internal/observability"
	"github.com/PabloGalante/farum-progress/internal/retry"
)

const (
	DefaultKey      = "farum_progress_history"
	DefaultCapacity = 50
)

// Store reads and writes the progress history through a domain.KVStore.
// Each write replaces the whole stored value.
type Store struct {
	kv       domain.KVStore
	key      string
	capacity int
	retry    retry.Policy
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(s *Store) {
		s.retry = p
	}
}

func NewStore(kv domain.KVStore, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      DefaultKey,
		capacity: DefaultCapacity,
		retry:    retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capacity is the maximum number of records retained.
func (s *Store) Capacity() int {
	return s.capacity
}

// Load returns the stored history, oldest first.
// Read failures and malformed payloads degrade to an empty history.
func (s *Store) Load(ctx context.Context) []domain.ProgressRecord {
	records, err := s.read(ctx)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("failed to read progress history",
			"key", s.key,
			"error", err,
		)
		return []domain.ProgressRecord{}
	}
	return records
}

// Latest returns the most recent record, if any.
func (s *Store) Latest(ctx context.Context) (domain.ProgressRecord, bool) {
	records := s.Load(ctx)
	if len(records) == 0 {
		return domain.ProgressRecord{}, false
	}
	return records[len(records)-1], true
}

// Find returns the record with the given id, if it is still retained.
func (s *Store) Find(ctx context.Context, id domain.RecordID) (domain.ProgressRecord, bool) {
	if id == "" {
		return domain.ProgressRecord{}, false
	}
	for _, r := range s.Load(ctx) {
		if r.ID == id {
			return r, true
		}
	}
	return domain.ProgressRecord{}, false
}

// Append adds rec to the history, evicting the oldest records beyond capacity.
// The whole read-modify-write is retried under the store's retry policy.
func (s *Store) Append(ctx context.Context, rec domain.ProgressRecord) error {
	log := observability.LoggerFromContext(ctx).With("key", s.key)

	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		records, err := s.read(ctx)
		if err != nil {
			log.Warn("history read failed during append", "error", err)
			return err
		}

		records = append(records, rec)
		if over := len(records) - s.capacity; over > 0 {
			records = records[over:]
		}

		payload, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("encode history: %w", err)
		}

		if err := s.kv.Set(ctx, s.key, string(payload)); err != nil {
			log.Warn("history write failed", "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append progress record: %w", err)
	}

	log.Debug("progress record appended", "record_id", rec.ID)
	return nil
}

// read only fails when the underlying store does. A missing key or a
// payload that is not a list yields an empty history.
func (s *Store) read(ctx context.Context) ([]domain.ProgressRecord, error) {
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return []domain.ProgressRecord{}, nil
	}

	records, dropped := decodeHistory(raw)
	if dropped > 0 {
		observability.LoggerFromContext(ctx).Warn("dropped malformed progress records",
			"key", s.key,
			"dropped", dropped,
		)
	}
	return records, nil
}
