package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultCollection = "farum_kv"

// Store implements domain.KVStore on a Firestore collection, one document
// per key.
type Store struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

// NewStore creates a Firestore store.
// Uses the project passed (FARUM_GCP_PROJECT).
func NewStore(ctx context.Context, projectID, collection string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}
	if collection == "" {
		collection = defaultCollection
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{
		client:     client,
		collection: collection,
		now:        time.Now,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) doc(key string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(key)
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type kvDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// ─────────────────────────────────────────
// KVStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	snap, err := s.doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("firestore Get %q: %w", key, err)
	}

	var doc kvDoc
	if err := snap.DataTo(&doc); err != nil {
		return "", false, fmt.Errorf("firestore Get %q decode: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	doc := kvDoc{
		Value:     value,
		UpdatedAt: s.now().UTC(),
	}

	if _, err := s.doc(key).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Set %q: %w", key, err)
	}
	return nil
}
