package domain

import "context"

// LLMClient defines how the core application interacts with a generative model.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// KVStore is the persistence port: text values under string keys.
// Get reports found=false for a missing key without an error.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}
