package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-progress/internal/adapters/llm"
)

func TestNewGenAIClientRequiresAPIKey(t *testing.T) {
	_, err := llm.NewGenAIClient(context.Background(), llm.Options{Backend: llm.BackendGemini})
	require.ErrorIs(t, err, llm.ErrMissingAPIKey)

	_, err = llm.NewGenAIClient(context.Background(), llm.Options{})
	require.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestNewGenAIClientVertexRequiresProject(t *testing.T) {
	_, err := llm.NewGenAIClient(context.Background(), llm.Options{Backend: llm.BackendVertex, Location: "us-central1"})
	require.ErrorIs(t, err, llm.ErrMissingProject)
}

func TestNewGenAIClientUnknownBackend(t *testing.T) {
	_, err := llm.NewGenAIClient(context.Background(), llm.Options{Backend: "openai", APIKey: "k"})
	require.Error(t, err)
}
