package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var (
	ErrMissingAPIKey  = errors.New("llm: API key is required")
	ErrMissingProject = errors.New("llm: GCP project and location are required for Vertex AI")
)

type Backend string

const (
	BackendGemini Backend = "gemini"
	BackendVertex Backend = "vertex"
)

const DefaultModel = "gemini-2.5-flash"

// Options configures a GenAIClient. APIKey is required for the Gemini
// backend; Project and Location for Vertex AI.
type Options struct {
	Backend  Backend
	APIKey   string
	Project  string
	Location string
	Model    string

	Temperature     float32
	MaxOutputTokens int32
}

// GenAIClient implements domain.LLMClient on top of google.golang.org/genai.
type GenAIClient struct {
	client    *genai.Client
	modelName string
	config    *genai.GenerateContentConfig
}

// NewGenAIClient validates credentials before any network use.
func NewGenAIClient(ctx context.Context, opts Options) (*GenAIClient, error) {
	cc := &genai.ClientConfig{}

	switch opts.Backend {
	case BackendVertex:
		if opts.Project == "" || opts.Location == "" {
			return nil, ErrMissingProject
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = opts.Project
		cc.Location = opts.Location
	case BackendGemini, "":
		if opts.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = opts.APIKey
	default:
		return nil, fmt.Errorf("llm: unknown backend %q", opts.Backend)
	}

	modelName := opts.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	temp := opts.Temperature
	if temp == 0 {
		temp = 0.4
	}
	outputTokens := opts.MaxOutputTokens
	if outputTokens == 0 {
		outputTokens = 2048
	}

	return &GenAIClient{
		client:    client,
		modelName: modelName,
		config: &genai.GenerateContentConfig{
			Temperature:     &temp,
			MaxOutputTokens: outputTokens,
		},
	}, nil
}

// Model returns the configured model name.
func (c *GenAIClient) Model() string {
	return c.modelName
}

// GenerateContent implements domain.LLMClient.
func (c *GenAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	res, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, c.config)
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("genai returned empty text")
	}
	return text, nil
}
