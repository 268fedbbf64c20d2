package assistant

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIGenerator calls Gemini through google.golang.org/genai.
type GenAIGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGenAIGenerator creates a generator for model. An empty apiKey yields
// ErrMissingKey so callers can fall back without a network round trip.
func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIGenerator{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(Persona, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.7),
			TopP:              genai.Ptr[float32](0.9),
		},
	}, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// Model reports the configured model id.
func (g *GenAIGenerator) Model() string { return g.model }
