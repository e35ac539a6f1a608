package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiClassifier calls the Gemini generateContent API.
type GeminiClassifier struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	timeout     time.Duration
}

// NewGeminiClassifier creates a Gemini API client for config.
func NewGeminiClassifier(ctx context.Context, config Config) (*GeminiClassifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &GeminiClassifier{
		client:      client,
		model:       model,
		temperature: float32(config.Temperature),
		maxTokens:   int32(maxTokens),
		timeout:     config.Timeout,
	}, nil
}

// Classify returns the model's text answer. API errors are returned unchanged so
// their "Error 429" / "RESOURCE_EXHAUSTED" text reaches the failure rules.
func (g *GeminiClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.temperature),
		MaxOutputTokens:  g.maxTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned no text for model %s", g.model)
	}
	return text, nil
}

func (g *GeminiClassifier) Provider() string { return ProviderGemini }
func (g *GeminiClassifier) Model() string    { return g.model }
