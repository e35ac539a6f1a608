package llm

import "time"

// Providers understood by NewClassifier.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderHeuristic = "heuristic"
	ProviderMock      = "mock"
)

// Config holds classifier adapter configuration
type Config struct {
	Provider            string        // gemini | openai | heuristic | mock
	Model               string        // e.g. "gemini-1.5-flash-latest", "gpt-4.1-mini"
	APIKey              string        // key for the selected provider
	BaseURL             string        // OpenAI-compatible override (default: https://api.openai.com/v1)
	Temperature         float64       // 0.0-1.0, lower = more deterministic
	MaxTokens           int           // max tokens in response
	Timeout             time.Duration // per-call timeout
	FallbackToHeuristic bool          // answer from the keyword classifier when the provider errors
}

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-1.5-flash-latest"
	DefaultOpenAIModel = "gpt-4.1-mini"
	defaultMaxTokens   = 1024
)
