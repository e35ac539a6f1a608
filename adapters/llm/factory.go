package llm

import (
	"context"
	"fmt"
	"strings"

	"clasificador/adapters/llm/heuristic"
	"clasificador/domain/vocabulary"
	"clasificador/internal"
	"clasificador/ports"
)

// NewClassifier builds the classifier selected by config.Provider. With
// FallbackToHeuristic set, provider errors are answered by the keyword classifier.
func NewClassifier(ctx context.Context, config Config, registry *vocabulary.Registry, logger *internal.Logger) (ports.Classifier, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	logger = logger.Named("llm")

	var primary ports.Classifier
	switch strings.ToLower(strings.TrimSpace(config.Provider)) {
	case ProviderGemini, "":
		g, err := NewGeminiClassifier(ctx, config)
		if err != nil {
			return nil, err
		}
		primary = g
	case ProviderOpenAI:
		client, err := newLLMClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		primary = NewOpenAIClassifier(client, config.Model, config.MaxTokens)
	case ProviderHeuristic:
		return heuristic.NewClassifier(registry), nil
	case ProviderMock:
		return &MockLLMClient{}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", config.Provider)
	}

	if info, ok := primary.(ports.ClassifierInfo); ok {
		logger.Info("classifier ready: provider=%s model=%s fallback=%t", info.Provider(), info.Model(), config.FallbackToHeuristic)
	}
	if config.FallbackToHeuristic {
		return NewFallbackClassifier(primary, heuristic.NewClassifier(registry), logger), nil
	}
	return primary, nil
}

// FallbackClassifier asks primary first and falls back on any error.
type FallbackClassifier struct {
	primary  ports.Classifier
	fallback ports.Classifier
	logger   *internal.Logger
}

// NewFallbackClassifier chains two classifiers.
func NewFallbackClassifier(primary, fallback ports.Classifier, logger *internal.Logger) *FallbackClassifier {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &FallbackClassifier{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	text, err := f.primary.Classify(ctx, prompt)
	if err == nil {
		return text, nil
	}
	f.logger.Warn("primary classifier failed, using fallback: %v", err)
	return f.fallback.Classify(ctx, prompt)
}
