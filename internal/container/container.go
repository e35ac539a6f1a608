package container

import (
	"context"
	"fmt"

	"clasificador/adapters/excel"
	"clasificador/adapters/llm"
	"clasificador/app"
	"clasificador/domain/vocabulary"
	"clasificador/internal"
	"clasificador/internal/config"
	"clasificador/internal/usage"
	"clasificador/ports"
	"clasificador/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Registry   *vocabulary.Registry
	Classifier ports.Classifier
	Pipeline   *app.Pipeline
	Reader     *excel.DataReader
	Usage      *usage.Service
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:   cfg,
		Logger:   internal.NewLoggerWithFormat(internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format),
		Registry: vocabulary.Default(),
		Usage:    usage.NewService(),
	}
	c.Reader = excel.NewDataReader(c.Logger)

	if err := c.initClassifier(ctx); err != nil {
		return nil, err
	}
	c.initPipeline()
	return c, nil
}

// LLMConfig translates the AI section into adapter configuration.
func LLMConfig(ai config.AIConfig) llm.Config {
	return llm.Config{
		Provider:            ai.Provider,
		Model:               ai.Model(),
		APIKey:              ai.APIKey(),
		BaseURL:             ai.BaseURL,
		Temperature:         ai.Temperature,
		MaxTokens:           ai.MaxTokens,
		Timeout:             ai.Timeout,
		FallbackToHeuristic: ai.FallbackToHeuristic,
	}
}

func (c *Container) initClassifier(ctx context.Context) error {
	classifier, err := llm.NewClassifier(ctx, LLMConfig(c.Config.AI), c.Registry, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create classifier: %w", err)
	}
	c.Classifier = usage.Track(classifier, c.Usage)
	return nil
}

func (c *Container) initPipeline() {
	c.Pipeline = app.NewPipeline(c.Classifier, c.Registry, app.PipelineConfig{
		BatchSize:  c.Config.Batch.Size,
		BatchPause: c.Config.Batch.Pause,
	}, app.WithPipelineLogger(c.Logger))
}

// Server builds the HTTP server over the container's pipeline.
func (c *Container) Server() *ui.Server {
	return ui.NewServer(c.Config.Server, c.Pipeline, c.Logger, ui.WithUsage(c.Usage))
}

// Shutdown flushes buffered log output.
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.Sync()
	return nil
}
