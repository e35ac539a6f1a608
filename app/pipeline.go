package app

import (
	"context"
	"time"

	"clasificador/domain/classification"
	"clasificador/domain/core"
	"clasificador/domain/vocabulary"
	"clasificador/internal"
	"clasificador/internal/errors"
	"clasificador/ports"
)

const (
	DefaultBatchSize  = 50
	DefaultBatchPause = 500 * time.Millisecond
)

// ErrEmptyData is returned when the data sheet has no data rows.
var ErrEmptyData = errors.InvalidInput("El archivo de datos está vacío o no tiene filas válidas.")

// PipelineConfig tunes pacing. Zero values fall back to the defaults.
type PipelineConfig struct {
	BatchSize  int
	BatchPause time.Duration
}

// BatchReport summarizes one run. Log is always set, also on failure.
type BatchReport struct {
	ID             core.BatchID
	Rows           int
	Classified     int
	Failed         int
	Empty          int
	Pauses         int
	Failures       map[FailureKind]int
	VocabularyHash core.VocabularyHash
	Log            *classification.LogEntries
	Duration       time.Duration
}

// Pipeline classifies every row of a grid, in order, into a destination sheet.
type Pipeline struct {
	classifier ports.Classifier
	registry   *vocabulary.Registry
	failures   FailureRules
	pacer      Pacer
	cfg        PipelineConfig
	logger     *internal.Logger
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithPacer replaces the sleep between batches; tests inject a recorder.
func WithPacer(p Pacer) PipelineOption {
	return func(pl *Pipeline) { pl.pacer = p }
}

// WithPipelineLogger sets the operational logger.
func WithPipelineLogger(l *internal.Logger) PipelineOption {
	return func(pl *Pipeline) { pl.logger = l }
}

// NewPipeline creates a pipeline over classifier and registry.
func NewPipeline(classifier ports.Classifier, registry *vocabulary.Registry, cfg PipelineConfig, opts ...PipelineOption) *Pipeline {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchPause <= 0 {
		cfg.BatchPause = DefaultBatchPause
	}
	pl := &Pipeline{
		classifier: classifier,
		registry:   registry,
		failures:   DefaultFailureRules(),
		pacer:      SleepPacer{},
		cfg:        cfg,
		logger:     internal.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// Run processes input into dest. Rows are strictly sequential with one
// classification call in flight. Only a destination write failure, a pacing
// failure or a cancelled ctx stop the batch; the partial report is returned with
// the error.
func (pl *Pipeline) Run(ctx context.Context, input *classification.InputGrid, dest ports.RowWriter) (*BatchReport, error) {
	start := time.Now()
	report := &BatchReport{
		ID:             core.NewBatchID(),
		Failures:       make(map[FailureKind]int),
		VocabularyHash: core.ComputeVocabularyHash(pl.registry.Snapshot()),
		Log:            classification.NewLogEntries(),
	}
	log := report.Log
	defer func() { report.Duration = time.Since(start) }()

	if input == nil || len(input.Rows) == 0 {
		log.Append("ERROR: " + ErrEmptyData.Message)
		return report, ErrEmptyData
	}

	logger := pl.logger.Named("pipeline")
	logger.Info("batch %s started: %d rows, batch size %d", report.ID, len(input.Rows), pl.cfg.BatchSize)

	narratives := NewNarrativeLocator(input.Headers)
	logger.Debug("batch %s narrative columns: %v", report.ID, narratives.Columns())
	processor := NewRowProcessor(pl.classifier, pl.registry,
		WithFailureRules(pl.failures),
		WithLogger(logger),
		WithNarrativeLocator(narratives),
	)

	total := len(input.Rows)
	for i, row := range input.Rows {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrapf(err, "batch cancelled at row %d", classification.SheetRowNumber(i))
		}

		res, err := processor.Run(ctx, row, i, dest, log)
		if err != nil {
			logger.Error("batch %s aborted: %v", report.ID, err)
			return report, err
		}
		report.Rows++
		switch res.Outcome {
		case RowClassified:
			report.Classified++
		case RowClassificationFailed:
			report.Failed++
			report.Failures[res.FailureKind]++
		case RowEmpty:
			report.Empty++
		}

		done := i + 1
		if done%pl.cfg.BatchSize == 0 && done < total {
			log.Appendf("\n[ PAUSA: Esperando %g segundos para respetar la cuota de la API. (Después de %d filas) ]\n\n",
				pl.cfg.BatchPause.Seconds(), done)
			if err := pl.pacer.Pause(ctx, pl.cfg.BatchPause); err != nil {
				return report, errors.Wrapf(err, "pause after %d rows", done)
			}
			report.Pauses++
		}
	}

	log.Append("\n=================================================================\n")
	log.Appendf("= PROCESAMIENTO EN BACKEND FINALIZADO (%d filas) =\n", total)
	log.Append("=================================================================\n")

	logger.Info("batch %s finished: classified=%d failed=%d empty=%d log_lines=%d in %s",
		report.ID, report.Classified, report.Failed, report.Empty, log.Len(), time.Since(start))
	return report, nil
}
