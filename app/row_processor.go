package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clasificador/ai"
	"clasificador/domain/classification"
	"clasificador/domain/core"
	"clasificador/domain/vocabulary"
	"clasificador/internal"
	"clasificador/internal/errors"
	"clasificador/ports"
)

// RowState is the lifecycle of one data row.
type RowState int

const (
	RowEmpty RowState = iota
	RowClassified
	RowClassificationFailed
	RowDone
)

func (s RowState) String() string {
	switch s {
	case RowEmpty:
		return "empty"
	case RowClassified:
		return "classified"
	case RowClassificationFailed:
		return "classification_failed"
	case RowDone:
		return "done"
	default:
		return "unknown"
	}
}

const (
	excerptLength = 150
	rowSeparator  = "-----------------------------------------------------------------"
)

// RowResult is the outcome of classifying one row. Outcome keeps the state the
// row reached before it was written; State becomes RowDone after a write.
type RowResult struct {
	Index          int
	State          RowState
	Outcome        RowState
	Narrative      string
	Validated      classification.Validated
	FailureKind    FailureKind
	FailureMessage string
	PromptHash     core.PromptHash
	Elapsed        time.Duration
}

// RowProcessor turns one InputRow into one output row.
type RowProcessor struct {
	classifier ports.Classifier
	prompts    *ai.PromptBuilder
	validator  *classification.Validator
	registry   *vocabulary.Registry
	failures   FailureRules
	narratives NarrativeLocator
	logger     *internal.Logger
}

// RowProcessorOption customizes a RowProcessor.
type RowProcessorOption func(*RowProcessor)

// WithFailureRules replaces the default failure table.
func WithFailureRules(rules FailureRules) RowProcessorOption {
	return func(p *RowProcessor) { p.failures = rules }
}

// WithLogger sets the operational logger.
func WithLogger(l *internal.Logger) RowProcessorOption {
	return func(p *RowProcessor) { p.logger = l }
}

// WithNarrativeLocator overrides narrative column detection.
func WithNarrativeLocator(n NarrativeLocator) RowProcessorOption {
	return func(p *RowProcessor) { p.narratives = n }
}

// NewRowProcessor wires a processor over the given registry.
func NewRowProcessor(classifier ports.Classifier, registry *vocabulary.Registry, opts ...RowProcessorOption) *RowProcessor {
	p := &RowProcessor{
		classifier: classifier,
		prompts:    ai.NewPromptBuilder(registry),
		validator:  classification.NewValidator(registry, vocabulary.DefaultFieldMap()),
		registry:   registry,
		failures:   DefaultFailureRules(),
		narratives: NewNarrativeLocator(nil),
		logger:     internal.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process classifies row index. Capability and decode failures are absorbed
// into the result and the diagnostic log; Process never returns an error.
func (p *RowProcessor) Process(ctx context.Context, row classification.InputRow, index int, log *classification.LogEntries) RowResult {
	start := time.Now()
	res := RowResult{Index: index}

	id := strings.TrimSpace(row["id_hecho"])
	if id == "" {
		id = "N/A"
	}
	log.Appendf("\n--- PROCESANDO FILA %d (ID Original: %s) ---\n", classification.SheetRowNumber(index), id)

	res.Narrative = p.narratives.Extract(row)
	log.Appendf("  Relato Original (Extracto): '%s'\n", excerpt(res.Narrative))

	if res.Narrative == "" {
		log.Append("  >>> RESULTADO: RELATO VACÍO - Clasificación por defecto aplicada. <<<\n")
		res.State = RowEmpty
		res.Outcome = RowEmpty
		res.Elapsed = time.Since(start)
		return res
	}

	prompt := p.prompts.Build(res.Narrative)
	res.PromptHash = core.NewPromptHash(prompt)

	text, err := p.classifier.Classify(ctx, prompt)
	if err != nil {
		res.FailureKind, res.FailureMessage = p.failures.Describe(err)
		p.logger.Warn("row %d classification failed (%s): %v", index, res.FailureKind,
			errors.ExternalServiceError("classifier", err))
		log.Appendf("    [!!!] ERROR GENERAL EN IA: %s. No se pudo clasificar esta fila.\n", res.FailureMessage)
		res.State = RowClassificationFailed
		res.Outcome = RowClassificationFailed
		res.Elapsed = time.Since(start)
		return res
	}

	log.Appendf("  Respuesta Cruda de IA (para depuración):\n  '%s'\n", ai.EscapeForLog(text))
	raw := ai.ParseClassification(text, log)
	res.Validated = p.validator.Validate(raw, log)
	log.Append("  >>> RESULTADO: Procesado con IA. <<<\n")

	res.State = RowClassified
	res.Outcome = RowClassified
	res.Elapsed = time.Since(start)
	p.logger.Trace("row %d classified in %s prompt=%s", index, res.Elapsed, core.Hash(res.PromptHash).Short())
	return res
}

// Finalize resolves every output column for res. Column priority: validated
// classification, then the input value when the header exists in the row, then
// the narrative for the narrative column, then the default record. A failed row
// always carries its narrative, even when it was read from another column.
func (p *RowProcessor) Finalize(res RowResult, row classification.InputRow) classification.OutputRow {
	out := make(classification.OutputRow, len(vocabulary.OutputHeaders))

	if res.Outcome == RowEmpty {
		for i, h := range vocabulary.OutputHeaders {
			if h == vocabulary.NarrativeHeader {
				out[i] = res.Narrative
				continue
			}
			out[i] = p.registry.DefaultFor(h)
		}
		return out
	}

	for i, h := range vocabulary.OutputHeaders {
		if res.Outcome == RowClassified {
			if v, ok := res.Validated[h]; ok {
				out[i] = v
				continue
			}
		}
		if h == vocabulary.NarrativeHeader && res.Outcome == RowClassificationFailed {
			out[i] = res.Narrative
			continue
		}
		if v, ok := row.Get(h); ok {
			out[i] = v
			continue
		}
		if h == vocabulary.NarrativeHeader {
			out[i] = res.Narrative
			continue
		}
		out[i] = p.registry.DefaultFor(h)
	}
	return out
}

// Run processes, finalizes and writes row index at its destination row. The
// returned error is non-nil only when the destination write fails.
func (p *RowProcessor) Run(ctx context.Context, row classification.InputRow, index int, dest ports.RowWriter, log *classification.LogEntries) (RowResult, error) {
	res := p.Process(ctx, row, index, log)
	values := p.Finalize(res, row)

	if err := dest.WriteRow(classification.DestinationRow(index), values); err != nil {
		return res, errors.Wrapf(err, "writing row %d", classification.DestinationRow(index))
	}

	switch res.Outcome {
	case RowClassified:
		log.Appendf("  Clasificación Final (IA + Originales):\n%s\n", dumpClassification(res.Validated))
		log.Append(rowSeparator + "\n")
	case RowClassificationFailed:
		log.Appendf("  Clasificación Final (Usando solo Originales y Defaults):\n%s\n", dumpClassification(p.defaultClassification()))
		log.Append(rowSeparator + "\n")
	}

	res.State = RowDone
	return res, nil
}

func (p *RowProcessor) defaultClassification() classification.Validated {
	out := make(classification.Validated, len(vocabulary.ClassificationKeys))
	for _, k := range vocabulary.ClassificationKeys {
		out[k] = p.registry.DefaultFor(k)
	}
	return out
}

func dumpClassification(v classification.Validated) string {
	lines := make([]string, 0, len(vocabulary.ClassificationKeys)+2)
	lines = append(lines, "{")
	for i, k := range vocabulary.ClassificationKeys {
		sep := ","
		if i == len(vocabulary.ClassificationKeys)-1 {
			sep = ""
		}
		lines = append(lines, fmt.Sprintf("  %q: %q%s", k, v[k], sep))
	}
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLength {
		return s
	}
	return string(r[:excerptLength]) + "..."
}
