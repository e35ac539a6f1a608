package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clasificador/domain/classification"
	"clasificador/domain/vocabulary"
	apperrors "clasificador/internal/errors"
)

const validResponse = `{"CALIFICACION LEGAL":"HURTO","TENTATIVA":"SI"}`

func TestPipeline_EmptyData(t *testing.T) {
	pl := NewPipeline(new(MockClassifier), vocabulary.Default(), PipelineConfig{})

	report, err := pl.Run(context.Background(), &classification.InputGrid{Headers: []string{"relato"}}, newMemoryWriter())

	require.ErrorIs(t, err, ErrEmptyData)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
	assert.Contains(t, report.Log.String(), "vacío")
}

func TestPipeline_Pacing(t *testing.T) {
	classifier := new(MockClassifier)
	classifier.On("Classify", mock.Anything, mock.Anything).Return(validResponse, nil)
	pacer := &recordingPacer{}
	pl := NewPipeline(classifier, vocabulary.Default(), PipelineConfig{}, WithPacer(pacer))

	report, err := pl.Run(context.Background(), gridWithNarratives(101, func(int) string { return "hecho" }), newMemoryWriter())

	require.NoError(t, err)
	assert.Len(t, pacer.pauses, 2)
	assert.Equal(t, DefaultBatchPause, pacer.pauses[0])
	assert.Equal(t, 2, report.Pauses)
	assert.Contains(t, report.Log.String(), "Después de 50 filas")
	assert.Contains(t, report.Log.String(), "Después de 100 filas")
}

func TestPipeline_NoPauseAfterLastBatch(t *testing.T) {
	classifier := new(MockClassifier)
	classifier.On("Classify", mock.Anything, mock.Anything).Return(validResponse, nil)
	pacer := &recordingPacer{}
	pl := NewPipeline(classifier, vocabulary.Default(), PipelineConfig{BatchSize: 5}, WithPacer(pacer))

	_, err := pl.Run(context.Background(), gridWithNarratives(10, func(int) string { return "hecho" }), newMemoryWriter())

	require.NoError(t, err)
	assert.Len(t, pacer.pauses, 1)
}

func TestPipeline_EmptyRowsStillCountTowardsPacing(t *testing.T) {
	pacer := &recordingPacer{}
	pl := NewPipeline(new(MockClassifier), vocabulary.Default(), PipelineConfig{BatchSize: 2}, WithPacer(pacer))

	report, err := pl.Run(context.Background(), gridWithNarratives(5, func(int) string { return "" }), newMemoryWriter())

	require.NoError(t, err)
	assert.Equal(t, 5, report.Empty)
	assert.Len(t, pacer.pauses, 2)
}

func TestPipeline_RowIsolation(t *testing.T) {
	classifier := new(MockClassifier)
	classifier.On("Classify", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `Relato: "relato 4"`)
	})).Return("", errors.New("Error 503 backend unavailable"))
	classifier.On("Classify", mock.Anything, mock.Anything).Return(validResponse, nil)

	w := newMemoryWriter()
	pl := NewPipeline(classifier, vocabulary.Default(), PipelineConfig{}, WithPacer(&recordingPacer{}))
	report, err := pl.Run(context.Background(), gridWithNarratives(10, func(i int) string {
		return "relato " + string(rune('0'+i))
	}), w)

	require.NoError(t, err)
	assert.Equal(t, 10, report.Rows)
	assert.Equal(t, 9, report.Classified)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Failures[FailureUnavailable])
	require.Len(t, w.rows, 10)
	for i := 0; i < 10; i++ {
		_, ok := w.rows[3+i]
		assert.True(t, ok, "row %d missing", 3+i)
	}

	calif := headerIndex("CALIFICACIÓN")
	assert.Equal(t, vocabulary.NingunoDeInteres, w.rows[7][calif], "failed row gets defaults")
	assert.Equal(t, "HURTO", w.rows[8][calif])
	assert.Contains(t, report.Log.String(), "PROCESAMIENTO EN BACKEND FINALIZADO (10 filas)")
}

func TestPipeline_Deterministic(t *testing.T) {
	run := func() map[int][]string {
		classifier := new(MockClassifier)
		classifier.On("Classify", mock.Anything, mock.Anything).Return(validResponse, nil)
		w := newMemoryWriter()
		pl := NewPipeline(classifier, vocabulary.Default(), PipelineConfig{}, WithPacer(&recordingPacer{}))
		_, err := pl.Run(context.Background(), gridWithNarratives(3, func(int) string { return "x" }), w)
		require.NoError(t, err)
		return w.rows
	}
	assert.Equal(t, run(), run())
}

func TestPipeline_WriteFailureAborts(t *testing.T) {
	classifier := new(MockClassifier)
	classifier.On("Classify", mock.Anything, mock.Anything).Return(validResponse, nil)
	w := newMemoryWriter()
	w.failAt = 5

	pl := NewPipeline(classifier, vocabulary.Default(), PipelineConfig{}, WithPacer(&recordingPacer{}))
	report, err := pl.Run(context.Background(), gridWithNarratives(6, func(int) string { return "x" }), w)

	require.Error(t, err)
	assert.Equal(t, 2, report.Rows)
	assert.NotContains(t, report.Log.String(), "FINALIZADO")
}

func TestPipeline_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pl := NewPipeline(new(MockClassifier), vocabulary.Default(), PipelineConfig{})
	_, err := pl.Run(ctx, gridWithNarratives(2, func(int) string { return "x" }), newMemoryWriter())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
