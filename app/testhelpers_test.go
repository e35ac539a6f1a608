package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"clasificador/domain/classification"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// memoryWriter records rows by destination index.
type memoryWriter struct {
	mu     sync.Mutex
	rows   map[int][]string
	failAt int
}

func newMemoryWriter() *memoryWriter {
	return &memoryWriter{rows: make(map[int][]string)}
}

func (w *memoryWriter) WriteRow(row int, values []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failAt != 0 && row == w.failAt {
		return fmt.Errorf("sheet is read-only")
	}
	w.rows[row] = append([]string(nil), values...)
	return nil
}

type recordingPacer struct {
	pauses []time.Duration
}

func (p *recordingPacer) Pause(_ context.Context, d time.Duration) error {
	p.pauses = append(p.pauses, d)
	return nil
}

func gridWithNarratives(n int, narrative func(i int) string) *classification.InputGrid {
	g := &classification.InputGrid{Headers: []string{"id_hecho", "relato", "calle"}}
	for i := 0; i < n; i++ {
		g.Rows = append(g.Rows, classification.InputRow{
			"id_hecho": fmt.Sprintf("H-%d", i),
			"relato":   narrative(i),
			"calle":    "Av. Mitre",
		})
	}
	return g
}
