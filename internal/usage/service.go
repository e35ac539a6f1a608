package usage

import (
	"context"
	"sort"
	"sync"
	"time"

	"clasificador/ports"
)

// Record is one classification call.
type Record struct {
	Provider      string
	Model         string
	PromptChars   int
	ResponseChars int
	Elapsed       time.Duration
	Failed        bool
}

// ModelUsage aggregates calls for one provider/model pair.
type ModelUsage struct {
	Provider      string        `json:"provider"`
	Model         string        `json:"model"`
	RequestCount  int           `json:"request_count"`
	FailureCount  int           `json:"failure_count"`
	PromptChars   int           `json:"prompt_chars"`
	ResponseChars int           `json:"response_chars"`
	TotalLatency  time.Duration `json:"total_latency_ns"`
	MaxLatency    time.Duration `json:"max_latency_ns"`
	AvgLatency    time.Duration `json:"avg_latency_ns"`
}

// AverageLatency is TotalLatency over RequestCount.
func (m ModelUsage) AverageLatency() time.Duration {
	if m.RequestCount == 0 {
		return 0
	}
	return m.TotalLatency / time.Duration(m.RequestCount)
}

// Summary is a point-in-time copy of the counters.
type Summary struct {
	Since        time.Time    `json:"since"`
	RequestCount int          `json:"request_count"`
	FailureCount int          `json:"failure_count"`
	ByModel      []ModelUsage `json:"by_model"`
}

// Service keeps process-lifetime counters of classifier usage. Nothing is
// persisted; counters reset on restart.
type Service struct {
	mu      sync.Mutex
	since   time.Time
	byModel map[string]*ModelUsage
}

// NewService creates a new usage service
func NewService() *Service {
	return &Service{
		since:   time.Now(),
		byModel: make(map[string]*ModelUsage),
	}
}

// RecordUsage adds one call to the counters.
func (s *Service) RecordUsage(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := r.Provider + "/" + r.Model
	m, ok := s.byModel[key]
	if !ok {
		m = &ModelUsage{Provider: r.Provider, Model: r.Model}
		s.byModel[key] = m
	}
	m.RequestCount++
	if r.Failed {
		m.FailureCount++
	}
	m.PromptChars += r.PromptChars
	m.ResponseChars += r.ResponseChars
	m.TotalLatency += r.Elapsed
	if r.Elapsed > m.MaxLatency {
		m.MaxLatency = r.Elapsed
	}
}

// Summary returns the counters sorted by provider and model.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{Since: s.since, ByModel: make([]ModelUsage, 0, len(s.byModel))}
	for _, m := range s.byModel {
		sum.RequestCount += m.RequestCount
		sum.FailureCount += m.FailureCount
		u := *m
		u.AvgLatency = u.AverageLatency()
		sum.ByModel = append(sum.ByModel, u)
	}
	sort.Slice(sum.ByModel, func(i, j int) bool {
		if sum.ByModel[i].Provider != sum.ByModel[j].Provider {
			return sum.ByModel[i].Provider < sum.ByModel[j].Provider
		}
		return sum.ByModel[i].Model < sum.ByModel[j].Model
	})
	return sum
}

// Tracker is a Classifier that records every call it forwards.
type Tracker struct {
	next     ports.Classifier
	svc      *Service
	provider string
	model    string
}

// Track wraps next. Provider and model come from next when it reports them.
func Track(next ports.Classifier, svc *Service) *Tracker {
	t := &Tracker{next: next, svc: svc, provider: "unknown", model: "unknown"}
	if info, ok := next.(ports.ClassifierInfo); ok {
		t.provider = info.Provider()
		t.model = info.Model()
	}
	return t
}

func (t *Tracker) Classify(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := t.next.Classify(ctx, prompt)
	t.svc.RecordUsage(Record{
		Provider:      t.provider,
		Model:         t.model,
		PromptChars:   len([]rune(prompt)),
		ResponseChars: len([]rune(text)),
		Elapsed:       time.Since(start),
		Failed:        err != nil,
	})
	return text, err
}

func (t *Tracker) Provider() string { return t.provider }
func (t *Tracker) Model() string    { return t.model }
