package services

import (
	"context"
	"sync"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
)

// fakeEmbedder returns fixed vectors per text, or a length-derived vector
// for unknown texts.
type fakeEmbedder struct {
	mu      sync.Mutex
	model   string
	vectors map[string][]float32
	err     error
	calls   int
	batches [][]string
	block   chan struct{}
	entered chan struct{}
}

func newFakeEmbedder(model string) *fakeEmbedder {
	return &fakeEmbedder{model: model, vectors: make(map[string][]float32)}
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) (domain.EmbedResult, error) {
	f.mu.Lock()
	f.calls++
	f.batches = append(f.batches, append([]string(nil), texts...))
	entered, block := f.entered, f.block
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if f.err != nil {
		return domain.EmbedResult{}, f.err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
			continue
		}
		out[i] = []float32{float32(len(text)), 1, 0}
	}
	return domain.EmbedResult{ModelID: f.model, Vectors: out}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeEmbedder) ModelName() string            { return f.model }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

// chatReply is one scripted chat response.
type chatReply struct {
	text string
	err  error
}

// scriptedChat replays replies in order, repeating the last one.
type scriptedChat struct {
	mu      sync.Mutex
	replies []chatReply
	calls   [][]domain.ChatMessage
	options []driven.ChatOptions
}

func (s *scriptedChat) Chat(_ context.Context, messages []domain.ChatMessage, opts driven.ChatOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, append([]domain.ChatMessage(nil), messages...))
	s.options = append(s.options, opts)
	if len(s.replies) == 0 {
		return "", nil
	}
	i := len(s.calls) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i].text, s.replies[i].err
}

func (s *scriptedChat) ModelName() string            { return "scripted" }
func (s *scriptedChat) Ping(_ context.Context) error { return nil }
func (s *scriptedChat) Close() error                 { return nil }

// recordingTools implements driving.Tools with canned output.
type recordingTools struct {
	mu       sync.Mutex
	calls    []string
	timeline string
	ranged   string
	entries  string
	patterns string
	hits     []driving.SemanticHit
}

func (r *recordingTools) record(name string) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
}

func (r *recordingTools) TimelineSummary(_ context.Context, _ int) string {
	r.record("timelineSummary")
	return r.timeline
}

func (r *recordingTools) TimelineSummaryRange(_ context.Context, _, _ time.Time) string {
	r.record("timelineSummaryRange")
	return r.ranged
}

func (r *recordingTools) SemanticSearch(_ context.Context, _ string, _ int) []driving.SemanticHit {
	r.record("semanticSearch")
	return r.hits
}

func (r *recordingTools) EntriesSummaryRange(_ context.Context, _, _ time.Time, _ int) string {
	r.record("entriesSummaryRange")
	return r.entries
}

func (r *recordingTools) MinePatterns(_ context.Context, _ int) string {
	r.record("minePatterns")
	return r.patterns
}

// recordingSleeper captures backoff delays without waiting.
type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

// countingEmbeddingStore counts cold-start lookups.
type countingEmbeddingStore struct {
	driven.EmbeddingStore
	mu       sync.Mutex
	allCalls int
}

func (c *countingEmbeddingStore) ListAll(ctx context.Context) ([]domain.EmbeddingRecord, error) {
	c.mu.Lock()
	c.allCalls++
	c.mu.Unlock()
	return c.EmbeddingStore.ListAll(ctx)
}

var (
	_ driven.EmbeddingService = (*fakeEmbedder)(nil)
	_ driven.ChatService      = (*scriptedChat)(nil)
	_ driving.Tools           = (*recordingTools)(nil)
)
