package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driving"
)

// mockRetrieval is a mock implementation of driving.Retrieval.
type mockRetrieval struct {
	results []domain.ScoredDocument
	err     error
}

func (m *mockRetrieval) Search(_ context.Context, _ string, _ int) ([]domain.Document, error) {
	docs := make([]domain.Document, len(m.results))
	for i := range m.results {
		docs[i] = m.results[i].Document
	}
	return docs, m.err
}

func (m *mockRetrieval) SearchScored(_ context.Context, _ string, _ int) ([]domain.ScoredDocument, error) {
	return m.results, m.err
}

// mockTools is a mock implementation of driving.Tools that records its arguments.
type mockTools struct {
	hits     []driving.SemanticHit
	text     string
	lastK    int
	lastDays int
	start    time.Time
	end      time.Time
}

func (m *mockTools) TimelineSummary(_ context.Context, days int) string {
	m.lastDays = days
	return m.text
}

func (m *mockTools) TimelineSummaryRange(_ context.Context, start, end time.Time) string {
	m.start, m.end = start, end
	return m.text
}

func (m *mockTools) SemanticSearch(_ context.Context, _ string, k int) []driving.SemanticHit {
	m.lastK = k
	return m.hits
}

func (m *mockTools) EntriesSummaryRange(_ context.Context, start, end time.Time, k int) string {
	m.start, m.end, m.lastK = start, end, k
	return m.text
}

func (m *mockTools) MinePatterns(_ context.Context, windowDays int) string {
	m.lastDays = windowDays
	return m.text
}

// mockEntries is a mock implementation of driving.EntryService.
type mockEntries struct {
	docs []domain.Document
	doc  *domain.Document
	err  error
}

func (m *mockEntries) Add(_ context.Context, _, _ string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockEntries) Upsert(_ context.Context, _, _, _ string) (*domain.Document, bool, error) {
	return m.doc, true, m.err
}

func (m *mockEntries) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockEntries) List(_ context.Context, _ bool) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockEntries) Archive(_ context.Context, _ string) error {
	return m.err
}

func (m *mockEntries) ArchiveByURI(_ context.Context, _ string) error {
	return m.err
}

// mockCompletion is a mock implementation of driving.CompletionService.
type mockCompletion struct {
	reply    string
	err      error
	messages []domain.ChatMessage
}

func (m *mockCompletion) Complete(_ context.Context, messages []domain.ChatMessage, _ bool) (string, error) {
	m.messages = messages
	return m.reply, m.err
}

// newTestServer fills missing required ports with empty mocks.
func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Retrieval == nil {
		ports.Retrieval = &mockRetrieval{}
	}
	if ports.Tools == nil {
		ports.Tools = &mockTools{}
	}
	s, err := NewServer(ports)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}
