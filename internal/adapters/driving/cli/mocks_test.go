package cli

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/journai/journai-core/internal/adapters/driven/storage/memory"
	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driving"
	"github.com/journai/journai-core/internal/core/services"
)

var testNow = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

// mockIndexer is a mock implementation of driving.Indexer.
type mockIndexer struct {
	report *domain.IndexReport
	err    error
	calls  int
}

func (m *mockIndexer) RunIndexPass(_ context.Context) (*domain.IndexReport, error) {
	m.calls++
	return m.report, m.err
}

// mockRetrieval is a mock implementation of driving.Retrieval.
type mockRetrieval struct {
	results []domain.ScoredDocument
	err     error
	topK    int
}

func (m *mockRetrieval) Search(ctx context.Context, query string, topK int) ([]domain.Document, error) {
	scored, err := m.SearchScored(ctx, query, topK)
	docs := make([]domain.Document, len(scored))
	for i := range scored {
		docs[i] = scored[i].Document
	}
	return docs, err
}

func (m *mockRetrieval) SearchScored(_ context.Context, _ string, topK int) ([]domain.ScoredDocument, error) {
	m.topK = topK
	return m.results, m.err
}

// mockTools is a mock implementation of driving.Tools.
type mockTools struct {
	timeline string
	entries  string
	patterns string
	days     int
	start    time.Time
	end      time.Time
	k        int
}

func (m *mockTools) TimelineSummary(_ context.Context, days int) string {
	m.days = days
	return m.timeline
}

func (m *mockTools) TimelineSummaryRange(_ context.Context, start, end time.Time) string {
	m.start, m.end = start, end
	return m.timeline
}

func (m *mockTools) SemanticSearch(_ context.Context, _ string, _ int) []driving.SemanticHit {
	return nil
}

func (m *mockTools) EntriesSummaryRange(_ context.Context, start, end time.Time, k int) string {
	m.start, m.end, m.k = start, end, k
	return m.entries
}

func (m *mockTools) MinePatterns(_ context.Context, windowDays int) string {
	m.days = windowDays
	return m.patterns
}

// mockPlanner is a mock implementation of driving.Planner.
type mockPlanner struct {
	context  string
	question string
}

func (m *mockPlanner) PlanAndGather(_ context.Context, question string) string {
	m.question = question
	return m.context
}

// mockCompletion is a mock implementation of driving.CompletionService.
// It answers with the reply and records every conversation it was given.
type mockCompletion struct {
	reply    string
	err      error
	useCache bool
	calls    [][]domain.ChatMessage
}

func (m *mockCompletion) Complete(_ context.Context, messages []domain.ChatMessage, useCache bool) (string, error) {
	m.calls = append(m.calls, append([]domain.ChatMessage(nil), messages...))
	m.useCache = useCache
	return m.reply, m.err
}

// testServices holds the services installed by setupTestServices.
type testServices struct {
	settings   *services.SettingsService
	entries    *services.EntryService
	indexer    *mockIndexer
	retrieval  *mockRetrieval
	tools      *mockTools
	planner    *mockPlanner
	completion *mockCompletion
	scheduler  *memory.SchedulerStore
}

// setupTestServices installs in-memory and mock services and returns a
// cleanup function that restores the previous ones and resets flags.
func setupTestServices() (*testServices, func()) {
	settings := services.NewSettingsService(memory.NewConfigStore(), nil)
	settings.SetEnvLookup(func(string) (string, bool) { return "", false })

	ts := &testServices{
		settings:   settings,
		entries:    services.NewEntryService(memory.NewDocumentStore(), func() time.Time { return testNow }),
		indexer:    &mockIndexer{report: &domain.IndexReport{StartedAt: testNow, WatermarkAdvanced: true}},
		retrieval:  &mockRetrieval{},
		tools:      &mockTools{},
		planner:    &mockPlanner{},
		completion: &mockCompletion{reply: "You went running twice."},
		scheduler:  memory.NewSchedulerStore(),
	}

	oldSettings, oldEntries, oldIndex := settingsService, entryService, indexService
	oldRetrieval, oldTools, oldPlanner := retrievalService, toolsService, plannerService
	oldCompletion, oldScheduler := completionService, schedulerStore

	settingsService = ts.settings
	entryService = ts.entries
	indexService = ts.indexer
	retrievalService = ts.retrieval
	toolsService = ts.tools
	plannerService = ts.planner
	completionService = ts.completion
	schedulerStore = ts.scheduler

	return ts, func() {
		settingsService, entryService, indexService = oldSettings, oldEntries, oldIndex
		retrievalService, toolsService, plannerService = oldRetrieval, oldTools, oldPlanner
		completionService, schedulerStore = oldCompletion, oldScheduler
		resetFlags()
	}
}

// resetFlags restores flag variables that persist between Execute calls.
func resetFlags() {
	entryTitle, entryArchived = "", false
	indexJSON = false
	searchLimit, searchJSON = domain.DefaultTopK, false
	timelineDays, patternDays = domain.DefaultTimelineDays, 30
	toolsFrom, toolsTo, toolsEntries, toolsLimit = "", "", false, 10
	askNoCache = false
}

// execute runs the root command with args and stdin, returning combined output.
func execute(stdin io.Reader, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
