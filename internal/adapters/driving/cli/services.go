package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/journai/journai-core/internal/adapters/driven/ai"
	"github.com/journai/journai-core/internal/adapters/driven/config/file"
	"github.com/journai/journai-core/internal/adapters/driven/storage/sqlite"
	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
	"github.com/journai/journai-core/internal/core/services"
	"github.com/journai/journai-core/internal/logger"
	"github.com/journai/journai-core/internal/postprocessors"
)

// settingsManager is the settings surface the commands use.
type settingsManager interface {
	driving.SettingsService
	Unset(key string) error
	JournalDir() string
	GetSchedulerConfig() domain.SchedulerConfig
}

// Services used by the commands. They are built on first use so that
// settings and version work even when the store or remote services cannot
// be opened. Tests assign them directly.
var (
	settingsService   settingsManager
	entryService      driving.EntryService
	indexService      driving.Indexer
	retrievalService  driving.Retrieval
	toolsService      driving.Tools
	plannerService    driving.Planner
	completionService driving.CompletionService
	schedulerStore    driven.SchedulerStore

	closers []func()
)

// resolveDataDir returns --data-dir or ~/.journai.
func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".journai"), nil
}

// requireSettings builds the settings service over the TOML config file.
func requireSettings() error {
	if settingsService != nil {
		return nil
	}
	dir, err := resolveDataDir()
	if err != nil {
		return err
	}
	configStore, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())
	return nil
}

// requireServices wires the store, remote services and core services.
//
//nolint:funlen // Composition root, one block per service
func requireServices(_ context.Context) error {
	if entryService != nil {
		return nil
	}
	if err := requireSettings(); err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w. Run 'journai settings show' to inspect", err)
	}

	dir, err := resolveDataDir()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	closers = append(closers, func() { _ = store.Close() })
	if v, err := store.SchemaVersion(); err == nil {
		logger.Debug("store: %s (schema %d)", store.Path(), v)
	}

	remote := ai.Init(*settings)
	closers = append(closers, remote.Close)
	for _, w := range remote.Warnings {
		logger.Warn("%s", w)
	}

	registries := postprocessors.NewRegistries()
	postprocessors.RegisterDefaults(registries)
	toolkit, err := postprocessors.BuildToolkit(registries, settings.Index)
	if err != nil {
		return fmt.Errorf("building analyzers: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"), services.DefaultPrompts())
	if err != nil {
		return fmt.Errorf("opening prompts: %w", err)
	}

	docs := store.DocumentStore()

	indexer := services.NewIndexer(
		services.IndexerStores{
			Documents:  docs,
			Embeddings: store.EmbeddingStore(),
			Entities:   store.EntityStore(),
			Timeline:   store.TimelineStore(),
			Watermark:  store.WatermarkStore(),
		},
		services.IndexerAnalyzers{
			Chunker:  toolkit.Chunker,
			Entities: toolkit.Entities,
			Timeline: toolkit.Timeline,
		},
		remote.EmbeddingService,
		services.IndexerConfig{
			EntityMinFrequency: settings.Index.EntityMinFrequency,
			EntityTopN:         settings.Index.EntityTopN,
			TimelineMaxItems:   settings.Index.TimelineMaxItems,
			StrictWatermark:    settings.Index.StrictWatermark,
		},
	)

	retrieval := services.NewRetrieval(docs, store.EmbeddingStore(), remote.EmbeddingService, services.RetrievalConfig{
		RecallThreshold: settings.Retrieval.RecallThreshold,
		DefaultTopK:     settings.Retrieval.TopK,
	})

	tools := services.NewTools(retrieval, docs, store.TimelineStore(), store.EntityStore(), nil)

	planner := services.NewPlanner(remote.ChatService, tools)
	planner.SetPromptStore(prompts)

	completion := services.NewCompletion(remote.ChatService, planner, tools, services.CompletionConfig{
		MaxAttempts:    settings.Completion.MaxAttempts,
		InitialBackoff: settings.Completion.InitialBackoff,
	})
	completion.SetPromptStore(prompts)

	entryService = services.NewEntryService(docs, nil)
	indexService = indexer
	retrievalService = retrieval
	toolsService = tools
	plannerService = planner
	completionService = completion
	schedulerStore = store.SchedulerStore()
	return nil
}

// errNotConfigured reports a service the command needs but that is missing.
func errNotConfigured(name string) error {
	return errors.New(name + " not configured")
}

// closeServices releases the store and remote clients in reverse order.
func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}
