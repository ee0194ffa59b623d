package domain

import (
	"errors"
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a remote service provider for embeddings or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderProxy is the JournAI relay in front of the vendor APIs.
	AIProviderProxy AIProvider = "proxy"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API (chat only).
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderProxy, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbeddings returns true if the provider can embed text.
func (p AIProvider) SupportsEmbeddings() bool {
	return p != AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderProxy:
		return "JournAI proxy"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// ServiceSettings configures one remote service (embedding or chat).
type ServiceSettings struct {
	// Provider is the service provider.
	Provider AIProvider

	// Model is the model name. Empty uses the adapter default; the proxy
	// chooses its own model.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key or proxy bearer token.
	APIKey string
}

// IsConfigured returns true if the provider is set up.
func (s ServiceSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings tunes the index pass.
type IndexSettings struct {
	// ChunkTarget is the preferred chunk size in characters.
	ChunkTarget int

	// ChunkMax is the hard cap for a single oversized paragraph segment.
	ChunkMax int

	// EntityMinFrequency is the minimum number of mentions for an entity to be linked.
	EntityMinFrequency int

	// EntityTopN caps the number of linked entities per entry.
	EntityTopN int

	// TimelineMaxItems caps the number of timeline items per entry.
	TimelineMaxItems int

	// StrictWatermark only advances the watermark when no entry failed.
	StrictWatermark bool

	// EntityExtractor names the registered entity extraction strategy.
	EntityExtractor string

	// TimelineExtractor names the registered timeline extraction strategy.
	TimelineExtractor string
}

// RetrievalSettings tunes semantic search.
type RetrievalSettings struct {
	// RecallThreshold is the minimum similarity for a match.
	RecallThreshold float32

	// TopK is the default number of results.
	TopK int

	// QueryCacheSize is the number of query embeddings kept in memory.
	QueryCacheSize int
}

// CompletionSettings tunes the chat retry loop.
type CompletionSettings struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// RemoteSettings bounds the request rate to remote services.
type RemoteSettings struct {
	RequestsPerSecond float64
	Burst             int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding  ServiceSettings
	LLM        ServiceSettings
	Index      IndexSettings
	Retrieval  RetrievalSettings
	Completion CompletionSettings
	Remote     RemoteSettings

	// Blacklist holds privacy redaction rules for outgoing text.
	Blacklist []BlacklistItem

	// IndexInterval is how often the scheduler runs an index pass.
	IndexInterval time.Duration
}

// Default settings values.
const (
	DefaultProxyURL           = "http://localhost:8787"
	DefaultChunkTarget        = 1800
	DefaultChunkMax           = 2400
	DefaultEntityMinFrequency = 2
	DefaultEntityTopN         = 15
	DefaultTimelineMaxItems   = 5
	DefaultRecallThreshold    = 0.05
	DefaultTopK               = 5
	DefaultQueryCacheSize     = 256
	DefaultMaxAttempts        = 3
	DefaultInitialBackoff     = 500 * time.Millisecond
	DefaultRequestsPerSecond  = 5.0
	DefaultBurst              = 10
	DefaultIndexInterval      = 15 * time.Minute
	DefaultExtractor          = "heuristic"
)

// DefaultAppSettings returns settings pointing both services at a local proxy.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: ServiceSettings{Provider: AIProviderProxy, BaseURL: DefaultProxyURL},
		LLM:       ServiceSettings{Provider: AIProviderProxy, BaseURL: DefaultProxyURL},
		Index: IndexSettings{
			ChunkTarget:        DefaultChunkTarget,
			ChunkMax:           DefaultChunkMax,
			EntityMinFrequency: DefaultEntityMinFrequency,
			EntityTopN:         DefaultEntityTopN,
			TimelineMaxItems:   DefaultTimelineMaxItems,
			EntityExtractor:    DefaultExtractor,
			TimelineExtractor:  DefaultExtractor,
		},
		Retrieval: RetrievalSettings{
			RecallThreshold: DefaultRecallThreshold,
			TopK:            DefaultTopK,
			QueryCacheSize:  DefaultQueryCacheSize,
		},
		Completion: CompletionSettings{
			MaxAttempts:    DefaultMaxAttempts,
			InitialBackoff: DefaultInitialBackoff,
		},
		Remote: RemoteSettings{
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
		},
		IndexInterval: DefaultIndexInterval,
	}
}

// Validate checks the settings for values the pipeline cannot run with.
// All problems are reported together.
func (s AppSettings) Validate() error {
	var errs []error
	if !s.Embedding.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("embedding.provider: unknown provider %q", s.Embedding.Provider))
	} else if !s.Embedding.Provider.SupportsEmbeddings() {
		errs = append(errs, fmt.Errorf("embedding.provider: %s does not support embeddings", s.Embedding.Provider))
	}
	if !s.LLM.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("llm.provider: unknown provider %q", s.LLM.Provider))
	}
	if s.Index.ChunkTarget <= 0 {
		errs = append(errs, errors.New("index.chunk_target must be positive"))
	}
	if s.Index.ChunkMax <= 0 {
		errs = append(errs, errors.New("index.chunk_max must be positive"))
	}
	if s.Index.EntityMinFrequency < 1 {
		errs = append(errs, errors.New("index.entity_min_frequency must be at least 1"))
	}
	if s.Index.EntityTopN < 0 || s.Index.TimelineMaxItems < 0 {
		errs = append(errs, errors.New("index limits must not be negative"))
	}
	if s.Retrieval.RecallThreshold < -1 || s.Retrieval.RecallThreshold > 1 {
		errs = append(errs, errors.New("retrieval.recall_threshold must be within [-1, 1]"))
	}
	if s.Retrieval.TopK <= 0 {
		errs = append(errs, errors.New("retrieval.top_k must be positive"))
	}
	if s.Completion.MaxAttempts < 1 {
		errs = append(errs, errors.New("completion.max_attempts must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
