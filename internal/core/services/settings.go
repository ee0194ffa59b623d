package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider        = "embedding.provider"
	keyEmbedModel           = "embedding.model"
	keyEmbedBaseURL         = "embedding.base_url"
	keyEmbedAPIKey          = "embedding.api_key"
	keyLLMProvider          = "llm.provider"
	keyLLMModel             = "llm.model"
	keyLLMBaseURL           = "llm.base_url"
	keyLLMAPIKey            = "llm.api_key"
	keyChunkTarget          = "index.chunk_target"
	keyChunkMax             = "index.chunk_max"
	keyEntityMinFrequency   = "index.entity_min_frequency"
	keyEntityTopN           = "index.entity_top_n"
	keyTimelineMaxItems     = "index.timeline_max_items"
	keyStrictWatermark      = "index.strict_watermark"
	keyEntityExtractor      = "index.entity_extractor"
	keyTimelineExtractor    = "index.timeline_extractor"
	keyRecallThreshold      = "retrieval.recall_threshold"
	keyTopK                 = "retrieval.top_k"
	keyQueryCacheSize       = "retrieval.query_cache_size"
	keyMaxAttempts          = "completion.max_attempts"
	keyInitialBackoffMillis = "completion.initial_backoff_ms"
	keyRequestsPerSecond    = "remote.requests_per_second"
	keyBurst                = "remote.burst"
	keyBlacklist            = "privacy.blacklist"
	keySchedulerEnabled     = "scheduler.enabled"
	keyIndexInterval        = "scheduler.index_interval_minutes"
	keyImportInterval       = "scheduler.import_interval_minutes"
	keyJournalDir           = "journal.dir"
)

// Environment variables that override config values.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvAPIKey          = "JOURNAI_API_KEY"
	EnvBaseURL         = "JOURNAI_BASE_URL"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindStringSlice
)

// settingKinds lists every key Set accepts.
var settingKinds = map[string]valueKind{
	keyEmbedProvider:        kindString,
	keyEmbedModel:           kindString,
	keyEmbedBaseURL:         kindString,
	keyEmbedAPIKey:          kindString,
	keyLLMProvider:          kindString,
	keyLLMModel:             kindString,
	keyLLMBaseURL:           kindString,
	keyLLMAPIKey:            kindString,
	keyChunkTarget:          kindInt,
	keyChunkMax:             kindInt,
	keyEntityMinFrequency:   kindInt,
	keyEntityTopN:           kindInt,
	keyTimelineMaxItems:     kindInt,
	keyStrictWatermark:      kindBool,
	keyEntityExtractor:      kindString,
	keyTimelineExtractor:    kindString,
	keyRecallThreshold:      kindFloat,
	keyTopK:                 kindInt,
	keyQueryCacheSize:       kindInt,
	keyMaxAttempts:          kindInt,
	keyInitialBackoffMillis: kindInt,
	keyRequestsPerSecond:    kindFloat,
	keyBurst:                kindInt,
	keyBlacklist:            kindStringSlice,
	keySchedulerEnabled:     kindBool,
	keyIndexInterval:        kindInt,
	keyImportInterval:       kindInt,
	keyJournalDir:           kindString,
}

// SettingsService resolves application settings from the config store,
// environment overrides and defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
// The aiValidator is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup, for tests.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	s.lookupEnv = lookup
}

// Get resolves current application settings and validates them.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: s.serviceSettings(keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey, d.Embedding),
		LLM:       s.serviceSettings(keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, d.LLM),
		Index: domain.IndexSettings{
			ChunkTarget:        s.getInt(keyChunkTarget, d.Index.ChunkTarget),
			ChunkMax:           s.getInt(keyChunkMax, d.Index.ChunkMax),
			EntityMinFrequency: s.getInt(keyEntityMinFrequency, d.Index.EntityMinFrequency),
			EntityTopN:         s.getInt(keyEntityTopN, d.Index.EntityTopN),
			TimelineMaxItems:   s.getInt(keyTimelineMaxItems, d.Index.TimelineMaxItems),
			StrictWatermark:    s.getBool(keyStrictWatermark, d.Index.StrictWatermark),
			EntityExtractor:    s.getString(keyEntityExtractor, d.Index.EntityExtractor),
			TimelineExtractor:  s.getString(keyTimelineExtractor, d.Index.TimelineExtractor),
		},
		Retrieval: domain.RetrievalSettings{
			RecallThreshold: float32(s.getFloat(keyRecallThreshold, float64(d.Retrieval.RecallThreshold))),
			TopK:            s.getInt(keyTopK, d.Retrieval.TopK),
			QueryCacheSize:  s.getInt(keyQueryCacheSize, d.Retrieval.QueryCacheSize),
		},
		Completion: domain.CompletionSettings{
			MaxAttempts: s.getInt(keyMaxAttempts, d.Completion.MaxAttempts),
			InitialBackoff: time.Duration(s.getInt(keyInitialBackoffMillis,
				int(d.Completion.InitialBackoff/time.Millisecond))) * time.Millisecond,
		},
		Remote: domain.RemoteSettings{
			RequestsPerSecond: s.getFloat(keyRequestsPerSecond, d.Remote.RequestsPerSecond),
			Burst:             s.getInt(keyBurst, d.Remote.Burst),
		},
		Blacklist:     ParseBlacklist(s.configStore.GetStringSlice(keyBlacklist)),
		IndexInterval: time.Duration(s.getInt(keyIndexInterval, int(d.IndexInterval/time.Minute))) * time.Minute,
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	return settings, nil
}

// serviceSettings reads one remote service block and applies environment overrides.
func (s *SettingsService) serviceSettings(
	providerKey, modelKey, baseURLKey, apiKeyKey string, d domain.ServiceSettings,
) domain.ServiceSettings {
	cfg := domain.ServiceSettings{
		Provider: domain.AIProvider(s.getString(providerKey, d.Provider.String())),
		Model:    s.getString(modelKey, d.Model),
		BaseURL:  s.configStore.GetString(baseURLKey),
		APIKey:   s.configStore.GetString(apiKeyKey),
	}

	switch cfg.Provider {
	case domain.AIProviderProxy:
		if v, ok := s.env(EnvBaseURL); ok {
			cfg.BaseURL = v
		}
		if v, ok := s.env(EnvAPIKey); ok {
			cfg.APIKey = v
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = domain.DefaultProxyURL
		}
	case domain.AIProviderOpenAI:
		if v, ok := s.env(EnvOpenAIAPIKey); ok {
			cfg.APIKey = v
		}
	case domain.AIProviderAnthropic:
		if v, ok := s.env(EnvAnthropicAPIKey); ok {
			cfg.APIKey = v
		}
	}
	return cfg
}

func (s *SettingsService) env(name string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	v, ok := s.lookupEnv(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Set parses value according to the key's type, validates the resulting
// settings and persists the key.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	previous, hadPrevious := s.configStore.Get(key)
	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if _, err := s.Get(); err != nil {
		// Roll back so an invalid value is never left in the store.
		if hadPrevious {
			_ = s.configStore.Set(key, previous)
		} else {
			_ = s.configStore.Delete(key)
		}
		return err
	}
	return nil
}

func parseSetting(kind valueKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindBool:
		return strconv.ParseBool(value)
	case kindStringSlice:
		if value == "" {
			return []string{}, nil
		}
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return value, nil
	}
}

// Show returns every effective setting as text, API keys masked.
func (s *SettingsService) Show() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	blacklist := make([]string, len(settings.Blacklist))
	for i, item := range settings.Blacklist {
		blacklist[i] = item.Pattern
		if item.Replacement != "" {
			blacklist[i] += "=" + item.Replacement
		}
	}

	return map[string]string{
		keyEmbedProvider:        settings.Embedding.Provider.String(),
		keyEmbedModel:           settings.Embedding.Model,
		keyEmbedBaseURL:         settings.Embedding.BaseURL,
		keyEmbedAPIKey:          maskSecret(settings.Embedding.APIKey),
		keyLLMProvider:          settings.LLM.Provider.String(),
		keyLLMModel:             settings.LLM.Model,
		keyLLMBaseURL:           settings.LLM.BaseURL,
		keyLLMAPIKey:            maskSecret(settings.LLM.APIKey),
		keyChunkTarget:          strconv.Itoa(settings.Index.ChunkTarget),
		keyChunkMax:             strconv.Itoa(settings.Index.ChunkMax),
		keyEntityMinFrequency:   strconv.Itoa(settings.Index.EntityMinFrequency),
		keyEntityTopN:           strconv.Itoa(settings.Index.EntityTopN),
		keyTimelineMaxItems:     strconv.Itoa(settings.Index.TimelineMaxItems),
		keyStrictWatermark:      strconv.FormatBool(settings.Index.StrictWatermark),
		keyEntityExtractor:      settings.Index.EntityExtractor,
		keyTimelineExtractor:    settings.Index.TimelineExtractor,
		keyRecallThreshold:      strconv.FormatFloat(float64(settings.Retrieval.RecallThreshold), 'g', -1, 32),
		keyTopK:                 strconv.Itoa(settings.Retrieval.TopK),
		keyQueryCacheSize:       strconv.Itoa(settings.Retrieval.QueryCacheSize),
		keyMaxAttempts:          strconv.Itoa(settings.Completion.MaxAttempts),
		keyInitialBackoffMillis: strconv.FormatInt(settings.Completion.InitialBackoff.Milliseconds(), 10),
		keyRequestsPerSecond:    strconv.FormatFloat(settings.Remote.RequestsPerSecond, 'g', -1, 64),
		keyBurst:                strconv.Itoa(settings.Remote.Burst),
		keyBlacklist:            strings.Join(blacklist, ","),
		keyIndexInterval:        strconv.Itoa(int(settings.IndexInterval / time.Minute)),
		keyJournalDir:           s.configStore.GetString(keyJournalDir),
	}, nil
}

// SettingKeys returns every key Set accepts, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func maskSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 8 {
		return "****"
	}
	return v[:4] + "****"
}

// ParseBlacklist turns "pattern" or "pattern=replacement" entries into rules.
// Blank patterns are dropped.
func ParseBlacklist(entries []string) []domain.BlacklistItem {
	var items []domain.BlacklistItem
	for _, entry := range entries {
		pattern, replacement, _ := strings.Cut(entry, "=")
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		items = append(items, domain.BlacklistItem{Pattern: pattern, Replacement: replacement})
	}
	return items
}

// Unset removes a key so its default applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("unset %s: %w", key, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current chat configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// JournalDir returns the configured journal directory, if any.
func (s *SettingsService) JournalDir() string {
	return s.configStore.GetString(keyJournalDir)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// GetSchedulerConfig returns the scheduler configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()

	if _, exists := s.configStore.Get(keySchedulerEnabled); exists {
		cfg.Enabled = s.configStore.GetBool(keySchedulerEnabled)
	}

	index := cfg.TaskConfigs[domain.TaskIDIndexPass]
	if minutes := s.configStore.GetInt(keyIndexInterval); minutes > 0 {
		index.Interval = time.Duration(minutes) * time.Minute
	}
	cfg.TaskConfigs[domain.TaskIDIndexPass] = index

	imp := cfg.TaskConfigs[domain.TaskIDJournalImport]
	if minutes := s.configStore.GetInt(keyImportInterval); minutes > 0 {
		imp.Interval = time.Duration(minutes) * time.Minute
	}
	imp.Enabled = s.JournalDir() != ""
	cfg.TaskConfigs[domain.TaskIDJournalImport] = imp

	return cfg
}
