package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journai/journai-core/internal/adapters/driven/storage/memory"
	"github.com/journai/journai-core/internal/core/domain"
)

func noEnv(string) (string, bool) { return "", false }

func newTestSettings(store *memory.ConfigStore, env map[string]string) *SettingsService {
	service := NewSettingsService(store, nil)
	service.SetEnvLookup(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	return service
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	service.SetEnvLookup(noEnv)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("embedding.api_key", "sk-test")
	_ = store.Set("retrieval.top_k", 9)
	_ = store.Set("retrieval.recall_threshold", 0.25)
	_ = store.Set("completion.initial_backoff_ms", 250)
	_ = store.Set("index.strict_watermark", true)
	_ = store.Set("privacy.blacklist", []string{"Alice=A.", "  ", "Acme"})
	_ = store.Set("scheduler.index_interval_minutes", 5)

	settings, err := newTestSettings(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, 9, settings.Retrieval.TopK)
	assert.InDelta(t, 0.25, settings.Retrieval.RecallThreshold, 1e-6)
	assert.Equal(t, 250*time.Millisecond, settings.Completion.InitialBackoff)
	assert.True(t, settings.Index.StrictWatermark)
	assert.Equal(t, []domain.BlacklistItem{
		{Pattern: "Alice", Replacement: "A."},
		{Pattern: "Acme"},
	}, settings.Blacklist)
	assert.Equal(t, 5*time.Minute, settings.IndexInterval)
}

func TestSettingsService_Get_Invalid(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "anthropic")
	_ = store.Set("retrieval.top_k", 0)

	_, err := newTestSettings(store, nil).Get()

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "does not support embeddings")
	assert.Contains(t, err.Error(), "retrieval.top_k")
}

func TestSettingsService_EnvOverrides(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.api_key", "from-config")
	_ = store.Set("llm.provider", "anthropic")

	settings, err := newTestSettings(store, map[string]string{
		EnvAPIKey:          "proxy-token",
		EnvBaseURL:         "https://relay.example.com",
		EnvAnthropicAPIKey: "sk-ant",
		EnvOpenAIAPIKey:    "unused",
	}).Get()

	require.NoError(t, err)
	assert.Equal(t, "proxy-token", settings.Embedding.APIKey, "env wins over config")
	assert.Equal(t, "https://relay.example.com", settings.Embedding.BaseURL)
	assert.Equal(t, "sk-ant", settings.LLM.APIKey)
}

func TestSettingsService_EnvBlankIgnored(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.api_key", "from-config")

	settings, err := newTestSettings(store, map[string]string{EnvAPIKey: "  "}).Get()

	require.NoError(t, err)
	assert.Equal(t, "from-config", settings.Embedding.APIKey)
	assert.Equal(t, domain.DefaultProxyURL, settings.Embedding.BaseURL)
}

func TestSettingsService_Set_ParsesByType(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)

	require.NoError(t, service.Set("retrieval.top_k", " 12 "))
	require.NoError(t, service.Set("retrieval.recall_threshold", "0.1"))
	require.NoError(t, service.Set("index.strict_watermark", "true"))
	require.NoError(t, service.Set("privacy.blacklist", "Bob=B., Carol"))
	require.NoError(t, service.Set("llm.provider", "ollama"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 12, settings.Retrieval.TopK)
	assert.InDelta(t, 0.1, settings.Retrieval.RecallThreshold, 1e-6)
	assert.True(t, settings.Index.StrictWatermark)
	assert.Len(t, settings.Blacklist, 2)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
}

func TestSettingsService_ZeroRecallThresholdKept(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)

	require.NoError(t, service.Set("retrieval.recall_threshold", "0"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Zero(t, settings.Retrieval.RecallThreshold)
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)

	assert.ErrorIs(t, service.Set("no.such.key", "1"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set("retrieval.top_k", "many"), domain.ErrInvalidInput)

	// Parses, but fails validation: rolled back.
	assert.ErrorIs(t, service.Set("retrieval.top_k", "-1"), domain.ErrInvalidInput)
	_, exists := store.Get("retrieval.top_k")
	assert.False(t, exists)

	require.NoError(t, service.Set("llm.provider", "openai"))
	assert.Error(t, service.Set("llm.provider", "skynet"))
	assert.Equal(t, "openai", store.GetString("llm.provider"))
}

func TestSettingsService_Unset(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)
	require.NoError(t, service.Set("retrieval.top_k", "3"))

	require.NoError(t, service.Unset("retrieval.top_k"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
	assert.ErrorIs(t, service.Unset("bogus"), domain.ErrInvalidInput)
}

func TestSettingsService_Show_MasksSecrets(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "openai")
	_ = store.Set("llm.api_key", "sk-1234567890")
	_ = store.Set("privacy.blacklist", []string{"Alice=A."})

	shown, err := newTestSettings(store, nil).Show()

	require.NoError(t, err)
	assert.Equal(t, "sk-1****", shown["llm.api_key"])
	assert.Equal(t, "", shown["embedding.api_key"])
	assert.Equal(t, "Alice=A.", shown["privacy.blacklist"])
	assert.Equal(t, "5", shown["retrieval.top_k"])
	assert.Equal(t, "500", shown["completion.initial_backoff_ms"])
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "abcd****", maskSecret("abcdefghijk"))
}

func TestSettingKeys_Sorted(t *testing.T) {
	keys := SettingKeys()
	assert.Contains(t, keys, "privacy.blacklist")
	assert.IsIncreasing(t, keys)
}

func TestSettingsService_GetSchedulerConfig(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettings(store, nil)

	cfg := service.GetSchedulerConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.GetTaskConfig(domain.TaskIDIndexPass).Interval)
	assert.False(t, cfg.GetTaskConfig(domain.TaskIDJournalImport).Enabled)

	_ = store.Set("scheduler.enabled", false)
	_ = store.Set("scheduler.index_interval_minutes", 30)
	_ = store.Set("scheduler.import_interval_minutes", 2)
	_ = store.Set("journal.dir", "/tmp/journal")

	cfg = service.GetSchedulerConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.GetTaskConfig(domain.TaskIDIndexPass).Interval)
	imp := cfg.GetTaskConfig(domain.TaskIDJournalImport)
	assert.True(t, imp.Enabled)
	assert.Equal(t, 2*time.Minute, imp.Interval)
}

type stubValidator struct {
	embedErr, llmErr error
	lastLLM          *domain.ServiceSettings
}

func (s *stubValidator) ValidateEmbedding(*domain.ServiceSettings) error { return s.embedErr }
func (s *stubValidator) ValidateLLM(cfg *domain.ServiceSettings) error {
	s.lastLLM = cfg
	return s.llmErr
}

func TestSettingsService_ValidateConfigs(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "ollama")
	validator := &stubValidator{embedErr: errors.New("unreachable")}
	service := NewSettingsService(store, validator)
	service.SetEnvLookup(noEnv)

	assert.EqualError(t, service.ValidateEmbeddingConfig(), "unreachable")
	require.NoError(t, service.ValidateLLMConfig())
	assert.Equal(t, domain.AIProviderOllama, validator.lastLLM.Provider)

	noValidator := NewSettingsService(store, nil)
	assert.NoError(t, noValidator.ValidateEmbeddingConfig())
}
