package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("retrieval.top_k", 7))
	require.NoError(t, store.Set("index.entity_top_n", int64(12)))
	require.NoError(t, store.Set("retrieval.recall_threshold", 0.2))
	require.NoError(t, store.Set("index.strict_watermark", true))
	require.NoError(t, store.Set("llm.provider", "openai"))
	require.NoError(t, store.Set("privacy.blacklist", []any{"Alice", 3, "Bob=[friend]"}))

	assert.Equal(t, 7, store.GetInt("retrieval.top_k"))
	assert.Equal(t, 12, store.GetInt("index.entity_top_n"))
	assert.Equal(t, 0, store.GetInt("llm.provider"))
	assert.InDelta(t, 0.2, store.GetFloat("retrieval.recall_threshold"), 1e-9)
	assert.InDelta(t, 7.0, store.GetFloat("retrieval.top_k"), 1e-9)
	assert.Zero(t, store.GetFloat("missing"))
	assert.True(t, store.GetBool("index.strict_watermark"))
	assert.False(t, store.GetBool("llm.provider"))
	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Empty(t, store.GetString("retrieval.top_k"))
	assert.Equal(t, []string{"Alice", "Bob=[friend]"}, store.GetStringSlice("privacy.blacklist"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("b.key", 1))
	require.NoError(t, store.Set("a.key", 2))

	assert.Equal(t, []string{"a.key", "b.key"}, store.Keys())
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("k", n)
			_ = store.GetInt("k")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("k")
	assert.True(t, ok)
}
