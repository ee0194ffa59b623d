package memory

import (
	"context"
	"sync"
	"time"

	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure WatermarkStore implements the interface.
var _ driven.WatermarkStore = (*WatermarkStore)(nil)

// WatermarkStore is an in-memory implementation of driven.WatermarkStore.
type WatermarkStore struct {
	mu    sync.RWMutex
	value time.Time
	set   bool
}

// NewWatermarkStore creates an empty watermark store.
func NewWatermarkStore() *WatermarkStore {
	return &WatermarkStore{}
}

// Read returns the watermark and whether it has been set.
func (s *WatermarkStore) Read(_ context.Context) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.set, nil
}

// Advance sets the watermark.
func (s *WatermarkStore) Advance(_ context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = t
	s.set = true
	return nil
}
