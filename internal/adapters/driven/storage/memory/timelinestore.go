package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure TimelineStore implements the interface.
var _ driven.TimelineStore = (*TimelineStore)(nil)

// TimelineStore is an in-memory implementation of driven.TimelineStore.
type TimelineStore struct {
	mu    sync.RWMutex
	items map[string][]domain.TimelineItem
}

// NewTimelineStore creates a new in-memory timeline store.
func NewTimelineStore() *TimelineStore {
	return &TimelineStore{
		items: make(map[string][]domain.TimelineItem),
	}
}

// ReplaceForDocument replaces every item of a document.
func (s *TimelineStore) ReplaceForDocument(_ context.Context, documentID string, items []domain.TimelineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 {
		delete(s.items, documentID)
		return nil
	}
	s.items[documentID] = append([]domain.TimelineItem(nil), items...)
	return nil
}

// ListBetween returns items within [start, end], newest first.
func (s *TimelineStore) ListBetween(_ context.Context, start, end time.Time, limit int) ([]domain.TimelineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := domain.DateRange{Start: start, End: end}
	var result []domain.TimelineItem
	for _, items := range s.items {
		for _, item := range items {
			if r.Contains(item.Timestamp) {
				result = append(result, item)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.After(result[j].Timestamp)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
