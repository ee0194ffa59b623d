package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
	"github.com/journai/journai-core/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.Indexer = (*Indexer)(nil)

// IndexerStores groups the stores an index pass reads and writes.
type IndexerStores struct {
	Documents  driven.DocumentStore
	Embeddings driven.EmbeddingStore
	Entities   driven.EntityStore
	Timeline   driven.TimelineStore
	Watermark  driven.WatermarkStore
}

// IndexerAnalyzers groups the text analysis strategies.
type IndexerAnalyzers struct {
	Chunker  driven.Chunker
	Entities driven.EntityExtractor
	Timeline driven.TimelineExtractor
}

// IndexerConfig tunes the index pass.
type IndexerConfig struct {
	// EntityMinFrequency is the minimum mention count for a link.
	EntityMinFrequency int

	// EntityTopN caps links per entry.
	EntityTopN int

	// TimelineMaxItems caps timeline items per entry.
	TimelineMaxItems int

	// StrictWatermark only advances the watermark when no entry failed.
	StrictWatermark bool

	// Location is the zone timeline dates are resolved in. Defaults to time.Local.
	Location *time.Location

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Indexer runs incremental index passes over the journal.
// At most one pass runs at a time per Indexer.
type Indexer struct {
	stores    IndexerStores
	analyzers IndexerAnalyzers
	embedder  driven.EmbeddingService
	config    IndexerConfig

	passMu sync.Mutex
}

// NewIndexer creates an indexer. Zero config values take defaults.
func NewIndexer(
	stores IndexerStores,
	analyzers IndexerAnalyzers,
	embedder driven.EmbeddingService,
	config IndexerConfig,
) *Indexer {
	if config.EntityMinFrequency <= 0 {
		config.EntityMinFrequency = domain.DefaultEntityMinFrequency
	}
	if config.EntityTopN <= 0 {
		config.EntityTopN = domain.DefaultEntityTopN
	}
	if config.TimelineMaxItems <= 0 {
		config.TimelineMaxItems = domain.DefaultTimelineMaxItems
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &Indexer{
		stores:    stores,
		analyzers: analyzers,
		embedder:  embedder,
		config:    config,
	}
}

// RunIndexPass indexes every entry edited since the watermark.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (ix *Indexer) RunIndexPass(ctx context.Context) (*domain.IndexReport, error) {
	// 1. Reject concurrent passes
	if !ix.passMu.TryLock() {
		return nil, domain.ErrIndexInProgress
	}
	defer ix.passMu.Unlock()

	if ix.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	// 2. Record the pass start before reading anything, so edits that land
	// during the pass are picked up by the next one
	report := &domain.IndexReport{StartedAt: ix.config.Clock()}
	logger.Section("Index Pass")
	defer logger.Timer("index pass")()

	// 3. Select documents
	selected, err := ix.selectDocuments(ctx, report)
	if err != nil {
		return report, err
	}
	report.Selected = len(selected)
	logger.Info("Index pass: %d entries selected (incremental=%t)", report.Selected, report.Incremental)

	// 4. Process each document independently
	for i := range selected {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("index pass: %w", err)
		}

		doc := &selected[i]
		if doc.Archived {
			if err := ix.clearDocument(ctx, doc.ID); err != nil {
				report.Failed++
				logger.Warn("Failed to clear archived entry %s: %v", doc.ID, err)
				continue
			}
			report.Cleared++
			continue
		}

		indexed, err := ix.indexDocument(ctx, doc)
		switch {
		case err != nil:
			report.Failed++
			logger.Warn("Failed to index entry %s: %v", doc.ID, err)
		case !indexed:
			report.Skipped++
			logger.Debug("Skipping entry %s: no chunks", doc.ID)
		default:
			report.Indexed++
		}
	}

	// 5. Advance the watermark to the pass start
	if ix.config.StrictWatermark && report.Failed > 0 {
		logger.Warn("Watermark not advanced: %d entries failed", report.Failed)
		return report, nil
	}
	if err := ix.stores.Watermark.Advance(ctx, report.StartedAt); err != nil {
		return report, fmt.Errorf("advance watermark: %w", err)
	}
	report.WatermarkAdvanced = true

	logger.Info("Index pass complete: %d indexed, %d skipped, %d cleared, %d failed",
		report.Indexed, report.Skipped, report.Cleared, report.Failed)
	return report, nil
}

// selectDocuments returns all active entries on the first pass, and
// entries edited strictly after the watermark afterwards.
func (ix *Indexer) selectDocuments(ctx context.Context, report *domain.IndexReport) ([]domain.Document, error) {
	mark, ok, err := ix.stores.Watermark.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read watermark: %w", err)
	}

	if !ok {
		docs, err := ix.stores.Documents.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("list active documents: %w", err)
		}
		return docs, nil
	}

	report.Incremental = true
	docs, err := ix.stores.Documents.ListEditedSince(ctx, mark)
	if err != nil {
		return nil, fmt.Errorf("list documents edited since %s: %w", mark.Format(time.RFC3339), err)
	}
	return docs, nil
}

// indexDocument re-embeds one entry and replaces its derived data.
// Returns false when the entry has no content to index.
func (ix *Indexer) indexDocument(ctx context.Context, doc *domain.Document) (bool, error) {
	// a. Chunk
	texts := ix.analyzers.Chunker.Chunk(doc.Body)
	if len(texts) == 0 {
		return false, nil
	}

	// b. Embed in one batch
	res, err := ix.embedder.Embed(ctx, texts)
	if err != nil {
		return false, fmt.Errorf("embed chunks: %w", err)
	}
	if len(res.Vectors) != len(texts) {
		return false, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(res.Vectors), len(texts))
	}

	// c. Replace embeddings for (document, model)
	records, err := ix.buildRecords(doc.ID, texts, res)
	if err != nil {
		return false, err
	}
	if err := ix.stores.Embeddings.ReplaceForDocument(ctx, doc.ID, res.ModelID, records); err != nil {
		return false, fmt.Errorf("replace embeddings: %w", err)
	}

	// d. Entities
	if err := ix.replaceEntities(ctx, doc); err != nil {
		return false, err
	}

	// e. Timeline
	if err := ix.replaceTimeline(ctx, doc); err != nil {
		return false, err
	}

	return true, nil
}

func (ix *Indexer) buildRecords(docID string, texts []string, res domain.EmbedResult) ([]domain.EmbeddingRecord, error) {
	dims := len(res.Vectors[0])
	if dims == 0 {
		return nil, errors.New("embed chunks: empty vector")
	}

	now := ix.config.Clock()
	records := make([]domain.EmbeddingRecord, len(texts))
	for i, vec := range res.Vectors {
		if len(vec) != dims {
			return nil, fmt.Errorf("embed chunks: vector %d has %d dims, expected %d", i, len(vec), dims)
		}
		chunk := domain.Chunk{DocumentID: docID, Ordinal: i, Content: texts[i]}
		records[i] = domain.EmbeddingRecord{
			ID:         uuid.New().String(),
			DocumentID: docID,
			ChunkID:    chunk.ChunkID(),
			Vector:     Normalize(vec),
			Dims:       dims,
			ModelID:    res.ModelID,
			CreatedAt:  now,
		}
	}
	return records, nil
}

type mentionCount struct {
	candidate domain.EntityCandidate
	count     int
	firstSeen int
}

// SalientMentions counts candidate occurrences and keeps those seen at
// least minFrequency times, most frequent first (ties by first
// occurrence), at most topN.
func SalientMentions(mentions []domain.EntityCandidate, minFrequency, topN int) []domain.EntityCandidate {
	counts := make(map[domain.EntityCandidate]*mentionCount)
	order := make([]*mentionCount, 0, len(mentions))
	for i, m := range mentions {
		if mc, ok := counts[m]; ok {
			mc.count++
			continue
		}
		mc := &mentionCount{candidate: m, count: 1, firstSeen: i}
		counts[m] = mc
		order = append(order, mc)
	}

	kept := order[:0]
	for _, mc := range order {
		if mc.count >= minFrequency {
			kept = append(kept, mc)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].count != kept[j].count {
			return kept[i].count > kept[j].count
		}
		return kept[i].firstSeen < kept[j].firstSeen
	})
	if len(kept) > topN {
		kept = kept[:topN]
	}

	out := make([]domain.EntityCandidate, len(kept))
	for i, mc := range kept {
		out[i] = mc.candidate
	}
	return out
}

func (ix *Indexer) replaceEntities(ctx context.Context, doc *domain.Document) error {
	salient := SalientMentions(
		ix.analyzers.Entities.Mentions(doc.Body),
		ix.config.EntityMinFrequency,
		ix.config.EntityTopN,
	)

	links := make([]domain.EntityLink, 0, len(salient))
	seen := make(map[string]struct{}, len(salient))
	for _, c := range salient {
		entity, err := ix.resolveEntity(ctx, c)
		if err != nil {
			return err
		}
		// Same name under two types resolves to one entity.
		if _, dup := seen[entity.ID]; dup {
			continue
		}
		seen[entity.ID] = struct{}{}
		links = append(links, domain.EntityLink{
			DocumentID: doc.ID,
			EntityID:   entity.ID,
			Salience:   domain.DefaultSalience,
		})
	}

	if err := ix.stores.Entities.ReplaceLinks(ctx, doc.ID, links); err != nil {
		return fmt.Errorf("replace entity links: %w", err)
	}
	return nil
}

// resolveEntity returns the entity with the candidate's exact name,
// creating it if needed.
func (ix *Indexer) resolveEntity(ctx context.Context, c domain.EntityCandidate) (*domain.Entity, error) {
	existing, err := ix.stores.Entities.GetByName(ctx, c.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get entity %q: %w", c.Name, err)
	}

	entity := &domain.Entity{
		ID:        uuid.New().String(),
		Type:      c.Type,
		Name:      c.Name,
		CreatedAt: ix.config.Clock(),
	}
	if err := ix.stores.Entities.Save(ctx, entity); err != nil {
		return nil, fmt.Errorf("save entity %q: %w", c.Name, err)
	}
	return entity, nil
}

func (ix *Indexer) replaceTimeline(ctx context.Context, doc *domain.Document) error {
	stamps := ix.analyzers.Timeline.Extract(doc.Body, ix.config.Location)
	if len(stamps) > ix.config.TimelineMaxItems {
		stamps = stamps[:ix.config.TimelineMaxItems]
	}

	items := make([]domain.TimelineItem, len(stamps))
	for i, ts := range stamps {
		items[i] = domain.TimelineItem{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Timestamp:  ts,
			Summary:    TimelineSummaryText(ts),
		}
	}

	if err := ix.stores.Timeline.ReplaceForDocument(ctx, doc.ID, items); err != nil {
		return fmt.Errorf("replace timeline: %w", err)
	}
	return nil
}

// TimelineSummaryText is the summary stored for a heuristic timeline item.
func TimelineSummaryText(ts time.Time) string {
	return "Event on " + ts.UTC().Format(time.RFC3339)
}

// clearDocument removes derived data of an archived entry.
func (ix *Indexer) clearDocument(ctx context.Context, docID string) error {
	var errs []error
	if err := ix.stores.Embeddings.DeleteForDocument(ctx, docID); err != nil {
		errs = append(errs, fmt.Errorf("delete embeddings: %w", err))
	}
	if err := ix.stores.Entities.DeleteLinks(ctx, docID); err != nil {
		errs = append(errs, fmt.Errorf("delete entity links: %w", err))
	}
	if err := ix.stores.Timeline.ReplaceForDocument(ctx, docID, nil); err != nil {
		errs = append(errs, fmt.Errorf("delete timeline: %w", err))
	}
	return errors.Join(errs...)
}
