package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
	"github.com/journai/journai-core/internal/core/ports/driving"
	"github.com/journai/journai-core/internal/logger"
)

// Ensure Retrieval implements the interface.
var _ driving.Retrieval = (*Retrieval)(nil)

// RetrievalConfig tunes semantic search.
type RetrievalConfig struct {
	// RecallThreshold drops entries scoring below it.
	RecallThreshold float32

	// DefaultTopK is used when the caller passes topK <= 0.
	DefaultTopK int
}

// Retrieval ranks journal entries by cosine similarity to a query.
type Retrieval struct {
	docs       driven.DocumentStore
	embeddings driven.EmbeddingStore
	embedder   driven.EmbeddingService
	config     RetrievalConfig
}

// DefaultRetrievalConfig returns the configured defaults.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		RecallThreshold: domain.DefaultRecallThreshold,
		DefaultTopK:     domain.DefaultTopK,
	}
}

// NewRetrieval creates a retrieval engine. A non-positive DefaultTopK takes
// the default; RecallThreshold is used as given, so 0 keeps every match.
func NewRetrieval(
	docs driven.DocumentStore,
	embeddings driven.EmbeddingStore,
	embedder driven.EmbeddingService,
	config RetrievalConfig,
) *Retrieval {
	if config.DefaultTopK <= 0 {
		config.DefaultTopK = domain.DefaultTopK
	}
	return &Retrieval{
		docs:       docs,
		embeddings: embeddings,
		embedder:   embedder,
		config:     config,
	}
}

// Search returns up to topK entries, best match first.
func (r *Retrieval) Search(ctx context.Context, query string, topK int) ([]domain.Document, error) {
	scored, err := r.SearchScored(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.Document, len(scored))
	for i, s := range scored {
		docs[i] = s.Document
	}
	return docs, nil
}

// SearchScored returns up to topK entries with their similarity, best match first.
func (r *Retrieval) SearchScored(ctx context.Context, query string, topK int) ([]domain.ScoredDocument, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.ScoredDocument{}, nil
	}
	if r.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = r.config.DefaultTopK
	}

	res, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(res.Vectors) != 1 || len(res.Vectors[0]) == 0 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(res.Vectors))
	}
	queryVec := Normalize(res.Vectors[0])

	candidates, err := SelectCandidates(
		func() ([]domain.EmbeddingRecord, error) { return r.embeddings.ListByModel(ctx, res.ModelID) },
		func() ([]domain.EmbeddingRecord, error) { return r.embeddings.ListAll(ctx) },
	)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}
	logger.Debug("Retrieval: %d candidates for model %q", len(candidates), res.ModelID)

	ranked := rankDocuments(queryVec, candidates, r.config.RecallThreshold)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	return r.resolve(ctx, ranked)
}

// SelectCandidates returns the model-scoped records when there are any,
// otherwise every stored record. loadAll is only called on a cold start.
func SelectCandidates(
	modelScoped func() ([]domain.EmbeddingRecord, error),
	loadAll func() ([]domain.EmbeddingRecord, error),
) ([]domain.EmbeddingRecord, error) {
	scoped, err := modelScoped()
	if err != nil {
		return nil, err
	}
	if len(scoped) > 0 {
		return scoped, nil
	}
	return loadAll()
}

type rankedDocument struct {
	documentID string
	score      float32
}

// rankDocuments scores every candidate of matching dimensionality, keeps
// the best chunk per document and sorts by score descending, ties by id.
func rankDocuments(query []float32, candidates []domain.EmbeddingRecord, threshold float32) []rankedDocument {
	best := make(map[string]float32)
	for _, rec := range candidates {
		if rec.Dims != len(query) || len(rec.Vector) != rec.Dims {
			continue
		}
		score := Similarity(query, rec.Vector)
		if prev, ok := best[rec.DocumentID]; !ok || score > prev {
			best[rec.DocumentID] = score
		}
	}

	ranked := make([]rankedDocument, 0, len(best))
	for id, score := range best {
		if score < threshold {
			continue
		}
		ranked = append(ranked, rankedDocument{documentID: id, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].documentID < ranked[j].documentID
	})
	return ranked
}

// resolve loads documents in ranked order, skipping missing and archived ones.
func (r *Retrieval) resolve(ctx context.Context, ranked []rankedDocument) ([]domain.ScoredDocument, error) {
	out := make([]domain.ScoredDocument, 0, len(ranked))
	for _, rd := range ranked {
		doc, err := r.docs.Get(ctx, rd.documentID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get document %s: %w", rd.documentID, err)
		}
		if doc.Archived {
			continue
		}
		out = append(out, domain.ScoredDocument{Document: *doc, Score: rd.score})
	}
	return out, nil
}
