// Package entities provides entity extraction strategies for the indexer.
package entities

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Token length bounds in runes.
const (
	MinTokenLength = 3
	MaxTokenLength = 40
)

const trimChars = ",.!?;:\"'"

// Verify interface compliance.
var _ driven.EntityExtractor = (*Heuristic)(nil)

// Heuristic treats capitalised words as entity candidates.
// It is deliberately coarse: every candidate is typed OTHER and no
// linguistic analysis is attempted.
type Heuristic struct{}

// NewHeuristic creates a heuristic entity extractor.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Name returns the strategy name.
func (h *Heuristic) Name() string {
	return "heuristic"
}

// Extract returns distinct candidates in first-seen order.
func (h *Heuristic) Extract(text string) []domain.EntityCandidate {
	mentions := h.Mentions(text)
	seen := make(map[domain.EntityCandidate]struct{}, len(mentions))
	out := make([]domain.EntityCandidate, 0, len(mentions))
	for _, m := range mentions {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Mentions returns every qualifying token in order.
func (h *Heuristic) Mentions(text string) []domain.EntityCandidate {
	fields := strings.Fields(text)
	out := make([]domain.EntityCandidate, 0, len(fields)/4)
	for _, field := range fields {
		word := strings.Trim(field, trimChars)
		if !qualifies(word) {
			continue
		}
		out = append(out, domain.EntityCandidate{Type: domain.EntityTypeOther, Name: word})
	}
	return out
}

func qualifies(word string) bool {
	n := utf8.RuneCountInString(word)
	if n < MinTokenLength || n > MaxTokenLength {
		return false
	}
	first, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(first)
}
