package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/journai/journai-core/internal/core/domain"
)

type rawPlan struct {
	Tools []rawStep `json:"tools"`
}

type rawStep struct {
	Tool   string                     `json:"tool"`
	Params map[string]json.RawMessage `json:"params"`
}

// DecodePlan parses a planning response into typed tool calls.
//
// Prose or code fences around the JSON object are ignored. Steps naming
// an unknown tool or carrying malformed parameters are dropped; the
// remaining steps are kept. ok is false when no JSON object could be
// decoded at all.
func DecodePlan(raw string) (domain.Plan, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return domain.Plan{}, false
	}

	var rp rawPlan
	if err := json.Unmarshal([]byte(raw[start:end+1]), &rp); err != nil {
		return domain.Plan{}, false
	}

	plan := domain.Plan{Steps: make([]domain.ToolCall, 0, len(rp.Tools))}
	for _, step := range rp.Tools {
		if call, ok := decodeStep(step); ok {
			plan.Steps = append(plan.Steps, call)
		}
	}
	return plan, true
}

func decodeStep(step rawStep) (domain.ToolCall, bool) {
	p := params(step.Params)
	switch domain.ToolName(step.Tool) {
	case domain.ToolTimelineSummary:
		days, ok := p.intValue("days")
		return domain.TimelineSummaryCall{Days: days}, ok

	case domain.ToolSemanticSearch:
		query, ok := p.stringValue("query")
		if !ok {
			return nil, false
		}
		k, ok := p.intValue("k")
		return domain.SemanticSearchCall{Query: query, K: k}, ok

	case domain.ToolMinePatterns:
		window, ok := p.intValue("windowDays")
		return domain.MinePatternsCall{WindowDays: window}, ok

	case domain.ToolTimelineSummaryRange:
		start, okStart := p.instantValue("start")
		end, okEnd := p.instantValue("end")
		if !okStart || !okEnd {
			return nil, false
		}
		return domain.TimelineRangeCall{Start: start, End: end}, true

	case domain.ToolEntriesSummaryRange:
		start, okStart := p.instantValue("start")
		end, okEnd := p.instantValue("end")
		k, okK := p.intValue("k")
		if !okStart || !okEnd || !okK {
			return nil, false
		}
		return domain.EntriesRangeCall{Start: start, End: end, K: k}, true

	default:
		return nil, false
	}
}

// params decodes individual plan parameters. Absent and null values are
// valid and yield the zero value, which the tools replace with defaults.
type params map[string]json.RawMessage

func (p params) lookup(key string) (json.RawMessage, bool) {
	v, ok := p[key]
	if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return nil, false
	}
	return v, true
}

func (p params) intValue(key string) (int, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return 0, true
	}

	var n float64
	if err := json.Unmarshal(v, &n); err == nil {
		if math.IsNaN(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	}

	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func (p params) stringValue(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// instantValue accepts RFC 3339 timestamps and bare dates (UTC midnight).
// Unlike the other parameters it is required.
func (p params) instantValue(key string) (time.Time, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
