// Package redact applies the privacy blacklist to text before it leaves
// the device. It decorates chat and embedding services that talk to vendor
// APIs directly. The proxy adapters forward the blacklist instead.
package redact

import (
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/journai/journai-core/internal/core/domain"
)

// DefaultReplacement replaces a match when the rule has no replacement.
const DefaultReplacement = "█"

// cacheSize bounds the number of compiled redactors kept.
const cacheSize = 100

var (
	cacheOnce sync.Once
	cache     *lru.Cache[string, *Redactor]
)

// Redactor replaces blacklisted literals, ignoring case.
type Redactor struct {
	re           *regexp.Regexp
	replacements map[string]string
}

// Compile builds a redactor for items. Items with an empty pattern are
// ignored. Compiled redactors are cached by their rules.
func Compile(items []domain.BlacklistItem) *Redactor {
	key := cacheKey(items)
	c := redactorCache()
	if r, ok := c.Get(key); ok {
		return r
	}
	r := build(items)
	c.Add(key, r)
	return r
}

func redactorCache() *lru.Cache[string, *Redactor] {
	cacheOnce.Do(func() {
		// lru.New only fails for a non-positive size.
		cache, _ = lru.New[string, *Redactor](cacheSize)
	})
	return cache
}

func build(items []domain.BlacklistItem) *Redactor {
	r := &Redactor{replacements: make(map[string]string)}

	var alternatives []string
	for _, item := range items {
		if item.Pattern == "" {
			continue
		}
		lower := strings.ToLower(item.Pattern)
		if _, seen := r.replacements[lower]; seen {
			continue
		}
		replacement := item.Replacement
		if replacement == "" {
			replacement = DefaultReplacement
		}
		r.replacements[lower] = replacement
		alternatives = append(alternatives, regexp.QuoteMeta(item.Pattern))
	}
	if len(alternatives) == 0 {
		return r
	}

	r.re = regexp.MustCompile("(?i)(" + strings.Join(alternatives, "|") + ")")
	return r
}

// Redact returns text with every blacklisted literal replaced.
func (r *Redactor) Redact(text string) string {
	if r == nil || r.re == nil || text == "" {
		return text
	}
	return r.re.ReplaceAllStringFunc(text, func(match string) string {
		if replacement, ok := r.replacements[strings.ToLower(match)]; ok {
			return replacement
		}
		return DefaultReplacement
	})
}

// Empty reports whether the redactor has no rules.
func (r *Redactor) Empty() bool {
	return r == nil || r.re == nil
}

func cacheKey(items []domain.BlacklistItem) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.Pattern)
		b.WriteByte(0)
		b.WriteString(item.Replacement)
		b.WriteByte(0)
	}
	return b.String()
}
