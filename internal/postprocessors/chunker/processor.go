// Package chunker provides a paragraph-packing text chunker.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultTargetSize is the preferred chunk size in runes.
const DefaultTargetSize = 1800

// DefaultMaxSize is the hard cap for a segment of an oversized paragraph.
const DefaultMaxSize = 2400

const paragraphSeparator = "\n\n"

// Processor packs blank-line separated paragraphs into chunks.
// It implements the driven.Chunker interface.
type Processor struct {
	targetSize int
	maxSize    int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithTargetSize sets the preferred chunk size in runes.
func WithTargetSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.targetSize = size
		}
	}
}

// WithMaxSize sets the maximum segment size in runes.
func WithMaxSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.maxSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		targetSize: DefaultTargetSize,
		maxSize:    DefaultMaxSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	// A max below target would split paragraphs that fit a chunk.
	if p.maxSize < p.targetSize {
		p.maxSize = p.targetSize
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "paragraph"
}

// Chunk splits text into chunks in document order.
//
// Paragraphs are packed greedily while the chunk stays within the target
// size. A paragraph that alone exceeds the target is hard-split into
// max-size segments.
func (p *Processor) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	paragraphs := splitParagraphs(text)
	chunks := make([]string, 0, len(paragraphs))

	var buf strings.Builder
	bufLen := 0

	for _, para := range paragraphs {
		paraLen := utf8.RuneCountInString(para)
		sepLen := 0
		if bufLen > 0 {
			sepLen = len(paragraphSeparator)
		}

		switch {
		case bufLen+sepLen+paraLen <= p.targetSize:
			if sepLen > 0 {
				buf.WriteString(paragraphSeparator)
			}
			buf.WriteString(para)
			bufLen += sepLen + paraLen
		case paraLen <= p.targetSize:
			chunks = append(chunks, buf.String())
			buf.Reset()
			buf.WriteString(para)
			bufLen = paraLen
		default:
			if bufLen > 0 {
				chunks = append(chunks, buf.String())
				buf.Reset()
				bufLen = 0
			}
			chunks = append(chunks, hardSplit(para, p.maxSize)...)
		}
	}

	if bufLen > 0 {
		chunks = append(chunks, buf.String())
	}

	return chunks
}

// splitParagraphs normalises line endings and returns the trimmed,
// non-blank paragraphs.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := strings.Split(text, paragraphSeparator)

	paragraphs := make([]string, 0, len(raw))
	for _, para := range raw {
		para = strings.TrimSpace(para)
		if para != "" {
			paragraphs = append(paragraphs, para)
		}
	}
	return paragraphs
}

// hardSplit cuts s into consecutive segments of at most size runes.
func hardSplit(s string, size int) []string {
	runes := []rune(s)
	segments := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		segments = append(segments, string(runes[start:end]))
	}
	return segments
}
