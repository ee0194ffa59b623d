package mcp

import (
	"github.com/journai/journai-core/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval ranks entries for the search tool.
	Retrieval driving.Retrieval

	// Tools builds the timeline, range and pattern context blocks.
	Tools driving.Tools

	// Entries backs the entry resources. Optional.
	Entries driving.EntryService

	// Completion answers the ask tool. Optional.
	Completion driving.CompletionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrieval
	}
	if p.Tools == nil {
		return ErrMissingTools
	}
	return nil
}
