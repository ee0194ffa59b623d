// Package mcp provides an MCP (Model Context Protocol) server adapter for JournAI.
// It lets AI assistants search the journal and run the local context tools.
package mcp

import "errors"

var (
	// ErrMissingRetrieval is returned when the retrieval engine is not provided.
	ErrMissingRetrieval = errors.New("mcp: retrieval is required")

	// ErrMissingTools is returned when the tool layer is not provided.
	ErrMissingTools = errors.New("mcp: tools are required")

	// ErrAskUnavailable is returned by the ask tool when no completion service is wired.
	ErrAskUnavailable = errors.New("mcp: ask requires a configured chat model")
)
