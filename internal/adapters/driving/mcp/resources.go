package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/journai/journai-core/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for JournAI resources.
	uriScheme = "journai://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "entries",
		Name:        "entries",
		Description: "List of active journal entries",
		MIMEType:    "application/json",
	}, s.handleEntriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "entries/{entryId}",
		Name:        "entry-content",
		Description: "Body of a specific journal entry",
		MIMEType:    "text/plain",
	}, s.handleEntryContentResource)
}

// handleEntriesResource returns the active entries, without bodies.
func (s *Server) handleEntriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Entries == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	docs, err := s.ports.Entries.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	type entryInfo struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		URI       string `json:"uri,omitempty"`
		CreatedAt string `json:"created_at"`
	}

	infos := make([]entryInfo, len(docs))
	for i := range docs {
		infos[i] = entryInfo{
			ID:        docs[i].ID,
			Title:     docs[i].Title,
			URI:       docs[i].URI,
			CreatedAt: docs[i].CreatedAt.Format(time.RFC3339),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling entries: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleEntryContentResource returns the body of one entry.
func (s *Server) handleEntryContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Entries == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// journai://entries/{entryId}
	id := extractEntryID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Entries.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Body,
		}},
	}, nil
}

// extractEntryID extracts the entry ID from a URI like journai://entries/{entryId}.
func extractEntryID(uri string) string {
	const prefix = uriScheme + "entries/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
