// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only view of the board for AI agents

package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CategoriesURI is the resource that lists the board.
const CategoriesURI = "smileback://categories"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        CategoriesURI,
		Description: "All categories in board order with their image counts",
		URI:         CategoriesURI,
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)
}

func (s *Server) handleCategoriesResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	output := s.listCategories()
	s.mu.Unlock()

	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      CategoriesURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
