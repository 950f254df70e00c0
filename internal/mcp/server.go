// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with board tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/smilemeback/smileback/internal/storage"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server around one board.
type Server struct {
	mcp   *mcp.Server
	board *storage.Categories
	log   zerolog.Logger

	// mu serializes tool calls; the board allows a single writer.
	mu sync.Mutex
}

// NewServer creates MCP server with all capabilities.
func NewServer(board *storage.Categories, logger zerolog.Logger) (*Server, error) {
	if board == nil {
		return nil, fmt.Errorf("board is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "smileback",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcp:   mcpServer,
		board: board,
		log:   logger,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Str("root", s.board.Root()).Msg("mcp server listening on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
