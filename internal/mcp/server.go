// Package mcp serves the phrase index over the Model Context Protocol so
// editors and agents can ask what a word in a note links to.
package mcp

import (
	"context"
	"log/slog"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Paintersrp/hoverlink/internal/constants"
	indexsvc "github.com/Paintersrp/hoverlink/internal/services/index"
)

type Server struct {
	svc    *indexsvc.Service
	server *mcp.Server
	log    *slog.Logger
}

// NewServer registers the index tools on a new MCP server. The service must
// already be built.
func NewServer(svc *indexsvc.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		svc: svc,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    constants.AppName,
			Version: constants.Version,
		}, nil),
		log: logger.With("component", "mcp"),
	}
	s.registerTools()
	return s
}

// Run serves requests on stdin and stdout until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("serving index over stdio", "vault", s.svc.Vault())
	err := s.server.Run(ctx, &mcp.StdioTransport{})
	s.log.Debug("mcp session ended", "error", err)
	return err
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "resolve",
		Description: "Find the longest phrase around a byte offset in text that names a note, heading, tag or property, and list what it links to.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": {
					Type:        "string",
					Description: "Line of text containing the hovered word",
				},
				"offset": {
					Type:        "integer",
					Description: "Byte offset of the hover within text",
				},
				"max_results": {
					Type:        "integer",
					Description: "Records per category, defaults to the configured cap",
				},
			},
			Required: []string{"text", "offset"},
		},
	}, s.handleResolve)

	s.server.AddTool(&mcp.Tool{
		Name:        "select_spans",
		Description: "List every non-overlapping linkable phrase in text, leftmost first.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": {
					Type:        "string",
					Description: "Text to scan",
				},
			},
			Required: []string{"text"},
		},
	}, s.handleSelectSpans)

	s.server.AddTool(&mcp.Tool{
		Name:        "lookup",
		Description: "List the records one index holds for a key.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"category": {
					Type:        "string",
					Description: "One of note, heading, tag or property",
				},
				"key": {
					Type:        "string",
					Description: "Key to look up, matched case-insensitively",
				},
			},
			Required: []string{"category", "key"},
		},
	}, s.handleLookup)

	s.server.AddTool(&mcp.Tool{
		Name:        "stats",
		Description: "Report how many notes and keys are indexed.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleStats)
}
