// Package mcp exposes stored prompts as Model Context Protocol prompts over
// the streamable HTTP transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/JaimeStill/prompter/internal/prompts"
)

const serverName = "prompter"

// Server publishes every stored record as an MCP prompt named by its id.
// Each placeholder in the text becomes an optional argument named by the
// placeholder without its brackets.
type Server struct {
	mcp     *mcpserver.MCPServer
	http    *mcpserver.StreamableHTTPServer
	manager *prompts.Manager
	logger  *slog.Logger

	mu    sync.Mutex
	names []string
}

// New creates a Server backed by manager. Call Sync to publish prompts.
func New(manager *prompts.Manager, version string, logger *slog.Logger) *Server {
	s := &Server{
		manager: manager,
		logger:  logger.With("system", "mcp"),
	}

	s.mcp = mcpserver.NewMCPServer(
		serverName,
		version,
		mcpserver.WithPromptCapabilities(true),
	)
	s.http = mcpserver.NewStreamableHTTPServer(s.mcp)
	return s
}

// Handler returns the streamable HTTP endpoint.
func (s *Server) Handler() http.Handler {
	return s.http
}

// Prompts returns the published prompt names in order.
func (s *Server) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.names)
}

// Sync replaces the published prompt set with the records currently stored.
func (s *Server) Sync(ctx context.Context) error {
	records, err := s.manager.List(ctx)
	if err != nil {
		return fmt.Errorf("sync mcp prompts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.names) > 0 {
		s.mcp.DeletePrompts(s.names...)
	}

	names := make([]string, 0, len(records))
	for _, rec := range records {
		s.mcp.AddPrompt(Describe(rec), s.GetPrompt)
		names = append(names, rec.ID)
	}
	s.names = names

	s.logger.Info("prompts published", "count", len(names))
	return nil
}

// Describe builds the MCP prompt definition for rec.
func Describe(rec prompts.Record) mcpgo.Prompt {
	opts := []mcpgo.PromptOption{
		mcpgo.WithPromptDescription(fmt.Sprintf("Stored prompt %s", rec.ID)),
	}

	for _, kw := range prompts.Keywords(rec.Text) {
		desc := fmt.Sprintf("Value for %s", kw)
		if v, ok := rec.Parameters[kw]; ok {
			desc = fmt.Sprintf("Value for %s (default %q)", kw, v)
		}
		opts = append(opts, mcpgo.WithArgument(ArgumentName(kw), mcpgo.ArgumentDescription(desc)))
	}

	return mcpgo.NewPrompt(rec.ID, opts...)
}

// ArgumentName strips the brackets from a placeholder token.
func ArgumentName(keyword string) string {
	return strings.TrimSuffix(strings.TrimPrefix(keyword, "["), "]")
}

// GetPrompt loads the named prompt, overlays the request arguments onto its
// stored parameters, and returns the rendered text as a user message.
func (s *Server) GetPrompt(ctx context.Context, req mcpgo.GetPromptRequest) (*mcpgo.GetPromptResult, error) {
	p, err := s.manager.Get(ctx, req.Params.Name)
	if err != nil {
		return nil, fmt.Errorf("get prompt %s: %w", req.Params.Name, err)
	}

	params := p.Parameters()
	for name, value := range req.Params.Arguments {
		params["["+name+"]"] = value
	}

	p, err = p.WithParameters(params)
	if err != nil {
		return nil, err
	}

	return mcpgo.NewGetPromptResult(
		fmt.Sprintf("Stored prompt %s", p.ID()),
		[]mcpgo.PromptMessage{
			mcpgo.NewPromptMessage(
				mcpgo.RoleUser,
				mcpgo.TextContent{
					Type: "text",
					Text: p.Render(),
				},
			),
		},
	), nil
}
