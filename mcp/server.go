package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/pagemill/elementor-mcp/elementor"
	"github.com/pagemill/elementor-mcp/wp"
)

const Version = "0.1.0"

// Server wires the Elementor store and the WordPress client into MCP tools.
type Server struct {
	log    *zap.Logger
	store  *elementor.Store
	wp     *wp.Client
	mcp    *server.MCPServer
	events *EventBroker
}

// NewServer creates the MCP server with every tool registered. The event
// broker is optional; when present, mutating tools broadcast change events
// to SSE subscribers.
func NewServer(logger *zap.Logger, store *elementor.Store, wpClient *wp.Client, events *EventBroker) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		log:    logger,
		store:  store,
		wp:     wpClient,
		events: events,
	}
	s.mcp = server.NewMCPServer(
		"Elementor MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerStructureTools()
	s.registerElementTools()
	s.registerCreateTools()
	s.registerPostTools()

	return s
}

// MCP exposes the underlying server for transport wiring.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio runs the server on stdin/stdout until the stream closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// notifyChange tells SSE subscribers that a tool changed a document.
func (s *Server) notifyChange(tool string, postID int) {
	if s.events != nil {
		s.events.Broadcast(DocumentEvent{Tool: tool, PostID: postID})
	}
}

// jsonResult serializes a success payload into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errResult converts an operation error into a structured failure result, so
// no Go error crosses the tool boundary for domain failures.
func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

// parseSettings decodes a JSON-object string tool argument. An empty string
// is an empty settings map.
func parseSettings(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var settings map[string]any
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("settings must be a JSON object: %v", err)
	}
	return settings, nil
}

// splitIDs splits a comma-separated id list, dropping empty entries.
func splitIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// indexPtr converts an optional number argument into the pointer form the
// operations take.
func indexPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
