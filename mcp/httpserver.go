package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
)

// httpRequestKey is a custom context key for storing the original HTTP request
type httpRequestKey struct{}

// withHTTPRequest adds the original HTTP request to the context
func withHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

// HTTPRequestFromContext extracts the original HTTP request from the context
func HTTPRequestFromContext(ctx context.Context) (*http.Request, bool) {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	return req, ok
}

// httpContextFunc extracts the original HTTP request and adds it to the context
func httpContextFunc(ctx context.Context, r *http.Request) context.Context {
	return withHTTPRequest(ctx, r)
}

// NewHTTPHandler serves the MCP protocol on endpoint plus, when the server
// carries an event broker, the SSE side channel on endpoint+"/events".
func NewHTTPHandler(s *Server, endpoint string) http.Handler {
	mcpHandler := server.NewStreamableHTTPServer(
		s.MCP(),
		server.WithEndpointPath(endpoint),
		server.WithHTTPContextFunc(httpContextFunc),
	)
	if s.events == nil {
		return mcpHandler
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, mcpHandler)
	mux.HandleFunc(endpoint+"/events", s.events.HandleSSE)
	mux.HandleFunc(endpoint+"/events/clients", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		clients := s.events.ConnectedClients()
		json.NewEncoder(w).Encode(map[string]any{
			"connectedClients": len(clients),
			"clients":          clients,
		})
	})
	return mux
}
