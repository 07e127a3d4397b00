// Package transport wires the HTTP routes of the MCP server.
package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// SessionTimeout closes idle streamable HTTP sessions.
const SessionTimeout = 30 * time.Minute

// NewRouter serves server on /mcp and a liveness probe on /health.
// auth, if non-nil, guards the MCP routes only.
func NewRouter(server *sdkmcp.Server, auth func(http.Handler) http.Handler) *chi.Mux {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: SessionTimeout},
	)

	r := chi.NewRouter()
	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if auth != nil {
			r.Use(auth)
		}
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
