package gosdk

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Transport types
const (
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
)

func (e *Engine) defaultTransport(ctx context.Context, serverURL string) (mcp.Transport, error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", serverURL, err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "stdio":
		command := parsed.Host + parsed.Path
		if command == "" {
			return nil, fmt.Errorf("command is required for stdio transport")
		}
		return &mcp.CommandTransport{Command: exec.Command(command, parsed.Query()["arg"]...)}, nil
	case "http", "https":
		if e.transportType == TransportSSE {
			return &mcp.SSEClientTransport{Endpoint: serverURL, HTTPClient: e.httpClient}, nil
		}
		return &mcp.StreamableClientTransport{Endpoint: serverURL, HTTPClient: e.httpClient}, nil
	}
	return nil, fmt.Errorf("unsupported server URL scheme %q", parsed.Scheme)
}
