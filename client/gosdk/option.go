package gosdk

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/viant/mcpbridge/logger"
)

// DefaultRelayTimeout bounds how long a server request waits for the host answer
const DefaultRelayTimeout = 2 * time.Minute

// TransportFunc creates an SDK transport for a server URL
type TransportFunc func(ctx context.Context, serverURL string) (mcp.Transport, error)

// Option represents engine option
type Option func(e *Engine)

// WithTransport replaces transport construction
func WithTransport(fn TransportFunc) Option {
	return func(e *Engine) {
		e.newTransport = fn
	}
}

// WithTransportType selects the HTTP transport: sse or streamable
func WithTransportType(transportType string) Option {
	return func(e *Engine) {
		if transportType != "" {
			e.transportType = transportType
		}
	}
}

// WithHTTPClient sets the HTTP client used by HTTP transports
func WithHTTPClient(httpClient *http.Client) Option {
	return func(e *Engine) {
		e.httpClient = httpClient
	}
}

// WithRelayTimeout bounds how long server requests wait for the host
func WithRelayTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.relayTimeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}
