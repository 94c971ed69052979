package client

import (
	"net/http"
	"time"

	"github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpbridge/client/auth"
	"github.com/viant/mcpbridge/logger"
)

const (
	// DefaultPingInterval keeps sessions warm and detects dropped connections
	DefaultPingInterval = 60 * time.Second
	// DefaultRelayTimeout bounds how long a server request waits for the host answer
	DefaultRelayTimeout = 2 * time.Minute
)

// Option represents option
type Option func(c *Client)

// WithCapabilities set capabilities
func WithCapabilities(capabilities schema.ClientCapabilities) Option {
	return func(c *Client) {
		c.capabilities = capabilities
	}
}

// WithProtocolVersion sets the protocol version sent on initialize
func WithProtocolVersion(version string) Option {
	return func(c *Client) {
		c.protocolVersion = version
	}
}

// WithTransportType selects the HTTP transport: auto, sse or streamable
func WithTransportType(transportType string) Option {
	return func(c *Client) {
		if transportType != "" {
			c.transportType = transportType
		}
	}
}

// WithHTTPClient sets the HTTP client used by HTTP transports
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithDialer replaces transport construction
func WithDialer(dial Dialer) Option {
	return func(c *Client) {
		c.dial = dial
	}
}

// WithAuthorizer retries unauthorized JSON-RPC responses with a token
func WithAuthorizer(authorizer *auth.Authorizer) Option {
	return func(c *Client) {
		c.authorizer = authorizer
	}
}

// WithPingInterval sets the keepalive interval; zero or less disables keepalive
func WithPingInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pingInterval = interval
	}
}

// WithRelayTimeout bounds how long server requests wait for the host
func WithRelayTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.relayTimeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}
