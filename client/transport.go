package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/viant/jsonrpc/transport"
	"github.com/viant/jsonrpc/transport/client/http/sse"
	"github.com/viant/jsonrpc/transport/client/http/streamable"
	"github.com/viant/jsonrpc/transport/client/stdio"
	"github.com/viant/mcpbridge/logger"
)

// Transport types
const (
	TransportAuto       = "auto"
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
)

// defaultDial picks a transport from the URL scheme: stdio:///path/to/server?arg=a&arg=b runs a
// local process, http(s) uses streamable HTTP or SSE.
func (c *Client) defaultDial(ctx context.Context, serverURL string, handler transport.Handler) (transport.Transport, error) {
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
		ret, err := stdio.New(command, stdio.WithHandler(handler), stdio.WithArguments(parsed.Query()["arg"]...))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdio transport: %w", err)
		}
		return ret, nil
	case "http", "https":
		transportType := c.transportType
		if transportType == TransportAuto {
			transportType = TransportSSE
			if isStreamable(ctx, serverURL, c.httpClient, c.protocolVersion) {
				transportType = TransportStreamable
			}
			c.logger.Debug("transport detected", logger.String("url", serverURL), logger.String("type", transportType))
		}
		return c.dialHTTP(ctx, transportType, serverURL, handler)
	default:
		return nil, fmt.Errorf("unsupported server URL scheme %q", parsed.Scheme)
	}
}

func (c *Client) dialHTTP(ctx context.Context, transportType, serverURL string, handler transport.Handler) (transport.Transport, error) {
	switch transportType {
	case TransportStreamable:
		opts := []streamable.Option{streamable.WithHandler(handler)}
		if c.httpClient != nil {
			opts = append(opts, streamable.WithHTTPClient(c.httpClient))
		}
		ret, err := streamable.New(ctx, serverURL, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create streamable transport: %w", err)
		}
		return ret, nil
	case TransportSSE:
		opts := []sse.Option{sse.WithHandler(handler)}
		if c.httpClient != nil {
			opts = append(opts, sse.WithHttpClient(c.httpClient), sse.WithMessageHttpClient(c.httpClient))
		}
		ret, err := sse.New(ctx, serverURL, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create SSE transport: %w", err)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("unsupported transport type %q", transportType)
}

// isStreamable tests the endpoint for Streamable HTTP by posting an initialize request
func isStreamable(ctx context.Context, endpoint string, httpClient *http.Client, protocolVersion string) bool {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	payload := []byte(fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"clientInfo":{"name":"mcp-bridge","version":"1"},"capabilities":{},"protocolVersion":%q}}`, protocolVersion))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	req.Header.Set("MCP-Protocol-Version", protocolVersion)
	resp, err := httpClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
