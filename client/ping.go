package client

import (
	"context"
	"time"

	"github.com/viant/jsonrpc/transport"
	"github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
	"github.com/viant/mcpbridge/protocol"
)

func (c *Client) startPing(rpcTransport transport.Transport) {
	if c.pingInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.mux.Lock()
	c.stopPing = cancel
	c.mux.Unlock()
	go c.keepAlive(ctx, rpcTransport)
}

func (c *Client) keepAlive(ctx context.Context, rpcTransport transport.Transport) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, c.pingInterval)
			_, err := send[schema.PingRequestParams, schema.PingResult](pingCtx, c, schema.MethodPing, &schema.PingRequestParams{})
			cancel()
			if err == nil || ctx.Err() != nil {
				continue
			}
			c.connectionLost(rpcTransport, err)
			return
		}
	}
}

// connectionLost marks the client disconnected when rpcTransport is still current
func (c *Client) connectionLost(rpcTransport transport.Transport, cause error) {
	c.mux.Lock()
	if c.transport != rpcTransport || !c.connected {
		c.mux.Unlock()
		return
	}
	c.connected = false
	stopPing := c.stopPing
	c.stopPing = nil
	c.mux.Unlock()
	if stopPing != nil {
		stopPing()
	}
	c.logger.Warn("connection lost", logger.Err(cause))
	c.callbacks.Emit(native.EventConnectionState, &protocol.ConnectionState{Connected: false})
	c.callbacks.Emit(native.EventError, &protocol.ErrorEvent{Code: protocol.CodeConnectionLost, Message: cause.Error()})
}
