package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	"github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpbridge/client/auth"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
	"github.com/viant/mcpbridge/protocol"
)

var errNotConnected = errors.New("client is not connected")

var handleSequence atomic.Uint64

// Dialer opens a JSON-RPC transport to serverURL; handler serves server initiated messages
type Dialer func(ctx context.Context, serverURL string, handler transport.Handler) (transport.Transport, error)

// Client is a native.Handle backed by viant/jsonrpc transports
type Client struct {
	info            schema.Implementation
	capabilities    schema.ClientCapabilities
	protocolVersion string
	transportType   string
	httpClient      *http.Client
	dial            Dialer
	authorizer      *auth.Authorizer
	pingInterval    time.Duration
	relayTimeout    time.Duration
	logger          logger.Logger

	callbacks *native.Callbacks
	relay     *native.Relay

	lifecycle  sync.Mutex
	mux        sync.RWMutex
	handleID   uint64
	transport  transport.Transport
	connected  bool
	serverInfo *protocol.ServerInfo
	stopPing   context.CancelFunc
}

// Init resets the client and returns a new non-zero handle id
func (c *Client) Init(ctx context.Context) (uint64, error) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.close(false)
	id := handleSequence.Add(1)
	c.mux.Lock()
	c.handleID = id
	c.mux.Unlock()
	return id, nil
}

// Connect dials serverURL and performs the MCP initialize handshake
func (c *Client) Connect(ctx context.Context, serverURL string) (bool, error) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.mux.RLock()
	initialized := c.handleID != 0
	c.mux.RUnlock()
	if !initialized {
		return false, nil
	}
	c.close(false)

	rpcTransport, err := c.dial(ctx, serverURL, &Handler{client: c})
	if err != nil {
		c.connectFailed(serverURL, err)
		return false, nil
	}
	c.mux.Lock()
	c.transport = rpcTransport
	c.mux.Unlock()

	info, err := c.initialize(ctx)
	if err != nil {
		c.close(false)
		c.connectFailed(serverURL, err)
		return false, nil
	}
	if tools, err := c.listTools(ctx); err == nil {
		info.Tools = tools
	} else {
		c.logger.Debug("tools/list failed", logger.String("url", serverURL), logger.Err(err))
	}
	c.mux.Lock()
	c.connected = true
	c.serverInfo = info
	c.mux.Unlock()
	c.startPing(rpcTransport)
	c.logger.Info("connected", logger.String("url", serverURL), logger.String("server", info.Name))
	c.callbacks.Emit(native.EventConnectionState, &protocol.ConnectionState{Connected: true, ServerName: info.Name})
	return true, nil
}

func (c *Client) connectFailed(serverURL string, err error) {
	c.logger.Warn("connect failed", logger.String("url", serverURL), logger.Err(err))
	c.callbacks.Emit(native.EventError, &protocol.ErrorEvent{Code: protocol.CodeConnectionFailed, Message: err.Error()})
}

// Disconnect closes the transport; disconnecting an idle client succeeds
func (c *Client) Disconnect(ctx context.Context) (bool, error) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	c.close(true)
	return true, nil
}

// close releases the transport; the caller holds the lifecycle lock
func (c *Client) close(notify bool) {
	c.mux.Lock()
	rpcTransport := c.transport
	wasConnected := c.connected
	stopPing := c.stopPing
	c.transport = nil
	c.connected = false
	c.serverInfo = nil
	c.stopPing = nil
	c.mux.Unlock()
	if stopPing != nil {
		stopPing()
	}
	if closer, ok := rpcTransport.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			c.logger.Debug("transport close failed", logger.Err(err))
		}
	}
	if notify && wasConnected {
		c.callbacks.Emit(native.EventConnectionState, &protocol.ConnectionState{Connected: false})
	}
}

// IsConnected reports the current connection state
func (c *Client) IsConnected(ctx context.Context) (bool, error) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.connected, nil
}

// CallTool calls a tool. Parameter and protocol errors are returned as an error body payload.
func (c *Client) CallTool(ctx context.Context, toolName string, parametersJSON string) (string, error) {
	arguments := map[string]interface{}{}
	if parametersJSON != "" {
		if err := json.Unmarshal([]byte(parametersJSON), &arguments); err != nil {
			return protocol.ErrorJSON(protocol.CodeInvalidParams, fmt.Sprintf("unable to parse tool parameters: %v", err)), nil
		}
	}
	if !c.isConnected() {
		return protocol.ErrorJSON(protocol.CodeNotConnected, errNotConnected.Error()), nil
	}
	callID := uuid.New().String()
	c.callbacks.Emit(native.EventToolCall, &protocol.ToolCallEvent{CallID: callID, Name: toolName, Parameters: json.RawMessage(normalize(parametersJSON))})
	params := &schema.CallToolRequestParams{Name: toolName, Arguments: arguments}
	result, err := send[schema.CallToolRequestParams, json.RawMessage](ctx, c, schema.MethodToolsCall, params)
	return c.payload(result, err, protocol.CodeToolCallError)
}

// RequestResource reads a resource. Protocol errors are returned as an error body payload.
func (c *Client) RequestResource(ctx context.Context, uri string) (string, error) {
	if !c.isConnected() {
		return protocol.ErrorJSON(protocol.CodeNotConnected, errNotConnected.Error()), nil
	}
	c.callbacks.Emit(native.EventResourceRequest, &protocol.ResourceRequestEvent{RequestID: uuid.New().String(), URI: uri})
	params := &schema.ReadResourceRequestParams{Uri: uri}
	result, err := send[schema.ReadResourceRequestParams, json.RawMessage](ctx, c, schema.MethodResourcesRead, params)
	return c.payload(result, err, protocol.CodeResourceRequestError)
}

func (c *Client) payload(result *json.RawMessage, err error, errorCode string) (string, error) {
	if err != nil {
		var rpcErr *jsonrpc.Error
		if errors.As(err, &rpcErr) {
			return protocol.ErrorJSON(errorCode, rpcErr.Error()), nil
		}
		return "", err
	}
	if result == nil || len(*result) == 0 {
		return "null", nil
	}
	return string(*result), nil
}

// GetServerInfo returns the connected server info, "null" when unknown
func (c *Client) GetServerInfo(ctx context.Context) (string, error) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.serverInfo.JSON(), nil
}

// HandleInput processes a tagged host message
func (c *Client) HandleInput(ctx context.Context, message string) (bool, error) {
	return c.relay.Input(message), nil
}

// RegisterEventCallback sets the callback for eventName
func (c *Client) RegisterEventCallback(eventName string, callback native.EventCallback) error {
	c.callbacks.Register(eventName, callback)
	return nil
}

func (c *Client) onHandshake(handshake *protocol.Handshake) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.connected = true
	if handshake.ServerInfo != nil {
		c.serverInfo = handshake.ServerInfo
	}
}

func (c *Client) isConnected() bool {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.connected && c.transport != nil
}

func (c *Client) currentTransport() transport.Transport {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.transport
}

func (c *Client) initialize(ctx context.Context) (*protocol.ServerInfo, error) {
	params := &schema.InitializeRequestParams{
		Capabilities:    c.capabilities,
		ClientInfo:      c.info,
		ProtocolVersion: c.protocolVersion,
	}
	result, err := send[schema.InitializeRequestParams, json.RawMessage](ctx, c, schema.MethodInitialize, params)
	if err != nil {
		return nil, err
	}
	rpcTransport := c.currentTransport()
	if rpcTransport == nil {
		return nil, errNotConnected
	}
	if err = rpcTransport.Notify(ctx, &jsonrpc.Notification{Method: schema.MethodNotificationInitialized}); err != nil {
		return nil, fmt.Errorf("failed to notify initialized: %w", err)
	}
	var initResult map[string]interface{}
	if err = json.Unmarshal(*result, &initResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal initialize result: %w", err)
	}
	return protocol.ServerInfoFromInitialize(initResult)
}

func (c *Client) listTools(ctx context.Context) ([]protocol.Tool, error) {
	params := &schema.ListToolsRequestParams{}
	result, err := send[schema.ListToolsRequestParams, json.RawMessage](ctx, c, schema.MethodToolsList, params)
	if err != nil {
		return nil, err
	}
	var listed map[string]interface{}
	if err = json.Unmarshal(*result, &listed); err != nil {
		return nil, err
	}
	return protocol.ToolsFromList(listed)
}

func normalize(parametersJSON string) string {
	if parametersJSON == "" {
		return "{}"
	}
	return parametersJSON
}

// send issues a request; protocol errors are *jsonrpc.Error, transport failures are *native.Fault
func send[P any, R any](ctx context.Context, client *Client, method string, parameters *P) (*R, error) {
	rpcTransport := client.currentTransport()
	if rpcTransport == nil {
		return nil, native.AsFault(errNotConnected)
	}
	req, err := jsonrpc.NewRequest(method, parameters)
	if err != nil {
		return nil, jsonrpc.NewInvalidRequest(err.Error(), nil)
	}
	response, err := rpcTransport.Send(ctx, req)
	if err != nil {
		return nil, &native.Fault{Detail: fmt.Sprintf("%s: transport failure: %v", method, err), Cause: err}
	}
	if client.authorizer != nil && response != nil {
		nextReq, interceptErr := client.authorizer.Intercept(ctx, req, response)
		if interceptErr != nil {
			return nil, jsonrpc.NewInternalError(interceptErr.Error(), nil)
		}
		if nextReq != nil {
			if response, err = rpcTransport.Send(ctx, nextReq); err != nil {
				return nil, &native.Fault{Detail: fmt.Sprintf("%s: transport failure: %v", method, err), Cause: err}
			}
		}
	}
	if response == nil {
		return nil, native.NewFault("%s: empty response", method)
	}
	if response.Error != nil {
		return nil, response.Error
	}
	var result R
	if err = json.Unmarshal(response.Result, &result); err != nil {
		return nil, jsonrpc.NewInternalError(fmt.Sprintf("failed to unmarshal %s result: %v", method, err), nil)
	}
	return &result, nil
}

// New creates a client
func New(name, version string, options ...Option) *Client {
	ret := &Client{
		info:          *schema.NewImplementation(name, version),
		transportType: TransportAuto,
		pingInterval:  DefaultPingInterval,
		relayTimeout:  DefaultRelayTimeout,
		logger:        logger.Nop(),
		callbacks:     native.NewCallbacks(),
	}
	ret.dial = ret.defaultDial
	for _, opt := range options {
		opt(ret)
	}
	if ret.protocolVersion == "" {
		ret.protocolVersion = schema.LatestProtocolVersion
	}
	if ret.capabilities.Experimental == nil {
		ret.capabilities.Experimental = map[string]map[string]interface{}{}
	}
	ret.relay = native.NewRelay(ret.callbacks, ret.onHandshake)
	return ret
}

var _ native.Handle = (*Client)(nil)
