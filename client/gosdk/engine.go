package gosdk

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
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
	"github.com/viant/mcpbridge/protocol"
)

var errNotConnected = errors.New("client is not connected")

var handleSequence atomic.Uint64

// Engine is a native.Handle backed by the official MCP Go SDK
type Engine struct {
	info          *mcp.Implementation
	transportType string
	httpClient    *http.Client
	newTransport  TransportFunc
	relayTimeout  time.Duration
	logger        logger.Logger

	callbacks *native.Callbacks
	relay     *native.Relay

	lifecycle  sync.Mutex
	mux        sync.RWMutex
	handleID   uint64
	session    *mcp.ClientSession
	connected  bool
	serverInfo *protocol.ServerInfo
}

// Init resets the engine and returns a new non-zero handle id
func (e *Engine) Init(ctx context.Context) (uint64, error) {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	e.close(false)
	id := handleSequence.Add(1)
	e.mux.Lock()
	e.handleID = id
	e.mux.Unlock()
	return id, nil
}

// Connect opens an SDK session with serverURL
func (e *Engine) Connect(ctx context.Context, serverURL string) (bool, error) {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	e.mux.RLock()
	initialized := e.handleID != 0
	e.mux.RUnlock()
	if !initialized {
		return false, nil
	}
	e.close(false)

	sdkTransport, err := e.newTransport(ctx, serverURL)
	if err != nil {
		e.connectFailed(serverURL, err)
		return false, nil
	}
	sdkClient := mcp.NewClient(e.info, e.clientOptions())
	session, err := sdkClient.Connect(ctx, sdkTransport, nil)
	if err != nil {
		e.connectFailed(serverURL, err)
		return false, nil
	}
	info := &protocol.ServerInfo{}
	if result := session.InitializeResult(); result != nil && result.ServerInfo != nil {
		info.Name = result.ServerInfo.Name
		info.Version = result.ServerInfo.Version
	}
	if listed, err := session.ListTools(ctx, &mcp.ListToolsParams{}); err == nil {
		if info.Tools, err = protocol.ToolsFromList(listed); err != nil {
			e.logger.Debug("unable to convert tools", logger.Err(err))
		}
	} else {
		e.logger.Debug("tools/list failed", logger.String("url", serverURL), logger.Err(err))
	}
	e.mux.Lock()
	e.session = session
	e.connected = true
	e.serverInfo = info
	e.mux.Unlock()
	go e.monitor(session)
	e.logger.Info("connected", logger.String("url", serverURL), logger.String("server", info.Name))
	e.callbacks.Emit(native.EventConnectionState, &protocol.ConnectionState{Connected: true, ServerName: info.Name})
	return true, nil
}

func (e *Engine) connectFailed(serverURL string, err error) {
	e.logger.Warn("connect failed", logger.String("url", serverURL), logger.Err(err))
	e.callbacks.Emit(native.EventError, &protocol.ErrorEvent{Code: protocol.CodeConnectionFailed, Message: err.Error()})
}

// monitor reports a session that ends without Disconnect
func (e *Engine) monitor(session *mcp.ClientSession) {
	err := session.Wait()
	e.mux.Lock()
	if e.session != session || !e.connected {
		e.mux.Unlock()
		return
	}
	e.session = nil
	e.connected = false
	e.mux.Unlock()
	message := "session closed"
	if err != nil {
		message = err.Error()
	}
	e.logger.Warn("connection lost", logger.String("reason", message))
	e.callbacks.Emit(native.EventConnectionState, &protocol.ConnectionState{Connected: false})
	e.callbacks.Emit(native.EventError, &protocol.ErrorEvent{Code: protocol.CodeConnectionLost, Message: message})
}

// Disconnect closes the session; disconnecting an idle engine succeeds
func (e *Engine) Disconnect(ctx context.Context) (bool, error) {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	e.close(true)
	return true, nil
}

func (e *Engine) close(notify bool) {
	e.mux.Lock()
	session := e.session
	wasConnected := e.connected
	e.session = nil
	e.connected = false
	e.serverInfo = nil
	e.mux.Unlock()
	if session != nil {
		if err := session.Close(); err != nil {
			e.logger.Debug("session close failed", logger.Err(err))
		}
	}
	if notify && wasConnected {
		e.callbacks.Emit(native.EventConnectionState, &protocol.ConnectionState{Connected: false})
	}
}

// IsConnected reports the current connection state
func (e *Engine) IsConnected(ctx context.Context) (bool, error) {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.connected, nil
}

// CallTool calls a tool. Parameter and protocol errors are returned as an error body payload.
func (e *Engine) CallTool(ctx context.Context, toolName string, parametersJSON string) (string, error) {
	arguments := map[string]interface{}{}
	if parametersJSON != "" {
		if err := json.Unmarshal([]byte(parametersJSON), &arguments); err != nil {
			return protocol.ErrorJSON(protocol.CodeInvalidParams, fmt.Sprintf("unable to parse tool parameters: %v", err)), nil
		}
	}
	session := e.current()
	if session == nil {
		return protocol.ErrorJSON(protocol.CodeNotConnected, errNotConnected.Error()), nil
	}
	parameters := parametersJSON
	if parameters == "" {
		parameters = "{}"
	}
	e.callbacks.Emit(native.EventToolCall, &protocol.ToolCallEvent{CallID: uuid.New().String(), Name: toolName, Parameters: json.RawMessage(parameters)})
	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: toolName, Arguments: arguments})
	return payload(ctx, "tools/call", result, err, protocol.CodeToolCallError)
}

// RequestResource reads a resource. Protocol errors are returned as an error body payload.
func (e *Engine) RequestResource(ctx context.Context, uri string) (string, error) {
	session := e.current()
	if session == nil {
		return protocol.ErrorJSON(protocol.CodeNotConnected, errNotConnected.Error()), nil
	}
	e.callbacks.Emit(native.EventResourceRequest, &protocol.ResourceRequestEvent{RequestID: uuid.New().String(), URI: uri})
	result, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
	return payload(ctx, "resources/read", result, err, protocol.CodeResourceRequestError)
}

// payload renders a result; a closed session or an expired context is a fault, anything else a server error body
func payload(ctx context.Context, method string, result interface{}, err error, errorCode string) (string, error) {
	if err != nil {
		if errors.Is(err, mcp.ErrConnectionClosed) || ctx.Err() != nil {
			return "", &native.Fault{Detail: fmt.Sprintf("%s: %v", method, err), Cause: err}
		}
		return protocol.ErrorJSON(errorCode, err.Error()), nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", native.NewFault("%s: unable to encode result: %v", method, err)
	}
	return string(data), nil
}

// GetServerInfo returns the connected server info, "null" when unknown
func (e *Engine) GetServerInfo(ctx context.Context) (string, error) {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.serverInfo.JSON(), nil
}

// HandleInput processes a tagged host message
func (e *Engine) HandleInput(ctx context.Context, message string) (bool, error) {
	return e.relay.Input(message), nil
}

// RegisterEventCallback sets the callback for eventName
func (e *Engine) RegisterEventCallback(eventName string, callback native.EventCallback) error {
	e.callbacks.Register(eventName, callback)
	return nil
}

func (e *Engine) onHandshake(handshake *protocol.Handshake) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.connected = true
	if handshake.ServerInfo != nil {
		e.serverInfo = handshake.ServerInfo
	}
}

func (e *Engine) current() *mcp.ClientSession {
	e.mux.RLock()
	defer e.mux.RUnlock()
	if !e.connected {
		return nil
	}
	return e.session
}

// New creates an engine
func New(name, version string, options ...Option) *Engine {
	ret := &Engine{
		info:          &mcp.Implementation{Name: name, Version: version},
		transportType: TransportStreamable,
		relayTimeout:  DefaultRelayTimeout,
		logger:        logger.Nop(),
		callbacks:     native.NewCallbacks(),
	}
	ret.newTransport = ret.defaultTransport
	for _, opt := range options {
		opt(ret)
	}
	ret.relay = native.NewRelay(ret.callbacks, ret.onHandshake)
	return ret
}

var _ native.Handle = (*Engine)(nil)
