package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/viant/mcpbridge/bridge"
)

// Host protocol method names
const (
	MethodInitialize      = "initialize"
	MethodConnect         = "connect"
	MethodDisconnect      = "disconnect"
	MethodIsConnected     = "isConnected"
	MethodCallTool        = "callTool"
	MethodRequestResource = "requestResource"
	MethodGetServerInfo   = "getServerInfo"
	MethodHandleInput     = "handleInput"
	MethodAddListener     = "addListener"
	MethodSubscribe       = "subscribe"
	MethodRemoveListeners = "removeListeners"
	MethodUnsubscribe     = "unsubscribe"

	// MethodEvent is the notification carrying native events to the host
	MethodEvent = "mcp/event"

	// RejectionCode is the JSON-RPC error code of a rejected bridge call
	RejectionCode = -32000
)

type method struct {
	op   bridge.Operation
	args []string
	call func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error)
}

var methods = map[string]*method{
	MethodInitialize: {op: bridge.OpInitialize, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		return service.Initialize(ctx).Await(ctx)
	}},
	MethodConnect: {op: bridge.OpConnect, args: []string{"serverUrl"}, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		serverURL, err := bridge.RequireArg(bridge.OpConnect, "serverUrl", args[0])
		if err != nil {
			return nil, err
		}
		return service.Connect(ctx, serverURL).Await(ctx)
	}},
	MethodDisconnect: {op: bridge.OpDisconnect, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		return service.Disconnect(ctx).Await(ctx)
	}},
	MethodIsConnected: {op: bridge.OpIsConnected, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		return service.IsConnected(ctx).Await(ctx)
	}},
	MethodCallTool: {op: bridge.OpCallTool, args: []string{"toolName", "parametersJson"}, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		toolName, err := bridge.RequireArg(bridge.OpCallTool, "toolName", args[0])
		if err != nil {
			return nil, err
		}
		parameters, err := bridge.RequireArg(bridge.OpCallTool, "parametersJson", args[1])
		if err != nil {
			return nil, err
		}
		return service.CallTool(ctx, toolName, parameters).Await(ctx)
	}},
	MethodRequestResource: {op: bridge.OpRequestResource, args: []string{"uri"}, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		uri, err := bridge.RequireArg(bridge.OpRequestResource, "uri", args[0])
		if err != nil {
			return nil, err
		}
		return service.RequestResource(ctx, uri).Await(ctx)
	}},
	MethodGetServerInfo: {op: bridge.OpGetServerInfo, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		return service.GetServerInfo(ctx).Await(ctx)
	}},
	MethodHandleInput: {op: bridge.OpHandleInput, args: []string{"message"}, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		message, err := bridge.RequireArg(bridge.OpHandleInput, "message", args[0])
		if err != nil {
			return nil, err
		}
		return service.HandleInput(ctx, message).Await(ctx)
	}},
}

var listenerMethods = map[string]*method{
	MethodAddListener: {args: []string{"eventName"}, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		if args[0] == nil || *args[0] == "" {
			return nil, fmt.Errorf("eventName is required")
		}
		if err := service.Subscribe(*args[0]); err != nil {
			return nil, err
		}
		return nil, nil
	}},
	MethodRemoveListeners: {args: []string{"count"}, call: func(ctx context.Context, service *bridge.Service, args []*string) (interface{}, error) {
		count := 0
		if args[0] != nil {
			count, _ = strconv.Atoi(*args[0])
		}
		service.Unsubscribe(count)
		return nil, nil
	}},
}

func init() {
	listenerMethods[MethodSubscribe] = listenerMethods[MethodAddListener]
	listenerMethods[MethodUnsubscribe] = listenerMethods[MethodRemoveListeners]
}

func lookup(name string) (*method, bool) {
	if ret, ok := methods[name]; ok {
		return ret, true
	}
	ret, ok := listenerMethods[name]
	return ret, ok
}

// decodeArgs reads named (object) or positional (array) params. Missing and null values are nil;
// non string values are kept as their JSON text.
func decodeArgs(params []byte, names []string) ([]*string, error) {
	ret := make([]*string, len(names))
	params = bytes.TrimSpace(params)
	if len(names) == 0 || len(params) == 0 || string(params) == "null" {
		return ret, nil
	}
	var values []json.RawMessage
	switch params[0] {
	case '{':
		named := map[string]json.RawMessage{}
		if err := json.Unmarshal(params, &named); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
		for _, name := range names {
			values = append(values, named[name])
		}
	case '[':
		if err := json.Unmarshal(params, &values); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid params: expected object or array")
	}
	for i := range names {
		if i >= len(values) {
			break
		}
		ret[i] = argValue(values[i])
	}
	return ret, nil
}

func argValue(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var text string
	if raw[0] == '"' && json.Unmarshal(raw, &text) == nil {
		return &text
	}
	text = string(raw)
	return &text
}
