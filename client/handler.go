package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
	"github.com/viant/mcpbridge/protocol"
)

var errorLevels = map[string]bool{"error": true, "critical": true, "alert": true, "emergency": true}

// Handler serves server initiated requests by relaying them to the host as events
type Handler struct {
	client *Client
}

func (h *Handler) Serve(ctx context.Context, request *jsonrpc.Request, response *jsonrpc.Response) {
	response.Id = request.Id
	response.Jsonrpc = request.Jsonrpc
	if request.Method == schema.MethodPing {
		response.Result = []byte("{}")
		return
	}
	relay := h.client.relay
	id, replies := relay.Open()
	var delivered bool
	switch request.Method {
	case schema.MethodRootsList:
		delivered = h.client.callbacks.Emit(native.EventResourceRequest, &protocol.ResourceRequestEvent{RequestID: id, URI: request.Method})
	default:
		delivered = h.client.callbacks.Emit(native.EventToolCall, &protocol.ToolCallEvent{CallID: id, Name: request.Method, Parameters: json.RawMessage(request.Params)})
	}
	if !delivered {
		relay.Cancel(id)
		response.Error = jsonrpc.NewMethodNotFound(fmt.Sprintf("method %s not found", request.Method), nil)
		return
	}
	if h.client.relayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.client.relayTimeout)
		defer cancel()
	}
	result, err := relay.Await(ctx, id, replies)
	if err != nil {
		h.client.logger.Debug("relayed request failed", logger.String("method", request.Method), logger.String("id", id), logger.Err(err))
		response.Error = jsonrpc.NewInternalError(err.Error(), nil)
		return
	}
	if len(result) == 0 {
		result = []byte("{}")
	}
	response.Result = result
}

// OnNotification forwards server notifications as events
func (h *Handler) OnNotification(ctx context.Context, notification *jsonrpc.Notification) {
	if notification.Method == schema.MethodNotificationMessage {
		message := struct {
			Level  string          `json:"level"`
			Logger string          `json:"logger,omitempty"`
			Data   json.RawMessage `json:"data"`
		}{}
		if err := json.Unmarshal(notification.Params, &message); err == nil && errorLevels[message.Level] {
			h.client.callbacks.Emit(native.EventError, &protocol.ErrorEvent{Code: message.Level, Message: string(message.Data)})
			return
		}
	}
	params := []byte(notification.Params)
	if len(params) == 0 {
		params = []byte("{}")
	}
	h.client.callbacks.Emit(notification.Method, params)
}
