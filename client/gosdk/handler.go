package gosdk

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
	"github.com/viant/mcpbridge/protocol"
)

var errorLevels = map[mcp.LoggingLevel]bool{"error": true, "critical": true, "alert": true, "emergency": true}

func (e *Engine) clientOptions() *mcp.ClientOptions {
	return &mcp.ClientOptions{
		ElicitationHandler: func(ctx context.Context, req *mcp.ElicitRequest) (*mcp.ElicitResult, error) {
			result := &mcp.ElicitResult{}
			if err := e.ask(ctx, "elicitation/create", req.Params, result); err != nil {
				return nil, err
			}
			return result, nil
		},
		CreateMessageHandler: func(ctx context.Context, req *mcp.CreateMessageRequest) (*mcp.CreateMessageResult, error) {
			result := &mcp.CreateMessageResult{}
			if err := e.ask(ctx, "sampling/createMessage", req.Params, result); err != nil {
				return nil, err
			}
			return result, nil
		},
		LoggingMessageHandler: func(ctx context.Context, req *mcp.LoggingMessageRequest) {
			e.onLog(req.Params)
		},
		ToolListChangedHandler: func(ctx context.Context, req *mcp.ToolListChangedRequest) {
			e.forward("notifications/tools/list_changed", req.Params)
		},
		ResourceListChangedHandler: func(ctx context.Context, req *mcp.ResourceListChangedRequest) {
			e.forward("notifications/resources/list_changed", req.Params)
		},
		ResourceUpdatedHandler: func(ctx context.Context, req *mcp.ResourceUpdatedNotificationRequest) {
			e.forward("notifications/resources/updated", req.Params)
		},
		ProgressNotificationHandler: func(ctx context.Context, req *mcp.ProgressNotificationClientRequest) {
			e.forward("notifications/progress", req.Params)
		},
	}
}

// ask relays a server request to the host as a tool-call event and decodes the host answer into dest
func (e *Engine) ask(ctx context.Context, method string, params interface{}, dest interface{}) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	id, replies := e.relay.Open()
	if !e.callbacks.Emit(native.EventToolCall, &protocol.ToolCallEvent{CallID: id, Name: method, Parameters: data}) {
		e.relay.Cancel(id)
		return fmt.Errorf("%s is not supported by the host", method)
	}
	if e.relayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.relayTimeout)
		defer cancel()
	}
	answer, err := e.relay.Await(ctx, id, replies)
	if err != nil {
		e.logger.Debug("relayed request failed", logger.String("method", method), logger.String("id", id), logger.Err(err))
		return err
	}
	return json.Unmarshal(answer, dest)
}

func (e *Engine) onLog(params *mcp.LoggingMessageParams) {
	if params == nil {
		return
	}
	if errorLevels[params.Level] {
		data, _ := json.Marshal(params.Data)
		e.callbacks.Emit(native.EventError, &protocol.ErrorEvent{Code: string(params.Level), Message: string(data)})
		return
	}
	e.forward("notifications/message", params)
}

func (e *Engine) forward(method string, params interface{}) {
	data, err := json.Marshal(params)
	if err != nil || string(data) == "null" {
		data = []byte("{}")
	}
	e.callbacks.Emit(method, data)
}
