package server

import (
	"context"
	"encoding/json"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport"
	"github.com/viant/mcpbridge/logger"
)

// Handler serves host protocol requests for one JSON-RPC connection
type Handler struct {
	server   *Server
	notifier transport.Notifier
	detach   func()
}

// Serve handles incoming JSON-RPC requests
func (h *Handler) Serve(ctx context.Context, request *jsonrpc.Request, response *jsonrpc.Response) {
	response.Id = request.Id
	response.Jsonrpc = jsonrpc.Version
	if jsonrpc.Version != request.Jsonrpc {
		response.Error = jsonrpc.NewInvalidRequest("invalid JSON-RPC version", nil)
		return
	}
	result, err := h.server.Call(ctx, request.Method, request.Params)
	if err != nil {
		response.Error = h.server.rpcError(request.Method, err)
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		response.Error = jsonrpc.NewInternalError(err.Error(), nil)
		return
	}
	response.Result = data
}

// OnNotification handles fire-and-forget calls such as addListener
func (h *Handler) OnNotification(ctx context.Context, notification *jsonrpc.Notification) {
	if _, ok := listenerMethods[notification.Method]; !ok {
		h.server.logger.Debug("notification ignored", logger.String("method", notification.Method))
		return
	}
	if _, err := h.server.Call(ctx, notification.Method, notification.Params); err != nil {
		h.server.logger.Warn("notification failed", logger.String("method", notification.Method), logger.Err(err))
	}
}

// notify sends an event to the host as an mcp/event notification
func (h *Handler) notify(eventName string, payload string) error {
	params, err := json.Marshal(map[string]string{"name": eventName, "payload": payload})
	if err != nil {
		return err
	}
	return h.notifier.Notify(context.Background(), &jsonrpc.Notification{Method: MethodEvent, Params: params})
}

// NewHandler creates a handler for a connection and attaches it to the event hub
func (s *Server) NewHandler(ctx context.Context, notifier transport.Transport) transport.Handler {
	return s.newHandler(ctx, notifier)
}

func (s *Server) newHandler(ctx context.Context, notifier transport.Notifier) *Handler {
	ret := &Handler{server: s, notifier: notifier}
	ret.detach = s.hub.Attach(ret.notify)
	go func() {
		<-ctx.Done()
		ret.detach()
	}()
	return ret
}
