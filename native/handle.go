package native

import "context"

// Event names emitted by native clients. Any other name is accepted by the registry.
const (
	EventConnectionState = "connection-state"
	EventToolCall        = "tool-call"
	EventResourceRequest = "resource-request"
	EventError           = "error"
)

// EventCallback receives native events; payload is opaque to the bridge
type EventCallback func(eventName string, payload string)

// Handle represents the single native MCP client driven by the bridge.
//
// Init returns a non-zero creation id on success. A false boolean result is a normal outcome,
// not a failure. Returned errors and panics are treated as native faults by the caller.
// Implementations must be safe for concurrent use.
type Handle interface {
	Init(ctx context.Context) (uint64, error)

	Connect(ctx context.Context, serverURL string) (bool, error)

	Disconnect(ctx context.Context) (bool, error)

	IsConnected(ctx context.Context) (bool, error)

	CallTool(ctx context.Context, toolName string, parametersJSON string) (string, error)

	RequestResource(ctx context.Context, uri string) (string, error)

	// GetServerInfo returns the server info JSON, or "null" when unknown
	GetServerInfo(ctx context.Context) (string, error)

	// HandleInput processes a tagged message pushed by the host
	HandleInput(ctx context.Context, message string) (bool, error)

	// RegisterEventCallback sets the callback for an event name, replacing any previous one
	RegisterEventCallback(eventName string, callback EventCallback) error
}
