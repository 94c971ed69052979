package protocol

import "encoding/json"

// ConnectionState is the connection-state event payload
type ConnectionState struct {
	Connected  bool   `json:"connected"`
	ServerName string `json:"server_name,omitempty"`
}

// ToolCallEvent is the tool-call event payload
type ToolCallEvent struct {
	CallID     string          `json:"call_id"`
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// ResourceRequestEvent is the resource-request event payload
type ResourceRequestEvent struct {
	RequestID string `json:"request_id"`
	URI       string `json:"uri"`
}

// ErrorEvent is the error event payload
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
