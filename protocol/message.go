package protocol

import (
	"encoding/json"
	"fmt"
)

// Type identifies a tagged message
type Type string

const (
	TypeToolCall         Type = "tool_call"
	TypeToolResponse     Type = "tool_response"
	TypeResourceRequest  Type = "resource_request"
	TypeResourceResponse Type = "resource_response"
	TypeError            Type = "error"
	TypeHandshake        Type = "handshake"
)

// Message is a tagged envelope: {"type": "...", "data": {...}}
type Message struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ToolCall requests a tool invocation
type ToolCall struct {
	CallID     string          `json:"call_id"`
	Name       string          `json:"name"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// ToolResponse answers a tool call
type ToolResponse struct {
	CallID   string          `json:"call_id"`
	Response json.RawMessage `json:"response"`
}

// ResourceRequest requests a resource
type ResourceRequest struct {
	RequestID string `json:"request_id"`
	URI       string `json:"uri"`
}

// ResourceResponse answers a resource request
type ResourceResponse struct {
	RequestID string          `json:"request_id"`
	Resource  json.RawMessage `json:"resource"`
}

// Error reports a failure, optionally tied to a pending request
type Error struct {
	Code        string  `json:"code"`
	Message     string  `json:"message"`
	ReferenceID *string `json:"reference_id,omitempty"`
}

// Handshake announces a server connection
type Handshake struct {
	Version    string      `json:"version"`
	ServerInfo *ServerInfo `json:"server_info,omitempty"`
}

// Parse decodes a tagged envelope and checks its type
func Parse(raw string) (*Message, error) {
	msg := &Message{}
	if err := json.Unmarshal([]byte(raw), msg); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}
	switch msg.Type {
	case TypeToolCall, TypeToolResponse, TypeResourceRequest, TypeResourceResponse, TypeError, TypeHandshake:
	case "":
		return nil, fmt.Errorf("invalid message: missing type")
	default:
		return nil, fmt.Errorf("invalid message: unsupported type %q", msg.Type)
	}
	return msg, nil
}

// Decode unmarshals message data into dest
func (m *Message) Decode(dest interface{}) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("%s: missing data", m.Type)
	}
	if err := json.Unmarshal(m.Data, dest); err != nil {
		return fmt.Errorf("%s: invalid data: %w", m.Type, err)
	}
	return nil
}

// NewMessage builds an envelope
func NewMessage(messageType Type, data interface{}) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: messageType, Data: raw}, nil
}

// String returns the JSON form of the envelope
func (m *Message) String() string {
	data, _ := json.Marshal(m)
	return string(data)
}
