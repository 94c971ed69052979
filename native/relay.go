package native

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/viant/mcpbridge/internal/collection"
	"github.com/viant/mcpbridge/protocol"
)

// Reply is the host answer to a relayed request
type Reply struct {
	Result json.RawMessage
	Err    *protocol.Error
}

// HandshakeFunc is called when the host reports a server handshake
type HandshakeFunc func(handshake *protocol.Handshake)

// Relay routes host input messages to events and to requests waiting for a host answer
type Relay struct {
	callbacks   *Callbacks
	pending     *collection.SyncMap[string, chan *Reply]
	onHandshake HandshakeFunc
}

// Open registers a pending request and returns its id
func (r *Relay) Open() (string, <-chan *Reply) {
	id := uuid.New().String()
	ch := make(chan *Reply, 1)
	r.pending.Put(id, ch)
	return id, ch
}

// Await waits for the reply of a pending request
func (r *Relay) Await(ctx context.Context, id string, replies <-chan *Reply) (json.RawMessage, error) {
	defer r.pending.Delete(id)
	select {
	case reply := <-replies:
		if reply.Err != nil {
			return nil, fmt.Errorf("%s: %s", reply.Err.Code, reply.Err.Message)
		}
		return reply.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel drops a pending request
func (r *Relay) Cancel(id string) {
	r.pending.Delete(id)
}

// Pending returns the number of requests waiting for an answer
func (r *Relay) Pending() int {
	return r.pending.Len()
}

func (r *Relay) complete(id string, reply *Reply) bool {
	ch, ok := r.pending.Take(id)
	if !ok {
		return false
	}
	ch <- reply
	return true
}

// Input processes a tagged message. It returns false for malformed input or an answer nobody waits for.
func (r *Relay) Input(message string) bool {
	msg, err := protocol.Parse(message)
	if err != nil {
		return false
	}
	switch msg.Type {
	case protocol.TypeToolCall:
		call := &protocol.ToolCall{}
		if err = msg.Decode(call); err != nil {
			return false
		}
		if call.CallID == "" {
			call.CallID = uuid.New().String()
		}
		r.callbacks.Emit(EventToolCall, &protocol.ToolCallEvent{CallID: call.CallID, Name: call.Name, Parameters: call.Parameters})
	case protocol.TypeResourceRequest:
		request := &protocol.ResourceRequest{}
		if err = msg.Decode(request); err != nil {
			return false
		}
		if request.RequestID == "" {
			request.RequestID = uuid.New().String()
		}
		r.callbacks.Emit(EventResourceRequest, &protocol.ResourceRequestEvent{RequestID: request.RequestID, URI: request.URI})
	case protocol.TypeToolResponse:
		response := &protocol.ToolResponse{}
		if err = msg.Decode(response); err != nil {
			return false
		}
		return r.complete(response.CallID, &Reply{Result: response.Response})
	case protocol.TypeResourceResponse:
		response := &protocol.ResourceResponse{}
		if err = msg.Decode(response); err != nil {
			return false
		}
		return r.complete(response.RequestID, &Reply{Result: response.Resource})
	case protocol.TypeError:
		failure := &protocol.Error{}
		if err = msg.Decode(failure); err != nil {
			return false
		}
		if failure.ReferenceID != nil && r.complete(*failure.ReferenceID, &Reply{Err: failure}) {
			return true
		}
		r.callbacks.Emit(EventError, &protocol.ErrorEvent{Code: failure.Code, Message: failure.Message})
	case protocol.TypeHandshake:
		handshake := &protocol.Handshake{}
		if err = msg.Decode(handshake); err != nil {
			return false
		}
		if r.onHandshake != nil {
			r.onHandshake(handshake)
		}
		state := &protocol.ConnectionState{Connected: true}
		if handshake.ServerInfo != nil {
			state.ServerName = handshake.ServerInfo.Name
		}
		r.callbacks.Emit(EventConnectionState, state)
	}
	return true
}

// NewRelay creates a relay emitting through callbacks
func NewRelay(callbacks *Callbacks, onHandshake HandshakeFunc) *Relay {
	return &Relay{
		callbacks:   callbacks,
		pending:     collection.NewSyncMap[string, chan *Reply](),
		onHandshake: onHandshake,
	}
}
