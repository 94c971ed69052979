package native

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mcpbridge/protocol"
)

type recorded struct {
	name    string
	payload string
}

type recorder struct {
	mux    sync.Mutex
	events []recorded
}

func (r *recorder) callback(name, payload string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.events = append(r.events, recorded{name: name, payload: payload})
}

func (r *recorder) all() []recorded {
	r.mux.Lock()
	defer r.mux.Unlock()
	return append([]recorded{}, r.events...)
}

func newRecordingRelay(onHandshake HandshakeFunc) (*Relay, *recorder) {
	rec := &recorder{}
	callbacks := NewCallbacks()
	for _, name := range []string{EventConnectionState, EventToolCall, EventResourceRequest, EventError} {
		callbacks.Register(name, rec.callback)
	}
	return NewRelay(callbacks, onHandshake), rec
}

func TestRelay_Input_Events(t *testing.T) {
	var testCases = []struct {
		description   string
		input         string
		expectOK      bool
		expectEvent   string
		expectPayload string
	}{
		{
			description:   "tool call",
			input:         `{"type":"tool_call","data":{"call_id":"c1","name":"echo","parameters":{"text":"hi"}}}`,
			expectOK:      true,
			expectEvent:   EventToolCall,
			expectPayload: `{"call_id":"c1","name":"echo","parameters":{"text":"hi"}}`,
		},
		{
			description:   "resource request",
			input:         `{"type":"resource_request","data":{"request_id":"r1","uri":"file:///a.txt"}}`,
			expectOK:      true,
			expectEvent:   EventResourceRequest,
			expectPayload: `{"request_id":"r1","uri":"file:///a.txt"}`,
		},
		{
			description:   "error without reference",
			input:         `{"type":"error","data":{"code":"server_error","message":"boom"}}`,
			expectOK:      true,
			expectEvent:   EventError,
			expectPayload: `{"code":"server_error","message":"boom"}`,
		},
		{
			description:   "handshake",
			input:         `{"type":"handshake","data":{"version":"1.0","server_info":{"name":"srv","version":"2","tools":[]}}}`,
			expectOK:      true,
			expectEvent:   EventConnectionState,
			expectPayload: `{"connected":true,"server_name":"srv"}`,
		},
		{description: "malformed", input: `{oops`, expectOK: false},
		{description: "unanswered response", input: `{"type":"tool_response","data":{"call_id":"nope","response":{}}}`, expectOK: false},
	}
	for _, testCase := range testCases {
		relay, rec := newRecordingRelay(nil)
		ok := relay.Input(testCase.input)
		assert.Equal(t, testCase.expectOK, ok, testCase.description)
		events := rec.all()
		if testCase.expectEvent == "" {
			assert.Empty(t, events, testCase.description)
			continue
		}
		require.Len(t, events, 1, testCase.description)
		assert.Equal(t, testCase.expectEvent, events[0].name, testCase.description)
		assert.JSONEq(t, testCase.expectPayload, events[0].payload, testCase.description)
	}
}

func TestRelay_Handshake(t *testing.T) {
	var got *protocol.Handshake
	relay, _ := newRecordingRelay(func(handshake *protocol.Handshake) { got = handshake })
	require.True(t, relay.Input(`{"type":"handshake","data":{"version":"1.0","server_info":{"name":"srv","version":"2"}}}`))
	require.NotNil(t, got)
	assert.Equal(t, "1.0", got.Version)
	assert.Equal(t, "srv", got.ServerInfo.Name)
}

func TestRelay_AwaitResponse(t *testing.T) {
	relay, rec := newRecordingRelay(nil)
	id, replies := relay.Open()
	assert.Equal(t, 1, relay.Pending())

	go func() {
		msg, _ := protocol.NewMessage(protocol.TypeToolResponse, &protocol.ToolResponse{CallID: id, Response: json.RawMessage(`{"content":[]}`)})
		relay.Input(msg.String())
	}()
	result, err := relay.Await(context.Background(), id, replies)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[]}`, string(result))
	assert.Equal(t, 0, relay.Pending())
	assert.Empty(t, rec.all())
}

func TestRelay_AwaitError(t *testing.T) {
	relay, rec := newRecordingRelay(nil)
	id, replies := relay.Open()
	msg, _ := protocol.NewMessage(protocol.TypeError, &protocol.Error{Code: "denied", Message: "user declined", ReferenceID: &id})
	require.True(t, relay.Input(msg.String()))

	_, err := relay.Await(context.Background(), id, replies)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user declined")
	assert.Empty(t, rec.all())
}

func TestRelay_AwaitTimeout(t *testing.T) {
	relay, _ := newRecordingRelay(nil)
	id, replies := relay.Open()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := relay.Await(ctx, id, replies)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 0, relay.Pending())
}

func TestCallbacks_Emit(t *testing.T) {
	callbacks := NewCallbacks()
	assert.False(t, callbacks.Emit("x", "payload"))

	callbacks.Register("x", func(string, string) { panic("host gone") })
	assert.False(t, callbacks.Emit("x", "payload"))

	var got string
	callbacks.Register("x", func(_ string, payload string) { got = payload })
	assert.True(t, callbacks.Emit("x", map[string]bool{"connected": false}))
	assert.JSONEq(t, `{"connected":false}`, got)

	callbacks.Register("x", nil)
	assert.False(t, callbacks.Registered("x"))
}

func TestRecovered(t *testing.T) {
	cause := errors.New("segfault")
	assert.Equal(t, "segfault", Recovered(cause).Error())
	assert.True(t, errors.Is(Recovered(cause), cause))
	assert.Equal(t, "42", Recovered(42).Error())
	fault := NewFault("native %s", "crash")
	assert.Same(t, fault, Recovered(fault))
	assert.Same(t, fault, AsFault(fault))
	assert.Nil(t, AsFault(nil))
}
