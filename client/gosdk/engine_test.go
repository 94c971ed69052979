package gosdk

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mcpbridge/native"
	"github.com/viant/mcpbridge/protocol"
)

type echoInput struct {
	Text string `json:"text"`
}

func newTestServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "demo", Version: "1.0.0"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "echo", Description: "echoes text"}, func(ctx context.Context, req *mcp.CallToolRequest, input echoInput) (*mcp.CallToolResult, any, error) {
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: input.Text}}}, nil, nil
	})
	server.AddResource(&mcp.Resource{URI: "file:///a.txt", Name: "a", MIMEType: "text/plain"}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{{URI: req.Params.URI, MIMEType: "text/plain", Text: "A"}}}, nil
	})
	return server
}

type events struct {
	mux     sync.Mutex
	payload map[string][]string
}

func (e *events) callback(name, payload string) {
	e.mux.Lock()
	defer e.mux.Unlock()
	e.payload[name] = append(e.payload[name], payload)
}

func (e *events) named(name string) []string {
	e.mux.Lock()
	defer e.mux.Unlock()
	return append([]string{}, e.payload[name]...)
}

func newConnectedEngine(t *testing.T) (*Engine, *events, *mcp.ServerSession) {
	ctx := context.Background()
	server := newTestServer()
	var serverSession *mcp.ServerSession
	engine := New("test", "0.1", WithTransport(func(ctx context.Context, serverURL string) (mcp.Transport, error) {
		clientTransport, serverTransport := mcp.NewInMemoryTransports()
		session, err := server.Connect(ctx, serverTransport, nil)
		if err != nil {
			return nil, err
		}
		serverSession = session
		return clientTransport, nil
	}))
	log := &events{payload: map[string][]string{}}
	for _, name := range []string{native.EventConnectionState, native.EventToolCall, native.EventResourceRequest, native.EventError} {
		require.NoError(t, engine.RegisterEventCallback(name, log.callback))
	}
	_, err := engine.Init(ctx)
	require.NoError(t, err)
	ok, err := engine.Connect(ctx, "memory://demo")
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _, _ = engine.Disconnect(context.Background()) })
	return engine, log, serverSession
}

func TestEngine_Connect(t *testing.T) {
	ctx := context.Background()
	engine, log, _ := newConnectedEngine(t)

	connected, err := engine.IsConnected(ctx)
	require.NoError(t, err)
	assert.True(t, connected)
	assert.Equal(t, []string{`{"connected":true,"server_name":"demo"}`}, log.named(native.EventConnectionState))

	info, err := engine.GetServerInfo(ctx)
	require.NoError(t, err)
	actual := &protocol.ServerInfo{}
	require.NoError(t, json.Unmarshal([]byte(info), actual))
	assert.Equal(t, "demo", actual.Name)
	assert.Equal(t, "1.0.0", actual.Version)
	require.Len(t, actual.Tools, 1)
	assert.Equal(t, "echo", actual.Tools[0].Name)
	assert.Equal(t, "echoes text", actual.Tools[0].Description)
}

func TestEngine_Connect_Failure(t *testing.T) {
	ctx := context.Background()
	engine := New("test", "0.1", WithTransport(func(ctx context.Context, serverURL string) (mcp.Transport, error) {
		return nil, errors.New("no route to host")
	}))
	errs := make(chan string, 1)
	require.NoError(t, engine.RegisterEventCallback(native.EventError, func(name, payload string) { errs <- payload }))

	ok, err := engine.Connect(ctx, "http://localhost:1")
	require.NoError(t, err)
	assert.False(t, ok, "connect before init")

	_, _ = engine.Init(ctx)
	ok, err = engine.Connect(ctx, "http://localhost:1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.JSONEq(t, `{"code":"connection_failed","message":"no route to host"}`, <-errs)
}

func TestEngine_CallTool(t *testing.T) {
	ctx := context.Background()
	engine, log, _ := newConnectedEngine(t)

	var testCases = []struct {
		description string
		tool        string
		params      string
		expectCode  string
		expectText  string
	}{
		{description: "text result", tool: "echo", params: `{"text":"hello"}`, expectText: "hello"},
		{description: "invalid params", tool: "echo", params: `{"text":`, expectCode: protocol.CodeInvalidParams},
		{description: "unknown tool", tool: "missing", params: `{}`, expectCode: protocol.CodeToolCallError},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := engine.CallTool(ctx, testCase.tool, testCase.params)
			require.NoError(t, err)
			if testCase.expectCode != "" {
				body := &protocol.ErrorBody{}
				require.NoError(t, json.Unmarshal([]byte(actual), body))
				assert.Equal(t, testCase.expectCode, body.Error.Code)
				return
			}
			assert.Contains(t, actual, testCase.expectText)
		})
	}
	assert.Len(t, log.named(native.EventToolCall), 2)
}

func TestEngine_RequestResource(t *testing.T) {
	ctx := context.Background()
	engine, log, _ := newConnectedEngine(t)
	actual, err := engine.RequestResource(ctx, "file:///a.txt")
	require.NoError(t, err)
	assert.Contains(t, actual, `"text":"A"`)
	require.Len(t, log.named(native.EventResourceRequest), 1)
}

func TestEngine_NotConnected(t *testing.T) {
	ctx := context.Background()
	engine := New("test", "0.1")
	actual, err := engine.CallTool(ctx, "echo", "{}")
	require.NoError(t, err)
	assert.JSONEq(t, protocol.ErrorJSON(protocol.CodeNotConnected, "client is not connected"), actual)
	actual, err = engine.RequestResource(ctx, "file:///a.txt")
	require.NoError(t, err)
	assert.JSONEq(t, protocol.ErrorJSON(protocol.CodeNotConnected, "client is not connected"), actual)
	info, _ := engine.GetServerInfo(ctx)
	assert.Equal(t, "null", info)
}

func TestEngine_Disconnect(t *testing.T) {
	ctx := context.Background()
	engine, log, _ := newConnectedEngine(t)
	ok, err := engine.Disconnect(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	connected, _ := engine.IsConnected(ctx)
	assert.False(t, connected)
	states := log.named(native.EventConnectionState)
	require.Len(t, states, 2)
	assert.JSONEq(t, `{"connected":false}`, states[1])
	assert.Empty(t, log.named(native.EventError), "intentional disconnect is not a lost connection")
}

func TestEngine_ConnectionLost(t *testing.T) {
	ctx := context.Background()
	engine, log, serverSession := newConnectedEngine(t)
	require.NoError(t, serverSession.Close())

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if connected, _ := engine.IsConnected(ctx); !connected {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	connected, _ := engine.IsConnected(ctx)
	assert.False(t, connected)
	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(log.named(native.EventError)) == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	errs := log.named(native.EventError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], protocol.CodeConnectionLost)
}

func TestEngine_Elicitation(t *testing.T) {
	ctx := context.Background()
	engine := New("test", "0.1", WithRelayTimeout(time.Second))
	calls := make(chan string, 1)
	require.NoError(t, engine.RegisterEventCallback(native.EventToolCall, func(name, payload string) { calls <- payload }))
	go func() {
		call := &protocol.ToolCallEvent{}
		if json.Unmarshal([]byte(<-calls), call) != nil {
			return
		}
		msg, _ := protocol.NewMessage(protocol.TypeToolResponse, &protocol.ToolResponse{CallID: call.CallID, Response: []byte(`{"action":"accept","content":{"name":"ada"}}`)})
		_, _ = engine.HandleInput(ctx, msg.String())
	}()
	options := engine.clientOptions()
	result, err := options.ElicitationHandler(ctx, &mcp.ElicitRequest{Params: &mcp.ElicitParams{Message: "name?"}})
	require.NoError(t, err)
	assert.Equal(t, "accept", result.Action)
	assert.Equal(t, "ada", result.Content["name"])
}

func TestEngine_Elicitation_NoHost(t *testing.T) {
	engine := New("test", "0.1")
	options := engine.clientOptions()
	_, err := options.ElicitationHandler(context.Background(), &mcp.ElicitRequest{Params: &mcp.ElicitParams{Message: "name?"}})
	assert.Error(t, err)
	assert.Equal(t, 0, engine.relay.Pending())
}

func TestEngine_LoggingMessage(t *testing.T) {
	engine := New("test", "0.1")
	errs := make(chan string, 1)
	messages := make(chan string, 1)
	require.NoError(t, engine.RegisterEventCallback(native.EventError, func(name, payload string) { errs <- payload }))
	require.NoError(t, engine.RegisterEventCallback("notifications/message", func(name, payload string) { messages <- payload }))

	engine.onLog(&mcp.LoggingMessageParams{Level: "critical", Data: "disk full"})
	engine.onLog(&mcp.LoggingMessageParams{Level: "info", Data: "started"})

	assert.JSONEq(t, `{"code":"critical","message":"\"disk full\""}`, <-errs)
	assert.Contains(t, <-messages, `"started"`)
}
