package mcpbridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mcpbridge/client"
	"github.com/viant/mcpbridge/client/gosdk"
)

func TestClientOptions_ServerURL(t *testing.T) {
	var testCases = []struct {
		description string
		transport   ClientTransport
		expect      string
	}{
		{description: "url", transport: ClientTransport{URL: "https://mcp.example.com/mcp"}, expect: "https://mcp.example.com/mcp"},
		{description: "command", transport: ClientTransport{Command: "/opt/mcp/server"}, expect: "stdio:///opt/mcp/server"},
		{description: "command with arguments", transport: ClientTransport{Command: "/opt/mcp/server", Arguments: []string{"--root", "a b"}}, expect: "stdio:///opt/mcp/server?arg=--root&arg=a+b"},
		{description: "command wins", transport: ClientTransport{URL: "http://localhost", Command: "/opt/mcp/server"}, expect: "stdio:///opt/mcp/server"},
		{description: "none"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			options := &ClientOptions{Transport: testCase.transport}
			assert.Equal(t, testCase.expect, options.ServerURL())
		})
	}
}

func TestNewHandle(t *testing.T) {
	var testCases = []struct {
		description string
		options     *ClientOptions
		expectViant bool
		expectErr   bool
	}{
		{description: "default engine", options: nil, expectViant: true},
		{description: "viant with static token", options: &ClientOptions{Engine: EngineViant, Auth: &ClientAuth{AccessToken: "abc"}, PingIntervalSeconds: 5}, expectViant: true},
		{description: "gosdk", options: &ClientOptions{Engine: EngineGoSDK, Transport: ClientTransport{Type: "sse"}}},
		{description: "unknown engine", options: &ClientOptions{Engine: "other"}, expectErr: true},
		{description: "missing oauth2 config", options: &ClientOptions{Auth: &ClientAuth{OAuth2ConfigURL: "/tmp/mcpbridge/missing-oauth.json"}}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			handle, err := NewHandle(context.Background(), testCase.options, nil)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if testCase.expectViant {
				assert.IsType(t, &client.Client{}, handle)
				return
			}
			assert.IsType(t, &gosdk.Engine{}, handle)
		})
	}
}

func TestNewServer(t *testing.T) {
	var testCases = []struct {
		description string
		options     *ServerOptions
		expectErr   bool
	}{
		{description: "defaults"},
		{description: "http", options: &ServerOptions{Transport: HostHTTP, Addr: ":0", BasePath: "/bridge", CORSOrigins: []string{"*"}, JWTSecret: "secret", CallTimeoutSeconds: 5}},
		{description: "unknown transport", options: &ServerOptions{Transport: "grpc"}, expectErr: true},
		{description: "invalid base path", options: &ServerOptions{BasePath: "bridge"}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			srv, err := New(context.Background(), nil, testCase.options)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, srv.Service().Initialized())
			assert.NoError(t, srv.Close())
		})
	}
}
