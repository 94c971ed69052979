package example

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/mcpbridge/bridge"
	"github.com/viant/mcpbridge/client/gosdk"
	"github.com/viant/mcpbridge/example/fs"
	"github.com/viant/mcpbridge/native"
)

func TestBridge_FileServer(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("# bridge"), 0o644))
	fileServer, err := fs.NewMCPServer(ctx, &fs.Config{BaseURL: dir})
	require.NoError(t, err)

	engine := gosdk.New("example", "0.1", gosdk.WithTransport(func(ctx context.Context, serverURL string) (mcp.Transport, error) {
		clientTransport, serverTransport := mcp.NewInMemoryTransports()
		if _, err := fileServer.Connect(ctx, serverTransport, nil); err != nil {
			return nil, err
		}
		return clientTransport, nil
	}))
	var mux sync.Mutex
	var received []string
	service := bridge.New(engine, bridge.WithEmitter(bridge.EmitterFunc(func(eventName string, payload string) error {
		mux.Lock()
		defer mux.Unlock()
		received = append(received, eventName)
		return nil
	})))
	defer func() { _ = service.Close() }()
	require.NoError(t, service.Subscribe(native.EventConnectionState))
	require.NoError(t, service.Subscribe(native.EventResourceRequest))

	ok, err := service.Initialize(ctx).Await(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = service.Connect(ctx, "memory://fs").Await(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	info, err := service.GetServerInfo(ctx).Await(ctx)
	require.NoError(t, err)
	assert.Contains(t, info, `"list_files"`)

	listing, err := service.CallTool(ctx, "list_files", "{}").Await(ctx)
	require.NoError(t, err)
	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(listing), &result))
	require.Len(t, result.Content, 1)
	var files []fs.File
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &files))
	require.Len(t, files, 1)

	content, err := service.RequestResource(ctx, files[0].URI).Await(ctx)
	require.NoError(t, err)
	assert.Contains(t, content, "# bridge")

	require.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return assert.ObjectsAreEqual([]string{native.EventConnectionState, native.EventResourceRequest}, received)
	}, 2*time.Second, 10*time.Millisecond)
}
