package terminal

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner/local"
)

func TestTool_Call(t *testing.T) {
	ctx := context.Background()
	service, err := gosh.New(ctx, local.New())
	require.NoError(t, err)
	tool := New(service)

	var testCases = []struct {
		description string
		commands    []string
		expect      string
		expectError bool
		expectErr   bool
	}{
		{description: "single", commands: []string{"echo bridge"}, expect: "bridge"},
		{description: "chained", commands: []string{"echo one", "echo two"}, expect: "two"},
		{description: "failed command", commands: []string{"ls /nonexistent-mcpbridge"}, expectError: true},
		{description: "empty", expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			result, _, err := tool.Call(ctx, nil, Command{Commands: testCase.commands})
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectError, result.IsError)
			require.Len(t, result.Content, 1)
			text, ok := result.Content[0].(*mcp.TextContent)
			require.True(t, ok)
			assert.Contains(t, text.Text, testCase.expect)
		})
	}
}
