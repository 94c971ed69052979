package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/viant/gosh"
)

// Name is the registered tool name
const Name = "run_commands"

// Command represents tool input; commands run in one shell joined with &&
type Command struct {
	Commands []string `json:"commands"`
}

// Tool runs shell commands on a gosh service
type Tool struct {
	service *gosh.Service
}

// Call runs input commands; a non zero exit code is reported as a tool error
func (t *Tool) Call(ctx context.Context, _ *mcp.CallToolRequest, input Command) (*mcp.CallToolResult, any, error) {
	command := strings.Join(input.Commands, " && ")
	if command == "" {
		return nil, nil, fmt.Errorf("commands were empty")
	}
	output, code, err := t.service.Run(ctx, command)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to run %q: %w", command, err)
	}
	return &mcp.CallToolResult{
		IsError: code != 0,
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}

// Register adds the tool to server
func (t *Tool) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{Name: Name, Description: "runs shell commands and returns their output"}, t.Call)
}

// New creates a tool
func New(service *gosh.Service) *Tool {
	return &Tool{service: service}
}
