package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"path"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Config represents file server config
type Config struct {
	BaseURL string
	Options []storage.Option
}

// Server exposes files under Config.BaseURL as MCP resources
type Server struct {
	config *Config
	fs     afs.Service
}

// File describes an exposed file
type File struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
	Size int64  `json:"size"`
}

type listInput struct{}

// Files lists files directly under the base URL
func (s *Server) Files(ctx context.Context) ([]File, error) {
	objects, err := s.fs.List(ctx, s.config.BaseURL, s.config.Options...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %v: %w", s.config.BaseURL, err)
	}
	var files []File
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		files = append(files, File{Name: object.Name(), URI: object.URL(), Size: object.Size()})
	}
	return files, nil
}

// Register adds a resource per file and the list_files tool to server
func (s *Server) Register(ctx context.Context, server *mcp.Server) error {
	files, err := s.Files(ctx)
	if err != nil {
		return err
	}
	for _, file := range files {
		server.AddResource(&mcp.Resource{URI: file.URI, Name: file.Name, MIMEType: mimeType(file.Name)}, s.read)
	}
	mcp.AddTool(server, &mcp.Tool{Name: "list_files", Description: "lists exposed files"}, func(ctx context.Context, req *mcp.CallToolRequest, _ listInput) (*mcp.CallToolResult, any, error) {
		files, err := s.Files(ctx)
		if err != nil {
			return nil, nil, err
		}
		data, err := json.Marshal(files)
		if err != nil {
			return nil, nil, err
		}
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(data)}}}, nil, nil
	})
	return nil
}

func (s *Server) read(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	URI := req.Params.URI
	data, err := s.fs.DownloadWithURL(ctx, URI, s.config.Options...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", URI, err)
	}
	content := &mcp.ResourceContents{URI: URI, MIMEType: mimeType(URI)}
	if isBinary(data) {
		content.Blob = data
	} else {
		content.Text = string(data)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{content}}, nil
}

func mimeType(name string) string {
	if ret := mime.TypeByExtension(path.Ext(name)); ret != "" {
		return ret
	}
	return "application/octet-stream"
}

// isBinary treats data as binary when over 30% of the leading bytes are not printable
func isBinary(data []byte) bool {
	n := min(8000, len(data))
	if n == 0 {
		return false
	}
	nonPrintable := 0
	for _, b := range data[:n] {
		if (b < 32 || b > 126) && b != '\n' && b != '\r' && b != '\t' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(n) > 0.3
}

// New creates a file server
func New(config *Config) *Server {
	return &Server{config: config, fs: afs.New()}
}

// NewMCPServer creates an MCP server exposing files under config.BaseURL
func NewMCPServer(ctx context.Context, config *Config) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: "fs", Version: "0.1"}, nil)
	if err := New(config).Register(ctx, server); err != nil {
		return nil, err
	}
	return server, nil
}
