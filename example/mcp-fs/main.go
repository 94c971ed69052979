package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner/local"
	"github.com/viant/mcpbridge/example/fs"
	"github.com/viant/mcpbridge/example/terminal"
)

// Options represents demo server options
type Options struct {
	BaseURL  string `short:"d" long:"dir" description:"files to expose, any afs URL" default:"."`
	Addr     string `short:"a" long:"addr" description:"streamable http address; stdio when empty"`
	Terminal bool   `short:"t" long:"terminal" description:"expose the run_commands tool"`
}

func main() {
	options := &Options{}
	if _, err := flags.ParseArgs(options, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()
	server, err := fs.NewMCPServer(ctx, &fs.Config{BaseURL: options.BaseURL})
	if err != nil {
		log.Fatal(err)
	}
	if options.Terminal {
		service, err := gosh.New(ctx, local.New())
		if err != nil {
			log.Fatal(err)
		}
		terminal.New(service).Register(server)
	}
	if options.Addr == "" {
		log.Fatal(server.Run(ctx, &mcp.StdioTransport{}))
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	log.Fatal(http.ListenAndServe(options.Addr, handler))
}
