package mcp

import (
	"context"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/viant/mcpbridge"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/server"
)

// ParseOptions parses args, loads the referenced config and re-applies args over it
func ParseOptions(ctx context.Context, args []string) (*Options, error) {
	options := &Options{}
	if _, err := flags.ParseArgs(options, args); err != nil {
		return nil, err
	}
	config, err := LoadConfig(ctx, options.ConfigURL)
	if err != nil {
		return nil, err
	}
	options = &Options{Config: *config}
	if _, err = flags.ParseArgs(options, args); err != nil {
		return nil, err
	}
	options.apply()
	return options, nil
}

// Run runs the bridge host until the host transport stops
func Run(args []string) error {
	ctx := context.Background()
	options, err := ParseOptions(ctx, args)
	if err != nil {
		return err
	}
	log, err := logger.New(&options.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	options.Server.Logger = log

	srv, err := mcpbridge.New(ctx, &options.Client, &options.Server)
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close() }()
	if options.Connect {
		if err = connect(ctx, srv, options.Client.ServerURL(), log); err != nil {
			return err
		}
	}

	switch options.Server.Transport {
	case mcpbridge.HostHTTP:
		httpServer := srv.HTTP(ctx, options.Server.Addr)
		log.Info("serving http host", logger.String("addr", httpServer.Addr))
		return httpServer.ListenAndServe()
	default:
		log.Info("serving stdio host")
		return srv.Stdio(ctx).ListenAndServe()
	}
}

// connect initializes the bridge and connects it to serverURL; a refused connection is logged, the host may retry
func connect(ctx context.Context, srv *server.Server, serverURL string, log logger.Logger) error {
	service := srv.Service()
	if _, err := service.Initialize(ctx).Await(ctx); err != nil {
		return err
	}
	connected, err := service.Connect(ctx, serverURL).Await(ctx)
	if err != nil {
		return err
	}
	if !connected {
		log.Warn("mcp server refused connection", logger.String("url", serverURL))
	}
	return nil
}
