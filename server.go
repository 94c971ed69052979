package mcpbridge

import (
	"context"
	"fmt"

	"github.com/viant/mcpbridge/bridge"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
	"github.com/viant/mcpbridge/server"
)

// Host transports
const (
	HostStdio = "stdio"
	HostHTTP  = "http"
)

// ServerOptions defines how the bridge is exposed to the host process.
type ServerOptions struct {
	Transport          string        `yaml:"transport,omitempty" json:"transport,omitempty" mapstructure:"transport" long:"host" description:"host transport" choice:"stdio" choice:"http"`
	Addr               string        `yaml:"addr,omitempty" json:"addr,omitempty" mapstructure:"addr" short:"a" long:"addr" description:"http listen address"`
	BasePath           string        `yaml:"basePath,omitempty" json:"basePath,omitempty" mapstructure:"basePath" long:"base-path" description:"http base path"`
	CORSOrigins        []string      `yaml:"corsOrigins,omitempty" json:"corsOrigins,omitempty" mapstructure:"corsOrigins" long:"cors" description:"allowed CORS origin"`
	JWTSecret          string        `yaml:"jwtSecret,omitempty" json:"jwtSecret,omitempty" mapstructure:"jwtSecret" long:"jwt-secret" description:"HS256 secret guarding http calls"`
	CallTimeoutSeconds int           `yaml:"callTimeoutSeconds,omitempty" json:"callTimeoutSeconds,omitempty" mapstructure:"callTimeoutSeconds" long:"call-timeout" description:"native call deadline in seconds"`
	MaxConcurrentCalls int64         `yaml:"maxConcurrentCalls,omitempty" json:"maxConcurrentCalls,omitempty" mapstructure:"maxConcurrentCalls" long:"max-calls" description:"native calls in flight"`
	Logger             logger.Logger `yaml:"-" json:"-" mapstructure:"-"`
}

// Init sets defaults
func (s *ServerOptions) Init() {
	if s.Transport == "" {
		s.Transport = HostStdio
	}
	if s.Logger == nil {
		s.Logger = logger.Nop()
	}
}

// NewService creates a bridge service owning handle
func NewService(handle native.Handle, options *ServerOptions) *bridge.Service {
	if options == nil {
		options = &ServerOptions{}
	}
	options.Init()
	serviceOptions := []bridge.Option{bridge.WithLogger(options.Logger)}
	if options.CallTimeoutSeconds > 0 {
		serviceOptions = append(serviceOptions, bridge.WithCallTimeout(seconds(options.CallTimeoutSeconds)))
	}
	if options.MaxConcurrentCalls != 0 {
		serviceOptions = append(serviceOptions, bridge.WithMaxConcurrentCalls(options.MaxConcurrentCalls))
	}
	return bridge.New(handle, serviceOptions...)
}

// NewServer creates a host server for service
func NewServer(service *bridge.Service, options *ServerOptions) (*server.Server, error) {
	if service == nil {
		return nil, fmt.Errorf("bridge service was nil")
	}
	if options == nil {
		options = &ServerOptions{}
	}
	options.Init()
	if options.Transport != HostStdio && options.Transport != HostHTTP {
		return nil, fmt.Errorf("unsupported host transport %q", options.Transport)
	}
	serverOptions := []server.Option{server.WithLogger(options.Logger)}
	if options.Addr != "" {
		serverOptions = append(serverOptions, server.WithAddr(options.Addr))
	}
	if options.BasePath != "" {
		serverOptions = append(serverOptions, server.WithBasePath(options.BasePath))
	}
	if len(options.CORSOrigins) > 0 {
		serverOptions = append(serverOptions, server.WithCORS(options.CORSOrigins...))
	}
	if options.JWTSecret != "" {
		serverOptions = append(serverOptions, server.WithJWTSecret(options.JWTSecret))
	}
	return server.New(service, serverOptions...)
}

// New creates the native handle, the bridge service and its host server
func New(ctx context.Context, clientOptions *ClientOptions, serverOptions *ServerOptions) (*server.Server, error) {
	if serverOptions == nil {
		serverOptions = &ServerOptions{}
	}
	serverOptions.Init()
	handle, err := NewHandle(ctx, clientOptions, serverOptions.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create native client: %w", err)
	}
	return NewServer(NewService(handle, serverOptions), serverOptions)
}
