package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/jsonrpc"
	"github.com/viant/jsonrpc/transport/server/stdio"
	"github.com/viant/mcpbridge/bridge"
	"github.com/viant/mcpbridge/logger"
)

var errUnknownMethod = errors.New("unknown method")

// Server exposes a bridge service to a host over stdio or HTTP
type Server struct {
	service *bridge.Service
	hub     *Hub
	logger  logger.Logger

	addr         string
	basePath     string
	corsOrigins  []string
	jwtSecret    []byte
	stdioOptions []stdio.Option
}

// Service returns the bridged service
func (s *Server) Service() *bridge.Service {
	return s.service
}

// Hub returns the event hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Call invokes a host protocol method with named or positional params
func (s *Server) Call(ctx context.Context, name string, params []byte) (interface{}, error) {
	m, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownMethod, name)
	}
	args, err := decodeArgs(params, m.args)
	if err != nil {
		return nil, err
	}
	result, err := m.call(ctx, s.service, args)
	if err != nil {
		s.logger.Debug("call rejected", logger.String("method", name), logger.Err(err))
		return nil, err
	}
	return result, nil
}

// failureCode returns the host failure code of a rejected call
func failureCode(name string, err error) string {
	if code, ok := bridge.CodeOf(err); ok {
		return string(code)
	}
	if m, ok := methods[name]; ok {
		return string(m.op.Code())
	}
	return "InvalidParams"
}

// rpcError converts a call failure into a JSON-RPC error
func (s *Server) rpcError(name string, err error) *jsonrpc.Error {
	if errors.Is(err, errUnknownMethod) {
		return jsonrpc.NewMethodNotFound(err.Error(), nil)
	}
	return jsonrpc.NewError(RejectionCode, err.Error(), map[string]interface{}{"code": failureCode(name, err)})
}

// Close flushes queued events to the host, then detaches the server from the service
func (s *Server) Close() error {
	err := s.service.Close()
	s.service.SetEmitter(nil)
	return err
}

// New creates a server for service. The server becomes the service event emitter.
func New(service *bridge.Service, options ...Option) (*Server, error) {
	if service == nil {
		return nil, errors.New("service was nil")
	}
	s := &Server{
		service:  service,
		hub:      NewHub(),
		logger:   logger.Nop(),
		addr:     "127.0.0.1:5000",
		basePath: "/",
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	service.SetEmitter(s.hub)
	return s, nil
}
