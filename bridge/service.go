package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
	"golang.org/x/sync/semaphore"
)

// Service drives a single native client on behalf of an asynchronous host
type Service struct {
	handle             native.Handle
	logger             logger.Logger
	emitter            Emitter
	callTimeout        time.Duration
	maxConcurrentCalls int64
	limiter            *semaphore.Weighted
	registry           *Registry
	initMux            sync.Mutex
	handleID           atomic.Uint64
}

// CallTool invokes a tool; the result is the native payload verbatim
func (s *Service) CallTool(ctx context.Context, toolName string, parametersJSON string) *Promise[string] {
	return dispatch(s, ctx, OpCallTool, func(ctx context.Context) (string, error) {
		return s.handle.CallTool(ctx, toolName, parametersJSON)
	})
}

// RequestResource reads a resource; the result is the native payload verbatim
func (s *Service) RequestResource(ctx context.Context, uri string) *Promise[string] {
	return dispatch(s, ctx, OpRequestResource, func(ctx context.Context) (string, error) {
		return s.handle.RequestResource(ctx, uri)
	})
}

// GetServerInfo returns the server info JSON ("null" when unknown)
func (s *Service) GetServerInfo(ctx context.Context) *Promise[string] {
	return dispatch(s, ctx, OpGetServerInfo, func(ctx context.Context) (string, error) {
		return s.handle.GetServerInfo(ctx)
	})
}

// HandleInput pushes a host message into the native client
func (s *Service) HandleInput(ctx context.Context, message string) *Promise[bool] {
	return dispatch(s, ctx, OpHandleInput, func(ctx context.Context) (bool, error) {
		return s.handle.HandleInput(ctx, message)
	})
}

// Subscribe registers interest in a native event
func (s *Service) Subscribe(eventName string) error {
	return s.registry.Subscribe(eventName)
}

// Unsubscribe acknowledges the host removing listeners
func (s *Service) Unsubscribe(count int) {
	s.registry.Unsubscribe(count)
}

// Registry returns the event registry
func (s *Service) Registry() *Registry {
	return s.registry
}

// SetEmitter attaches the host event emitter
func (s *Service) SetEmitter(emitter Emitter) {
	s.registry.SetEmitter(emitter)
}

// Close stops event delivery after queued events are flushed
func (s *Service) Close() error {
	s.registry.Close()
	_ = s.logger.Sync()
	return nil
}

// New creates a service owning handle
func New(handle native.Handle, options ...Option) *Service {
	ret := &Service{
		handle:             handle,
		logger:             logger.Nop(),
		callTimeout:        DefaultCallTimeout,
		maxConcurrentCalls: DefaultMaxConcurrentCalls,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.maxConcurrentCalls > 0 {
		ret.limiter = semaphore.NewWeighted(ret.maxConcurrentCalls)
	}
	ret.registry = newRegistry(handle, ret.logger, ret.emitter)
	return ret
}
