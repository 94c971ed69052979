package bridge

import (
	"time"

	"github.com/viant/mcpbridge/logger"
)

const (
	// DefaultCallTimeout bounds every native call unless overridden
	DefaultCallTimeout = 30 * time.Second
	// DefaultMaxConcurrentCalls bounds native calls in flight unless overridden
	DefaultMaxConcurrentCalls = 64
)

// Option represents a service option
type Option func(s *Service)

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithEmitter sets the host event emitter
func WithEmitter(emitter Emitter) Option {
	return func(s *Service) {
		s.emitter = emitter
	}
}

// WithCallTimeout sets the per call deadline; zero disables it
func WithCallTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.callTimeout = timeout
	}
}

// WithMaxConcurrentCalls bounds native calls in flight; zero or less removes the bound
func WithMaxConcurrentCalls(limit int64) Option {
	return func(s *Service) {
		s.maxConcurrentCalls = limit
	}
}
