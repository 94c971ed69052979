package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/mcpbridge/logger"
)

// Initialize creates the native client. Once it succeeded, later calls resolve true without touching the native layer.
func (s *Service) Initialize(ctx context.Context) *Promise[bool] {
	return dispatch(s, ctx, OpInitialize, func(ctx context.Context) (bool, error) {
		s.initMux.Lock()
		defer s.initMux.Unlock()
		if s.handleID.Load() != 0 {
			return true, nil
		}
		id, err := s.handle.Init(ctx)
		if err != nil {
			return false, err
		}
		if id == 0 {
			return false, fmt.Errorf("%w", ErrZeroHandle)
		}
		s.handleID.Store(id)
		s.logger.Info("client initialized", logger.Uint64("handle", id))
		return true, nil
	})
}

// Initialized returns true after a successful Initialize
func (s *Service) Initialized() bool {
	return s.handleID.Load() != 0
}

// HandleID returns the native creation id, 0 before initialization
func (s *Service) HandleID() uint64 {
	return s.handleID.Load()
}

// Connect connects the native client to serverURL. False is a normal outcome.
func (s *Service) Connect(ctx context.Context, serverURL string) *Promise[bool] {
	if serverURL == "" && s.Initialized() {
		return rejected[bool](OpConnect, newError(OpConnect, errors.New("serverUrl must not be empty"), false))
	}
	return dispatch(s, ctx, OpConnect, func(ctx context.Context) (bool, error) {
		connected, err := s.handle.Connect(ctx, serverURL)
		if err == nil {
			s.logger.Info("connect completed", logger.String("url", serverURL), logger.Bool("connected", connected))
		}
		return connected, err
	})
}

// Disconnect closes the native connection in any state
func (s *Service) Disconnect(ctx context.Context) *Promise[bool] {
	return dispatch(s, ctx, OpDisconnect, func(ctx context.Context) (bool, error) {
		return s.handle.Disconnect(ctx)
	})
}

// IsConnected asks the native client for its connection state; the answer is never cached
func (s *Service) IsConnected(ctx context.Context) *Promise[bool] {
	return dispatch(s, ctx, OpIsConnected, func(ctx context.Context) (bool, error) {
		return s.handle.IsConnected(ctx)
	})
}
