package server

import (
	"context"
	"errors"
	"sync"

	"github.com/viant/mcpbridge/native"
)

// stubHandle echoes its inputs so host tests can check argument routing
type stubHandle struct {
	mux       sync.Mutex
	connected bool
	callbacks map[string]native.EventCallback
}

func newStubHandle() *stubHandle {
	return &stubHandle{callbacks: map[string]native.EventCallback{}}
}

func (s *stubHandle) Init(ctx context.Context) (uint64, error) { return 1, nil }

func (s *stubHandle) Connect(ctx context.Context, serverURL string) (bool, error) {
	if serverURL == "http://unreachable" {
		return false, nil
	}
	if serverURL == "http://broken" {
		return false, native.NewFault("socket closed")
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.connected = true
	return true, nil
}

func (s *stubHandle) Disconnect(ctx context.Context) (bool, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.connected = false
	return true, nil
}

func (s *stubHandle) IsConnected(ctx context.Context) (bool, error) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.connected, nil
}

func (s *stubHandle) CallTool(ctx context.Context, toolName string, parametersJSON string) (string, error) {
	if toolName == "explode" {
		return "", errors.New("timeout")
	}
	return toolName + ":" + parametersJSON, nil
}

func (s *stubHandle) RequestResource(ctx context.Context, uri string) (string, error) {
	return "resource:" + uri, nil
}

func (s *stubHandle) GetServerInfo(ctx context.Context) (string, error) { return "null", nil }

func (s *stubHandle) HandleInput(ctx context.Context, message string) (bool, error) {
	return message != "", nil
}

func (s *stubHandle) RegisterEventCallback(eventName string, callback native.EventCallback) error {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.callbacks[eventName] = callback
	return nil
}

func (s *stubHandle) emit(eventName, payload string) bool {
	s.mux.Lock()
	callback, ok := s.callbacks[eventName]
	s.mux.Unlock()
	if ok {
		callback(eventName, payload)
	}
	return ok
}

var _ native.Handle = (*stubHandle)(nil)
