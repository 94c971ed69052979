package bridge

import (
	"context"
	"errors"

	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
)

type outcome[T any] struct {
	value T
	err   error
}

// dispatch runs call on its own goroutine and settles the returned promise exactly once
func dispatch[T any](s *Service, ctx context.Context, op Operation, call func(ctx context.Context) (T, error)) *Promise[T] {
	if op != OpInitialize && !s.Initialized() {
		return rejected[T](op, newError(op, ErrNotInitialized, false))
	}
	promise := newPromise[T](op)
	go invoke(s, ctx, promise, call)
	return promise
}

func invoke[T any](s *Service, ctx context.Context, promise *Promise[T], call func(ctx context.Context) (T, error)) {
	var zero T
	op := promise.Op
	defer func() {
		if v := recover(); v != nil {
			promise.settle(zero, s.failed(promise, native.Recovered(v)))
		}
	}()
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx, 1); err != nil {
			promise.settle(zero, s.expired(promise, ctx))
			return
		}
	}
	results := make(chan outcome[T], 1)
	go func() {
		if s.limiter != nil {
			defer s.limiter.Release(1)
		}
		defer func() {
			if v := recover(); v != nil {
				results <- outcome[T]{err: native.Recovered(v)}
			}
		}()
		value, err := call(ctx)
		results <- outcome[T]{value: value, err: err}
	}()
	select {
	case result := <-results:
		if result.err != nil {
			promise.settle(zero, s.failed(promise, result.err))
			return
		}
		promise.settle(result.value, nil)
		s.logger.Debug("call resolved", logger.String("op", string(op)), logger.String("id", promise.ID))
	case <-ctx.Done():
		promise.settle(zero, s.expired(promise, ctx))
	}
}

// failed converts a native error into a rejection
func (s *Service) failed(promise interface{ identity() (Operation, string) }, err error) *Error {
	op, id := promise.identity()
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr
	}
	ret := newError(op, native.AsFault(err), true)
	s.logger.Error("native call failed", logger.String("op", string(op)), logger.String("id", id),
		logger.String("code", string(ret.Code)), logger.Err(err))
	return ret
}

func (s *Service) expired(promise interface{ identity() (Operation, string) }, ctx context.Context) *Error {
	op, id := promise.identity()
	cause := ErrTimeout
	if errors.Is(ctx.Err(), context.Canceled) {
		cause = context.Canceled
	}
	s.logger.Warn("call abandoned", logger.String("op", string(op)), logger.String("id", id), logger.Err(cause))
	return newError(op, cause, false)
}

func (p *Promise[T]) identity() (Operation, string) {
	return p.Op, p.ID
}
