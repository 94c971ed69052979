package bridge

import (
	"fmt"
	"sync"

	"github.com/viant/mcpbridge/internal/collection"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
)

// Emitter delivers events to the host
type Emitter interface {
	Emit(eventName string, payload string) error
}

// EmitterFunc adapts a function to Emitter
type EmitterFunc func(eventName string, payload string) error

func (f EmitterFunc) Emit(eventName string, payload string) error {
	return f(eventName, payload)
}

// Event is a native event waiting for host delivery
type Event struct {
	Name    string
	Payload string
}

// Registry tracks event subscriptions and delivers native events to the host
type Registry struct {
	handle    native.Handle
	logger    logger.Logger
	listeners *collection.SyncMap[string, *subscription]
	queue     *eventQueue
	emitMux   sync.RWMutex
	emitter   Emitter
	done      chan struct{}
	closeOnce sync.Once
}

// subscription is a native registration; ready closes once the registration outcome is known
type subscription struct {
	ready chan struct{}
	err   error
}

func (s *subscription) wait() error {
	<-s.ready
	return s.err
}

// Subscribe registers interest in eventName. Only the first subscription reaches the native layer;
// concurrent callers wait for it and share its outcome.
func (r *Registry) Subscribe(eventName string) error {
	pending := &subscription{ready: make(chan struct{})}
	current, stored := r.listeners.PutIfAbsent(eventName, pending)
	if !stored {
		if err := current.wait(); err != nil {
			return err
		}
		r.logger.Debug("already subscribed", logger.String("event", eventName))
		return nil
	}
	if err := r.register(eventName, native.EventCallback(r.enqueue)); err != nil {
		pending.err = err
		r.listeners.Delete(eventName)
		close(pending.ready)
		r.logger.Warn("failed to register event callback", logger.String("event", eventName), logger.Err(err))
		return err
	}
	close(pending.ready)
	r.logger.Debug("subscribed", logger.String("event", eventName))
	return nil
}

func (r *Registry) register(eventName string, callback native.EventCallback) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = native.Recovered(v)
		}
	}()
	return r.handle.RegisterEventCallback(eventName, callback)
}

// Unsubscribe acknowledges the host removing listeners. Native callbacks stay registered.
func (r *Registry) Unsubscribe(count int) {
	r.logger.Debug("listeners removed", logger.Int("count", count))
}

// Subscribed returns true once eventName has a native callback registered
func (r *Registry) Subscribed(eventName string) bool {
	current, ok := r.listeners.Get(eventName)
	if !ok {
		return false
	}
	select {
	case <-current.ready:
		return current.err == nil
	default:
		return false
	}
}

// SetEmitter replaces the host emitter
func (r *Registry) SetEmitter(emitter Emitter) {
	r.emitMux.Lock()
	r.emitter = emitter
	r.emitMux.Unlock()
}

func (r *Registry) currentEmitter() Emitter {
	r.emitMux.RLock()
	defer r.emitMux.RUnlock()
	return r.emitter
}

// enqueue is the callback handed to the native layer; it never blocks
func (r *Registry) enqueue(eventName string, payload string) {
	if !r.queue.push(Event{Name: eventName, Payload: payload}) {
		r.logger.Debug("event dropped, registry closed", logger.String("event", eventName))
	}
}

func (r *Registry) dispatch() {
	defer close(r.done)
	for {
		events, ok := r.queue.wait()
		if !ok {
			return
		}
		for _, event := range events {
			r.deliver(event)
		}
	}
}

func (r *Registry) deliver(event Event) {
	emitter := r.currentEmitter()
	if emitter == nil {
		r.logger.Debug("event dropped, no emitter", logger.String("event", event.Name))
		return
	}
	defer func() {
		if v := recover(); v != nil {
			r.logger.Warn("event delivery panicked", logger.String("event", event.Name), logger.String("panic", fmt.Sprintf("%v", v)))
		}
	}()
	if err := emitter.Emit(event.Name, event.Payload); err != nil {
		r.logger.Warn("event delivery failed", logger.String("event", event.Name), logger.Err(err))
	}
}

// Close stops the dispatch loop once queued events are delivered
func (r *Registry) Close() {
	r.closeOnce.Do(func() {
		r.queue.close()
	})
	<-r.done
}

func newRegistry(handle native.Handle, log logger.Logger, emitter Emitter) *Registry {
	ret := &Registry{
		handle:    handle,
		logger:    log,
		listeners: collection.NewSyncMap[string, *subscription](),
		queue:     newEventQueue(),
		emitter:   emitter,
		done:      make(chan struct{}),
	}
	go ret.dispatch()
	return ret
}

// eventQueue is an unbounded FIFO so native callers never wait on the host
type eventQueue struct {
	mux    sync.Mutex
	items  []Event
	closed bool
	signal chan struct{}
}

func (q *eventQueue) push(event Event) bool {
	q.mux.Lock()
	if q.closed {
		q.mux.Unlock()
		return false
	}
	q.items = append(q.items, event)
	q.mux.Unlock()
	q.notify()
	return true
}

func (q *eventQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// wait returns the queued events; ok is false once the queue is closed and empty
func (q *eventQueue) wait() (events []Event, ok bool) {
	for {
		q.mux.Lock()
		if len(q.items) > 0 {
			events, q.items = q.items, nil
			q.mux.Unlock()
			return events, true
		}
		closed := q.closed
		q.mux.Unlock()
		if closed {
			return nil, false
		}
		<-q.signal
	}
}

func (q *eventQueue) close() {
	q.mux.Lock()
	q.closed = true
	q.mux.Unlock()
	q.notify()
}

func newEventQueue() *eventQueue {
	return &eventQueue{signal: make(chan struct{}, 1)}
}
