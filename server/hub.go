package server

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/viant/mcpbridge/bridge"
	"github.com/viant/mcpbridge/internal/collection"
	"github.com/viant/mcpbridge/native"
)

// Sink receives events for one host connection
type Sink func(eventName string, payload string) error

// Hub fans bridge events out to every attached host connection
type Hub struct {
	sinks *collection.SyncMap[string, Sink]
}

// Attach adds a sink and returns its detach function
func (h *Hub) Attach(sink Sink) (detach func()) {
	id := uuid.New().String()
	h.sinks.Put(id, sink)
	return func() {
		h.sinks.Delete(id)
	}
}

// Len returns the number of attached sinks
func (h *Hub) Len() int {
	return h.sinks.Len()
}

// Emit delivers the event to all sinks; a failing sink does not stop the others
func (h *Hub) Emit(eventName string, payload string) error {
	var errs []error
	h.sinks.Range(func(id string, sink Sink) bool {
		if err := deliver(sink, eventName, payload); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", id, err))
		}
		return true
	})
	return errors.Join(errs...)
}

func deliver(sink Sink, eventName string, payload string) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = native.Recovered(v)
		}
	}()
	return sink(eventName, payload)
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{sinks: collection.NewSyncMap[string, Sink]()}
}

var _ bridge.Emitter = (*Hub)(nil)
