package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/viant/mcpbridge/native"
)

// fakeHandle is an in memory native.Handle with scripted failures
type fakeHandle struct {
	mux           sync.Mutex
	initID        uint64
	connected     bool
	connectResult bool
	toolResult    string
	resource      string
	serverInfo    string
	inputResult   bool
	delay         time.Duration
	errs          map[string]error
	panics        map[string]interface{}
	calls         map[string]int
	callbacks     map[string]native.EventCallback
	registrations map[string]int
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{
		initID:        7,
		connectResult: true,
		toolResult:    `{"content":[{"type":"text","text":"ok"}]}`,
		resource:      `{"contents":[]}`,
		serverInfo:    "null",
		inputResult:   true,
		errs:          map[string]error{},
		panics:        map[string]interface{}{},
		calls:         map[string]int{},
		callbacks:     map[string]native.EventCallback{},
		registrations: map[string]int{},
	}
}

func (f *fakeHandle) failWith(method string, err error) *fakeHandle {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.errs[method] = err
	return f
}

func (f *fakeHandle) panicWith(method string, value interface{}) *fakeHandle {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.panics[method] = value
	return f
}

func (f *fakeHandle) setConnected(connected bool) {
	f.mux.Lock()
	defer f.mux.Unlock()
	f.connected = connected
}

func (f *fakeHandle) count(method string) int {
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.calls[method]
}

func (f *fakeHandle) registered(name string) int {
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.registrations[name]
}

// emit mimics the native layer firing an event
func (f *fakeHandle) emit(name, payload string) bool {
	f.mux.Lock()
	callback, ok := f.callbacks[name]
	f.mux.Unlock()
	if ok {
		callback(name, payload)
	}
	return ok
}

func (f *fakeHandle) enter(ctx context.Context, method string) error {
	f.mux.Lock()
	f.calls[method]++
	err := f.errs[method]
	value, shouldPanic := f.panics[method]
	delay := f.delay
	f.mux.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
	}
	if shouldPanic {
		panic(value)
	}
	return err
}

func (f *fakeHandle) Init(ctx context.Context) (uint64, error) {
	if err := f.enter(ctx, "Init"); err != nil {
		return 0, err
	}
	return f.initID, nil
}

func (f *fakeHandle) Connect(ctx context.Context, serverURL string) (bool, error) {
	if err := f.enter(ctx, "Connect"); err != nil {
		return false, err
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	f.connected = f.connectResult
	return f.connectResult, nil
}

func (f *fakeHandle) Disconnect(ctx context.Context) (bool, error) {
	if err := f.enter(ctx, "Disconnect"); err != nil {
		return false, err
	}
	f.setConnected(false)
	return true, nil
}

func (f *fakeHandle) IsConnected(ctx context.Context) (bool, error) {
	if err := f.enter(ctx, "IsConnected"); err != nil {
		return false, err
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.connected, nil
}

func (f *fakeHandle) CallTool(ctx context.Context, toolName string, parametersJSON string) (string, error) {
	if err := f.enter(ctx, "CallTool"); err != nil {
		return "", err
	}
	return f.toolResult, nil
}

func (f *fakeHandle) RequestResource(ctx context.Context, uri string) (string, error) {
	if err := f.enter(ctx, "RequestResource"); err != nil {
		return "", err
	}
	return f.resource, nil
}

func (f *fakeHandle) GetServerInfo(ctx context.Context) (string, error) {
	if err := f.enter(ctx, "GetServerInfo"); err != nil {
		return "", err
	}
	return f.serverInfo, nil
}

func (f *fakeHandle) HandleInput(ctx context.Context, message string) (bool, error) {
	if err := f.enter(ctx, "HandleInput"); err != nil {
		return false, err
	}
	return f.inputResult, nil
}

func (f *fakeHandle) RegisterEventCallback(eventName string, callback native.EventCallback) error {
	if err := f.enter(context.Background(), "RegisterEventCallback"); err != nil {
		return err
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	f.callbacks[eventName] = callback
	f.registrations[eventName]++
	return nil
}

var _ native.Handle = (*fakeHandle)(nil)

// recordingEmitter collects delivered events
type recordingEmitter struct {
	mux    sync.Mutex
	events []Event
	fail   func(event Event) error
	notify chan Event
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{notify: make(chan Event, 100)}
}

func (r *recordingEmitter) Emit(eventName string, payload string) error {
	event := Event{Name: eventName, Payload: payload}
	r.mux.Lock()
	r.events = append(r.events, event)
	fail := r.fail
	r.mux.Unlock()
	r.notify <- event
	if fail != nil {
		return fail(event)
	}
	return nil
}

func (r *recordingEmitter) next(timeout time.Duration) (Event, bool) {
	select {
	case event := <-r.notify:
		return event, true
	case <-time.After(timeout):
		return Event{}, false
	}
}
