// Package bridge exposes a native MCP client to an asynchronous host.
//
// A Service owns exactly one native.Handle. Every host call is dispatched to the handle on its
// own goroutine and settles a Promise exactly once, either with the native value or with an
// *Error carrying the operation's stable Code. Panics raised by the native layer are recovered
// at this boundary and reported as native faults.
//
// Native events flow the other way: the handle invokes a registered callback, the callback
// enqueues the event, and a single dispatch loop hands it to the host Emitter. Delivery
// failures are logged and discarded.
//
// Typical usage:
//
//	service := bridge.New(handle, bridge.WithEmitter(host), bridge.WithCallTimeout(10*time.Second))
//	if _, err := service.Initialize(ctx).Await(ctx); err != nil {
//		return err
//	}
//	connected, err := service.Connect(ctx, "https://example.com/mcp").Await(ctx)
package bridge
