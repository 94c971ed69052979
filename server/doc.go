// Package server exposes a bridge.Service to a host process.
//
// Two transports are supported:
//   - stdio: JSON-RPC 2.0 over stdin/stdout; events are sent as "mcp/event" notifications
//   - HTTP: POST {base}/call/{method} for calls and GET {base}/events for a server-sent event stream
//
// Calls accept named (object) or positional (array) params. Rejections carry the
// operation failure code, e.g. {"code": "ToolCallError"}.
//
// Example:
//
//	srv, _ := server.New(bridge.New(client.New("host", "1.0")), server.WithCORS("*"))
//	log.Fatal(srv.HTTP(ctx, ":4981").ListenAndServe())
package server
