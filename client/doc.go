// Package client implements the native MCP engine on top of viant/jsonrpc transports.
//
// A Client satisfies native.Handle. It dials a server by URL scheme:
//   - http(s)://host/path uses Streamable HTTP or SSE (auto detected unless configured)
//   - stdio:///path/to/server?arg=a&arg=b launches a local process
//
// Server initiated requests (sampling, elicitation, roots) are relayed to the host as
// tool-call or resource-request events and answered through HandleInput.
//
// Example:
//
//	cli := client.New("bridge", "1.0", client.WithTransportType(client.TransportStreamable))
//	id, _ := cli.Init(ctx)
//	ok, _ := cli.Connect(ctx, "http://localhost:4981/mcp")
//	result, _ := cli.CallTool(ctx, "echo", `{"text":"hi"}`)
package client
