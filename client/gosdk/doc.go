// Package gosdk implements a native MCP engine with the official MCP Go SDK.
//
// It is an alternative to the viant/jsonrpc based client engine and supports
// streamable HTTP, SSE and stdio (stdio:///path/to/server?arg=a) servers.
// Sampling and elicitation requests are relayed to the host as tool-call events.
package gosdk
