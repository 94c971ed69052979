// Package mcpbridge assembles an MCP host bridge from configuration.
//
// ClientOptions select the native engine (viant jsonrpc or the official go-sdk), the
// downstream MCP server and its authentication. ServerOptions select how the bridge is
// exposed to the host process: JSON-RPC over stdio or HTTP with a server-sent event stream.
//
// Example:
//
//	srv, err := mcpbridge.New(ctx,
//		&mcpbridge.ClientOptions{Transport: mcpbridge.ClientTransport{URL: "http://localhost:4981/mcp"}},
//		&mcpbridge.ServerOptions{Transport: mcpbridge.HostHTTP, Addr: ":5000"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(srv.HTTP(ctx, "").ListenAndServe())
package mcpbridge
