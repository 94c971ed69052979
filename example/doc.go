// Package example wires the bridge to a small MCP file server end to end.
//
// The fs sub-package exposes files from any afs storage URL as MCP resources; the tests
// connect a bridge service to it through the go-sdk engine and an in-memory transport.
package example
