// Package native defines the contract of the native MCP client driven by the bridge
// together with the event and relay plumbing shared by client engines.
package native
