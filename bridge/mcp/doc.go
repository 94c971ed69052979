// Package mcp implements the mcp-bridge command.
//
// Options come from three layers, later ones winning: built-in defaults, a YAML or JSON
// config file (any afs URL, see -f) with MCPBRIDGE_ environment overrides, and command
// line flags. The bridge serves its host over stdio by default or over HTTP with --host=http.
package mcp
