// Package protocol defines the wire shapes exchanged between the native client and the host:
// the tagged input envelope accepted by handleInput, event payloads, server info and error bodies.
package protocol
