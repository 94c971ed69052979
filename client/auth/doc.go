// Package auth provides OAuth2 support for the native MCP client.
//
// OAuth2 client configurations are loaded with scy (optionally encrypted with a key), tokens are
// obtained through a scy auth flow on the first 401 response, cached per issuer and scope and
// refreshed when expired. A static bearer token can be used instead of a flow.
package auth
