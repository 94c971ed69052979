package server

import (
	"fmt"
	"strings"

	"github.com/viant/jsonrpc/transport/server/stdio"
	"github.com/viant/mcpbridge/logger"
)

// Option is a function that configures the server.
type Option func(s *Server) error

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(s *Server) error {
		if log != nil {
			s.logger = log
		}
		return nil
	}
}

// WithAddr sets the default HTTP listen address
func WithAddr(addr string) Option {
	return func(s *Server) error {
		s.addr = addr
		return nil
	}
}

// WithBasePath sets the HTTP path prefix of call and event endpoints
func WithBasePath(basePath string) Option {
	return func(s *Server) error {
		if basePath == "" {
			basePath = "/"
		}
		if !strings.HasPrefix(basePath, "/") {
			return fmt.Errorf("invalid base path %q: must start with /", basePath)
		}
		s.basePath = basePath
		return nil
	}
}

// WithCORS enables CORS for the listed origins; "*" allows any origin
func WithCORS(origins ...string) Option {
	return func(s *Server) error {
		s.corsOrigins = append(s.corsOrigins, origins...)
		return nil
	}
}

// WithJWTSecret requires an HS256 signed bearer token on HTTP requests
func WithJWTSecret(secret string) Option {
	return func(s *Server) error {
		if secret == "" {
			return fmt.Errorf("jwt secret was empty")
		}
		s.jwtSecret = []byte(secret)
		return nil
	}
}

// WithStdioOptions sets stdio server options
func WithStdioOptions(options ...stdio.Option) Option {
	return func(s *Server) error {
		s.stdioOptions = append(s.stdioOptions, options...)
		return nil
	}
}
