package server

import (
	"context"

	"github.com/viant/jsonrpc/transport/server/stdio"
)

// Stdio returns a stdio JSON-RPC host server
func (s *Server) Stdio(ctx context.Context) *stdio.Server {
	return stdio.New(ctx, s.NewHandler, s.stdioOptions...)
}
