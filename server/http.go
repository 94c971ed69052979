package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/tmaxmax/go-sse"
	"github.com/viant/mcpbridge/logger"
)

const (
	maxBodySize      = 4 << 20
	eventBufferSize  = 64
	callPathSegment  = "call"
	eventPathSegment = "events"
)

type callResponse struct {
	Result interface{}  `json:"result,omitempty"`
	Error  *callFailure `json:"error,omitempty"`
}

type callFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTP creates an HTTP host server: POST {base}/call/{method} and GET {base}/events
func (s *Server) HTTP(_ context.Context, addr string) *http.Server {
	if addr == "" {
		addr = s.addr
	}
	return &http.Server{
		Addr:    addr,
		Handler: s.HTTPHandler(),
	}
}

// HTTPHandler returns the HTTP host handler with configured middleware
func (s *Server) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+path.Join(s.basePath, callPathSegment, "{method}"), s.handleCall)
	mux.HandleFunc("GET "+path.Join(s.basePath, eventPathSegment), s.handleEvents)

	var middlewares []Middleware
	if len(s.corsOrigins) > 0 {
		middlewares = append(middlewares, corsMiddleware(s.corsOrigins), originMiddleware(s.corsOrigins))
	}
	if len(s.jwtSecret) > 0 {
		middlewares = append(middlewares, jwtMiddleware(s.jwtSecret))
	}
	return ChainMiddlewareHandlers(mux, middlewares...)
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("method")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}
	result, err := s.Call(r.Context(), name, body)
	response := &callResponse{Result: result}
	status := http.StatusOK
	if err != nil {
		if errors.Is(err, errUnknownMethod) {
			status = http.StatusNotFound
		}
		response = &callResponse{Error: &callFailure{Code: failureCode(name, err), Message: err.Error()}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err = json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Debug("unable to write call response", logger.String("method", name), logger.Err(err))
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	session, err := sse.Upgrade(w, r)
	if err != nil {
		s.logger.Error("failed to upgrade session", logger.Err(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// go-sse sessions are not safe for concurrent writes, this goroutine owns the session
	events := make(chan *sse.Message, eventBufferSize)
	detach := s.hub.Attach(func(eventName string, payload string) error {
		eventType, err := sse.NewType(eventName)
		if err != nil {
			return err
		}
		msg := &sse.Message{Type: eventType}
		msg.AppendData(payload)
		select {
		case events <- msg:
			return nil
		default:
			return errors.New("event stream is full")
		}
	})
	defer detach()
	if err = session.Flush(); err != nil {
		s.logger.Debug("failed to flush event stream", logger.Err(err))
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-events:
			if err = session.Send(msg); err == nil {
				err = session.Flush()
			}
			if err != nil {
				s.logger.Debug("event stream closed", logger.Err(err))
				return
			}
		}
	}
}
