package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/viant/scy/auth/flow"
	"golang.org/x/oauth2"
)

// RoundTripper authorizes requests with an OAuth2 bearer token obtained on the first 401
type RoundTripper struct {
	config      *oauth2.Config
	store       *Store
	authFlow    flow.AuthFlow
	flowOptions []flow.Option
	source      oauth2.TokenSource
	transport   http.RoundTripper
	mux         sync.Mutex
}

// Option represents round tripper option
type Option func(r *RoundTripper)

// WithStore sets the token store
func WithStore(store *Store) Option {
	return func(r *RoundTripper) {
		r.store = store
	}
}

// WithAuthFlow sets the interactive flow used when no valid token is cached
func WithAuthFlow(authFlow flow.AuthFlow, options ...flow.Option) Option {
	return func(r *RoundTripper) {
		r.authFlow = authFlow
		r.flowOptions = options
	}
}

// WithTokenSource uses a fixed token source instead of a flow
func WithTokenSource(source oauth2.TokenSource) Option {
	return func(r *RoundTripper) {
		r.source = source
	}
}

// WithTransport sets the underlying transport
func WithTransport(transport http.RoundTripper) Option {
	return func(r *RoundTripper) {
		r.transport = transport
	}
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	probe := clone(req)
	if token, ok := r.cached(); ok {
		probe.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}
	resp, err := r.transport.RoundTrip(probe)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	_ = resp.Body.Close()
	r.invalidate()
	token, err := r.Token(req.Context())
	if err != nil {
		return nil, err
	}
	retry := clone(req)
	retry.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return r.transport.RoundTrip(retry)
}

func (r *RoundTripper) key() TokenKey {
	return TokenKey{Issuer: Issuer(r.config), Scopes: strings.Join(flow.NewOptions(r.flowOptions).Scopes(), " ")}
}

func (r *RoundTripper) cached() (*oauth2.Token, bool) {
	if r.source != nil {
		token, err := r.source.Token()
		return token, err == nil
	}
	token, ok := r.store.Lookup(r.key())
	if !ok || !token.Valid() {
		return nil, false
	}
	return token, true
}

func (r *RoundTripper) invalidate() {
	key := r.key()
	if token, ok := r.store.Lookup(key); ok && token.RefreshToken == "" {
		r.store.Delete(key)
	}
}

// Token returns a valid token, refreshing or running the auth flow when needed
func (r *RoundTripper) Token(ctx context.Context) (*oauth2.Token, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.source != nil {
		return r.source.Token()
	}
	if r.config == nil {
		return nil, fmt.Errorf("oauth2 config was not set")
	}
	key := r.key()
	if cached, ok := r.store.Lookup(key); ok {
		if cached.Valid() {
			return cached, nil
		}
		if cached.RefreshToken != "" {
			if refreshed, err := r.config.TokenSource(ctx, cached).Token(); err == nil {
				if refreshed.RefreshToken == "" {
					refreshed.RefreshToken = cached.RefreshToken
				}
				r.store.Put(key, refreshed)
				return refreshed, nil
			}
		}
	}
	token, err := r.authFlow.Token(ctx, r.config, r.flowOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain token: %w", err)
	}
	r.store.Put(key, token)
	return token, nil
}

// New creates a round tripper for config
func New(config *oauth2.Config, options ...Option) *RoundTripper {
	ret := &RoundTripper{
		config:      config,
		store:       NewStore(),
		authFlow:    flow.NewBrowserFlow(),
		flowOptions: []flow.Option{flow.WithPKCE(true)},
		transport:   http.DefaultTransport,
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// NewStatic creates a round tripper sending a fixed bearer token
func NewStatic(accessToken string, options ...Option) *RoundTripper {
	options = append([]Option{WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))}, options...)
	ret := New(nil, options...)
	return ret
}

func clone(r *http.Request) *http.Request {
	cloned := r.Clone(r.Context())
	if r.Body != nil {
		buf, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(buf))
		cloned.Body = io.NopCloser(bytes.NewBuffer(buf))
	}
	return cloned
}
