package auth

import (
	"sync"

	"github.com/viant/afs/http"
	"github.com/viant/afs/url"
	"golang.org/x/oauth2"
)

// TokenKey identifies a cached token
type TokenKey struct {
	Issuer string
	Scopes string
}

// Store caches tokens per issuer and scope
type Store struct {
	mux    sync.RWMutex
	tokens map[TokenKey]*oauth2.Token
}

func (s *Store) Lookup(key TokenKey) (*oauth2.Token, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	token, ok := s.tokens[key]
	return token, ok
}

func (s *Store) Put(key TokenKey, token *oauth2.Token) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.tokens[key] = token
}

func (s *Store) Delete(key TokenKey) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.tokens, key)
}

// Issuer returns the base URL of the config authorization endpoint
func Issuer(config *oauth2.Config) string {
	if config == nil || config.Endpoint.AuthURL == "" {
		return ""
	}
	issuer, _ := url.Base(config.Endpoint.AuthURL, http.SecureScheme)
	return issuer
}

// NewStore creates an empty token store
func NewStore() *Store {
	return &Store{tokens: map[TokenKey]*oauth2.Token{}}
}
