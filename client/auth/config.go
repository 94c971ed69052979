package auth

import (
	"context"
	"fmt"

	"github.com/viant/scy/auth/authorizer"
	"golang.org/x/oauth2"
)

// LoadConfig loads an OAuth2 client config; a non empty encryptionKey decrypts the config with scy kms
func LoadConfig(ctx context.Context, configURL string, encryptionKey string) (*oauth2.Config, error) {
	if configURL == "" {
		return nil, fmt.Errorf("oauth2 config URL was empty")
	}
	location := configURL
	if encryptionKey != "" {
		location += "|" + encryptionKey
	}
	oauthConfig := &authorizer.OAuthConfig{ConfigURL: location}
	if err := authorizer.New().EnsureConfig(ctx, oauthConfig); err != nil {
		return nil, fmt.Errorf("failed to load oauth2 config %q: %w", configURL, err)
	}
	if oauthConfig.Config == nil {
		return nil, fmt.Errorf("oauth2 config %q was empty", configURL)
	}
	return oauthConfig.Config, nil
}
