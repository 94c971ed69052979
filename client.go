package mcpbridge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/viant/mcpbridge/client"
	"github.com/viant/mcpbridge/client/auth"
	"github.com/viant/mcpbridge/client/gosdk"
	"github.com/viant/mcpbridge/logger"
	"github.com/viant/mcpbridge/native"
	"github.com/viant/scy/auth/flow"
)

// Native engines
const (
	EngineViant = "viant"
	EngineGoSDK = "gosdk"
)

// ClientOptions defines options for building the native MCP client behind the bridge.
type ClientOptions struct {
	Engine              string          `yaml:"engine,omitempty" json:"engine,omitempty" mapstructure:"engine" short:"e" long:"engine" description:"native engine" choice:"viant" choice:"gosdk"`
	Name                string          `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name" short:"n" long:"name" description:"client name"`
	Version             string          `yaml:"version,omitempty" json:"version,omitempty" mapstructure:"version" long:"client-version" description:"client version"`
	ProtocolVersion     string          `yaml:"protocol,omitempty" json:"protocol,omitempty" mapstructure:"protocol" short:"p" long:"protocol" description:"mcp protocol"`
	Transport           ClientTransport `yaml:"transport,omitempty" json:"transport,omitempty" mapstructure:"transport" group:"transport"`
	Auth                *ClientAuth     `yaml:"auth,omitempty" json:"auth,omitempty" mapstructure:"auth" group:"auth"`
	PingIntervalSeconds int             `yaml:"pingIntervalSeconds,omitempty" json:"pingIntervalSeconds,omitempty" mapstructure:"pingIntervalSeconds"`
	RelayTimeoutSeconds int             `yaml:"relayTimeoutSeconds,omitempty" json:"relayTimeoutSeconds,omitempty" mapstructure:"relayTimeoutSeconds"`

	httpClient *http.Client
}

// ClientTransport selects the downstream MCP server. Command takes precedence over URL.
type ClientTransport struct {
	Type      string   `yaml:"type,omitempty" json:"type,omitempty" mapstructure:"type" short:"T" long:"transport-type" description:"http transport type" choice:"auto" choice:"sse" choice:"streamable"`
	URL       string   `yaml:"url,omitempty" json:"url,omitempty" mapstructure:"url" short:"u" long:"url" description:"mcp server url"`
	Command   string   `yaml:"command,omitempty" json:"command,omitempty" mapstructure:"command" short:"C" long:"command" description:"mcp server command"`
	Arguments []string `yaml:"arguments,omitempty" json:"arguments,omitempty" mapstructure:"arguments" short:"A" long:"arguments" description:"mcp server command arguments"`
}

// ClientAuth defines authentication options for HTTP transports.
type ClientAuth struct {
	OAuth2ConfigURL string `yaml:"oauth2ConfigURL,omitempty" json:"oauth2ConfigURL,omitempty" mapstructure:"oauth2ConfigURL" short:"c" long:"oauth2-config" description:"oauth2 config file"`
	EncryptionKey   string `yaml:"encryptionKey,omitempty" json:"encryptionKey,omitempty" mapstructure:"encryptionKey" short:"k" long:"key" description:"encryption key"`
	AccessToken     string `yaml:"accessToken,omitempty" json:"accessToken,omitempty" mapstructure:"accessToken" long:"token" description:"static bearer token"`
	OutOfBand       bool   `yaml:"outOfBand,omitempty" json:"outOfBand,omitempty" mapstructure:"outOfBand" long:"oob" description:"use out of band oauth2 flow"`
}

// Init sets defaults
func (c *ClientOptions) Init() {
	if c.Engine == "" {
		c.Engine = EngineViant
	}
	if c.Name == "" {
		c.Name = "mcp-bridge"
		c.Version = "0.1"
	}
	if c.Transport.Type == "" {
		c.Transport.Type = client.TransportAuto
	}
}

// ServerURL returns the downstream server URL; a command is encoded as stdio://command?arg=...
func (c *ClientOptions) ServerURL() string {
	if c.Transport.Command == "" {
		return c.Transport.URL
	}
	ret := &url.URL{Scheme: "stdio", Path: c.Transport.Command}
	if len(c.Transport.Arguments) > 0 {
		ret.RawQuery = url.Values{"arg": c.Transport.Arguments}.Encode()
	}
	return ret.String()
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}

// roundTripper builds an authorizing transport once and reuses it across reconnects.
func (c *ClientOptions) roundTripper(ctx context.Context) (*auth.RoundTripper, error) {
	if c.Auth == nil {
		return nil, nil
	}
	var options []auth.Option
	if c.Auth.OutOfBand {
		options = append(options, auth.WithAuthFlow(flow.NewOutOfBandFlow(), flow.WithPKCE(true)))
	}
	if c.Auth.AccessToken != "" {
		return auth.NewStatic(c.Auth.AccessToken, options...), nil
	}
	if c.Auth.OAuth2ConfigURL == "" {
		return nil, nil
	}
	config, err := auth.LoadConfig(ctx, c.Auth.OAuth2ConfigURL, c.Auth.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return auth.New(config, options...), nil
}

// NewHandle creates the native client handle selected by options.Engine
func NewHandle(ctx context.Context, options *ClientOptions, log logger.Logger) (native.Handle, error) {
	if options == nil {
		options = &ClientOptions{}
	}
	options.Init()
	if log == nil {
		log = logger.Nop()
	}
	rt, err := options.roundTripper(ctx)
	if err != nil {
		return nil, err
	}
	if rt != nil && options.httpClient == nil {
		options.httpClient = &http.Client{Transport: rt}
	}
	log = log.With(logger.String("engine", options.Engine))

	switch options.Engine {
	case EngineViant:
		clientOptions := []client.Option{
			client.WithTransportType(options.Transport.Type),
			client.WithLogger(log),
		}
		if options.ProtocolVersion != "" {
			clientOptions = append(clientOptions, client.WithProtocolVersion(options.ProtocolVersion))
		}
		if options.httpClient != nil {
			clientOptions = append(clientOptions, client.WithHTTPClient(options.httpClient))
		}
		if rt != nil {
			clientOptions = append(clientOptions, client.WithAuthorizer(auth.NewAuthorizer(rt)))
		}
		if options.PingIntervalSeconds > 0 {
			clientOptions = append(clientOptions, client.WithPingInterval(seconds(options.PingIntervalSeconds)))
		}
		if options.RelayTimeoutSeconds > 0 {
			clientOptions = append(clientOptions, client.WithRelayTimeout(seconds(options.RelayTimeoutSeconds)))
		}
		return client.New(options.Name, options.Version, clientOptions...), nil
	case EngineGoSDK:
		engineOptions := []gosdk.Option{gosdk.WithLogger(log)}
		if options.Transport.Type == gosdk.TransportSSE || options.Transport.Type == gosdk.TransportStreamable {
			engineOptions = append(engineOptions, gosdk.WithTransportType(options.Transport.Type))
		}
		if options.httpClient != nil {
			engineOptions = append(engineOptions, gosdk.WithHTTPClient(options.httpClient))
		}
		if options.RelayTimeoutSeconds > 0 {
			engineOptions = append(engineOptions, gosdk.WithRelayTimeout(seconds(options.RelayTimeoutSeconds)))
		}
		return gosdk.New(options.Name, options.Version, engineOptions...), nil
	}
	return nil, fmt.Errorf("unsupported engine %q", options.Engine)
}
