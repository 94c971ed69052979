package mcp

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/mcpbridge"
	"github.com/viant/mcpbridge/client"
)

// EnvPrefix prefixes environment overrides, e.g. MCPBRIDGE_CLIENT_TRANSPORT_URL
const EnvPrefix = "MCPBRIDGE"

// LoadConfig loads config from an optional afs URL, then applies environment overrides
func LoadConfig(ctx context.Context, configURL string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configURL != "" {
		data, err := afs.New().DownloadWithURL(ctx, configURL)
		if err != nil {
			return nil, fmt.Errorf("failed to download config %v: %w", configURL, err)
		}
		v.SetConfigType(configType(configURL))
		if err = v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to read config %v: %w", configURL, err)
		}
	}
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}

func configType(configURL string) string {
	switch strings.ToLower(path.Ext(url.Path(configURL))) {
	case ".json":
		return "json"
	}
	return "yaml"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client.engine", mcpbridge.EngineViant)
	v.SetDefault("client.name", "mcp-bridge")
	v.SetDefault("client.version", "0.1")
	v.SetDefault("client.protocol", "")
	v.SetDefault("client.transport.type", client.TransportAuto)
	v.SetDefault("client.transport.url", "")
	v.SetDefault("client.transport.command", "")
	v.SetDefault("client.pingIntervalSeconds", 0)
	v.SetDefault("client.relayTimeoutSeconds", 0)

	v.SetDefault("server.transport", mcpbridge.HostStdio)
	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("server.basePath", "/")
	v.SetDefault("server.jwtSecret", "")
	v.SetDefault("server.callTimeoutSeconds", 30)
	v.SetDefault("server.maxConcurrentCalls", 64)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.outputPath", "stderr")

	v.SetDefault("connect", false)
}
