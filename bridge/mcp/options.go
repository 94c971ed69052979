package mcp

import (
	"github.com/viant/mcpbridge"
	"github.com/viant/mcpbridge/logger"
)

// Config represents bridge configuration, loaded from a file and environment
type Config struct {
	Client  mcpbridge.ClientOptions `yaml:"client" json:"client" mapstructure:"client" group:"client"`
	Server  mcpbridge.ServerOptions `yaml:"server" json:"server" mapstructure:"server" group:"host"`
	Log     logger.Config           `yaml:"log" json:"log" mapstructure:"log"`
	Connect bool                    `yaml:"connect" json:"connect" mapstructure:"connect" long:"connect" description:"initialize and connect to the mcp server on start"`
}

// Options represents command line options; flags override the config file
type Options struct {
	ConfigURL string `short:"f" long:"config-url" description:"bridge config URL (yaml or json, any afs storage)"`
	LogLevel  string `short:"l" long:"log-level" description:"log level" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	LogFile   string `long:"log-file" description:"log file, rotated"`
	Config
}

func (o *Options) apply() {
	if o.LogLevel != "" {
		o.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		o.Log.OutputPath = o.LogFile
	}
	if o.Client.ServerURL() == "" {
		o.Connect = false
	}
}
