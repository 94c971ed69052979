package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the structured logger used across the bridge
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Field is a logging field.
type Field = zap.Field

var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Uint64   = zap.Uint64
	Bool     = zap.Bool
	Err      = zap.Error
	Any      = zap.Any
	Duration = zap.Duration
)

// Config configures the logger. Stdout is reserved for the stdio host, so output defaults to stderr.
type Config struct {
	Level      string `yaml:"level,omitempty" json:"level,omitempty" mapstructure:"level"`
	Format     string `yaml:"format,omitempty" json:"format,omitempty" mapstructure:"format"`
	OutputPath string `yaml:"outputPath,omitempty" json:"outputPath,omitempty" mapstructure:"outputPath"`
	AddCaller  bool   `yaml:"addCaller,omitempty" json:"addCaller,omitempty" mapstructure:"addCaller"`
	MaxSize    int    `yaml:"maxSize,omitempty" json:"maxSize,omitempty" mapstructure:"maxSize"`
	MaxBackups int    `yaml:"maxBackups,omitempty" json:"maxBackups,omitempty" mapstructure:"maxBackups"`
	MaxAge     int    `yaml:"maxAge,omitempty" json:"maxAge,omitempty" mapstructure:"maxAge"`
	Compress   bool   `yaml:"compress,omitempty" json:"compress,omitempty" mapstructure:"compress"`
}

type zapLogger struct {
	logger *zap.Logger
}

// New creates a zap backed logger
func New(config *Config) (Logger, error) {
	if config == nil {
		config = &Config{}
	}
	level := zapcore.InfoLevel
	if config.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(config.Level))); err != nil {
			return nil, err
		}
	}
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	var encoder zapcore.Encoder
	if config.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, config.writer(), level)
	var opts []zap.Option
	if config.AddCaller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	return &zapLogger{logger: zap.New(core, opts...)}, nil
}

func (c *Config) writer() zapcore.WriteSyncer {
	switch c.OutputPath {
	case "", "stderr":
		return zapcore.Lock(os.Stderr)
	case "stdout":
		return zapcore.Lock(os.Stdout)
	}
	writer := &lumberjack.Logger{
		Filename:   c.OutputPath,
		MaxSize:    c.MaxSize,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAge,
		Compress:   c.Compress,
	}
	if writer.MaxSize == 0 {
		writer.MaxSize = 100
	}
	if writer.MaxBackups == 0 {
		writer.MaxBackups = 3
	}
	if writer.MaxAge == 0 {
		writer.MaxAge = 30
	}
	return zapcore.AddSync(writer)
}

// Wrap adapts an existing zap logger
func Wrap(logger *zap.Logger) Logger {
	return &zapLogger{logger: logger}
}

// Nop returns a logger that discards everything
func Nop() Logger {
	return &zapLogger{logger: zap.NewNop()}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.logger.Debug(msg, fields...) }

func (l *zapLogger) Info(msg string, fields ...Field) { l.logger.Info(msg, fields...) }

func (l *zapLogger) Warn(msg string, fields ...Field) { l.logger.Warn(msg, fields...) }

func (l *zapLogger) Error(msg string, fields ...Field) { l.logger.Error(msg, fields...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{logger: l.logger.With(fields...)}
}

func (l *zapLogger) Sync() error {
	return l.logger.Sync()
}
