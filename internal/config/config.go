// Package config resolves the server configuration from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Transport selects how the MCP server is exposed.
type Transport string

const (
	// TransportStdio serves the protocol over stdin/stdout.
	TransportStdio Transport = "stdio"
	// TransportStreamableHTTP serves the protocol over HTTP at /mcp.
	TransportStreamableHTTP Transport = "streamable-http"
)

// Environment variables read by Resolve.
const (
	envAPIKey    = "HELPSCOUT_API_KEY"
	envTimeout   = "HELPSCOUT_TIMEOUT"
	envPort      = "PORT"
	envHost      = "HOST"
	envTransport = "MCP_TRANSPORT"
	envLogLevel  = "LOG_LEVEL"
)

const (
	defaultPort      = 8000
	defaultHost      = "0.0.0.0"
	defaultTransport = TransportStreamableHTTP
	defaultTimeout   = 30 * time.Second
)

// Config is the resolved server configuration. It is built once at startup
// and passed by value; nothing reads the environment after Resolve returns.
type Config struct {
	APIKey    string
	Host      string
	Port      int
	Transport Transport
	LogLevel  string
	// Timeout bounds every upstream request.
	Timeout time.Duration
}

// Addr returns the host:port the network transport listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ErrorKind classifies configuration failures.
type ErrorKind string

const (
	KindMissingKey       ErrorKind = "missing_key"
	KindInvalidPort      ErrorKind = "invalid_port"
	KindUnknownTransport ErrorKind = "unknown_transport"
	KindInvalidTimeout   ErrorKind = "invalid_timeout"
)

// ConfigError reports a setting that prevents startup.
type ConfigError struct {
	Kind ErrorKind
	Var  string
	Err  error
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case KindMissingKey:
		return fmt.Sprintf("%s is not set; generate an API key in Help Scout under Your Profile > Authentication > API Keys", e.Var)
	case KindUnknownTransport:
		return fmt.Sprintf("invalid %s: %v (expected %q or %q)", e.Var, e.Err, TransportStdio, TransportStreamableHTTP)
	default:
		return fmt.Sprintf("invalid %s: %v", e.Var, e.Err)
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Resolve reads the configuration from the process environment.
func Resolve() (Config, error) {
	return resolve(os.Getenv)
}

func resolve(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIKey:    getenv(envAPIKey),
		Host:      getEnvOrDefault(getenv, envHost, defaultHost),
		Port:      defaultPort,
		Transport: defaultTransport,
		LogLevel:  getenv(envLogLevel),
		Timeout:   defaultTimeout,
	}
	if cfg.APIKey == "" {
		return Config{}, &ConfigError{Kind: KindMissingKey, Var: envAPIKey}
	}

	if v := getenv(envPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, &ConfigError{Kind: KindInvalidPort, Var: envPort, Err: err}
		}
		if port < 1 || port > 65535 {
			return Config{}, &ConfigError{Kind: KindInvalidPort, Var: envPort, Err: fmt.Errorf("%d is out of range 1-65535", port)}
		}
		cfg.Port = port
	}

	if v := getenv(envTransport); v != "" {
		switch t := Transport(v); t {
		case TransportStdio, TransportStreamableHTTP:
			cfg.Transport = t
		default:
			return Config{}, &ConfigError{Kind: KindUnknownTransport, Var: envTransport, Err: fmt.Errorf("unknown transport %q", v)}
		}
	}

	if v := getenv(envTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, &ConfigError{Kind: KindInvalidTimeout, Var: envTimeout, Err: err}
		}
		if d <= 0 {
			return Config{}, &ConfigError{Kind: KindInvalidTimeout, Var: envTimeout, Err: fmt.Errorf("must be positive, got %s", d)}
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

func getEnvOrDefault(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}
