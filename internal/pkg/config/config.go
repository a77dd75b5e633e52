package config

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Credential backends understood by credstore.Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

type Config struct {
	Env      string `env:"ENV,        default=development"`
	LogLevel string `env:"LOG_LEVEL,  default=info"`
	Pretty   bool   `env:"LOG_PRETTY, default=false"`

	API         APIConfig
	Credentials CredentialsConfig
	Server      ServerConfig
	Viewer      ViewerConfig
	Demo        DemoConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Telemetry   TelemetryConfig
}

// APIConfig points the client at the upstream stationery API.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://127.0.0.1:8000"`
	Timeout time.Duration `env:"API_TIMEOUT,  default=0s"`
}

// CredentialsConfig selects where the credential pair is persisted.
type CredentialsConfig struct {
	Backend string `env:"CREDENTIAL_BACKEND, default=file"`
	File    string `env:"CREDENTIAL_FILE"`
	Profile string `env:"PROFILE,            default=default"`
}

// ServerConfig is the listen address of `serve`. Every caller that can reach
// it acts as the signed-in user, so Host stays on loopback unless the
// operator widens it on purpose.
type ServerConfig struct {
	Host string `env:"HOST, default=127.0.0.1"`
	Port string `env:"PORT, default=8080"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type ViewerConfig struct {
	ReleaseDelay time.Duration `env:"VIEWER_RELEASE_DELAY, default=30s"`
}

// DemoConfig configures the in-memory demo upstream.
type DemoConfig struct {
	Host      string `env:"DEMO_HOST,       default=127.0.0.1"`
	Port      string `env:"DEMO_PORT,       default=8000"`
	JWTSecret string `env:"DEMO_JWT_SECRET, default=demo-secret"`
}

func (d DemoConfig) Addr() string {
	return net.JoinHostPort(d.Host, d.Port)
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=stationery_admin"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Credentials.File == "" {
		cfg.Credentials.File = DefaultCredentialFile()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Credentials.Backend {
	case BackendFile, BackendRedis, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("config: unknown credential backend %q", c.Credentials.Backend)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: API_BASE_URL must not be empty")
	}
	if c.Credentials.Profile == "" {
		return fmt.Errorf("config: PROFILE must not be empty")
	}
	return nil
}

// DefaultCredentialFile is ~/.config/stationery-admin/credentials.yaml, or a
// path in the working directory when no user config dir is available.
func DefaultCredentialFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "stationery-admin-credentials.yaml"
	}
	return filepath.Join(dir, "stationery-admin", "credentials.yaml")
}
