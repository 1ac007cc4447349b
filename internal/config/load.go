package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full daemon configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Hub      HubConfig     `yaml:"hub"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Auth     AuthConfig    `yaml:"auth"`
	Audit    AuditConfig   `yaml:"audit"`
	Events   EventsConfig  `yaml:"events"`

	// MessagesPath is an optional YAML file overriding message catalog
	// entries by id.
	MessagesPath string `yaml:"messages_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// HubConfig identifies the hub org the daemon provisions against.
type HubConfig struct {
	Alias       string `yaml:"alias"`
	Username    string `yaml:"username"`
	InstanceURL string `yaml:"instance_url"`
	APIVersion  string `yaml:"api_version"`
	AccessToken string `yaml:"access_token"`

	// UseFake runs against the in-memory fake connection instead of the
	// platform. Intended for local development only.
	UseFake bool `yaml:"use_fake"`
}

// TimeoutConfig bounds the awaited calls of the signup pipeline.
type TimeoutConfig struct {
	IdentityLookup time.Duration `yaml:"identity_lookup"`
	Create         time.Duration `yaml:"create"`
}

// AuthConfig holds bearer-token verification settings.
type AuthConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Algorithm    string `yaml:"algorithm"` // "RS256" or "HS256"
	PublicKeyPEM string `yaml:"public_key_pem"`
	SecretKey    string `yaml:"secret_key"`
}

// AuditConfig holds audit log settings.
type AuditConfig struct {
	Dir string `yaml:"dir"`
}

// EventsConfig holds lifecycle event hub settings.
type EventsConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// Defaults returns the baseline configuration.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Hub: HubConfig{
			Alias:      "devhub",
			APIVersion: "v60.0",
		},
		Timeouts: TimeoutConfig{
			IdentityLookup: 10 * time.Second,
			Create:         30 * time.Second,
		},
		Auth: AuthConfig{
			Algorithm: "RS256",
		},
		Audit: AuditConfig{
			Dir: "logs",
		},
		Events: EventsConfig{
			BufferSize: 64,
		},
	}
}

// Load merges Defaults() + optional YAML file at path + HPS_* env overrides.
// An empty path skips the file step; a missing file at a non-empty path is
// an error so a typo in --config does not silently run on defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies HPS_* environment variables to the config.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("HPS_ADDR"); val != "" {
		cfg.Server.Addr = val
	}

	if val := os.Getenv("HPS_HUB_ALIAS"); val != "" {
		cfg.Hub.Alias = val
	}
	if val := os.Getenv("HPS_HUB_USERNAME"); val != "" {
		cfg.Hub.Username = val
	}
	if val := os.Getenv("HPS_HUB_INSTANCE_URL"); val != "" {
		cfg.Hub.InstanceURL = val
	}
	if val := os.Getenv("HPS_HUB_API_VERSION"); val != "" {
		cfg.Hub.APIVersion = val
	}
	if val := os.Getenv("HPS_HUB_ACCESS_TOKEN"); val != "" {
		cfg.Hub.AccessToken = val
	}
	if val := os.Getenv("HPS_HUB_USE_FAKE"); val != "" {
		if useFake, err := strconv.ParseBool(val); err == nil {
			cfg.Hub.UseFake = useFake
		}
	}

	if val := os.Getenv("HPS_TIMEOUT_IDENTITY_LOOKUP"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			cfg.Timeouts.IdentityLookup = duration
		}
	}
	if val := os.Getenv("HPS_TIMEOUT_CREATE"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			cfg.Timeouts.Create = duration
		}
	}

	if val := os.Getenv("HPS_AUTH_SECRET"); val != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.Algorithm = "HS256"
		cfg.Auth.SecretKey = val
	}

	if val := os.Getenv("HPS_AUDIT_DIR"); val != "" {
		cfg.Audit.Dir = val
	}
	if val := os.Getenv("HPS_MESSAGES"); val != "" {
		cfg.MessagesPath = val
	}
}

// Validate checks the merged configuration for internally consistent values.
func Validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Timeouts.IdentityLookup <= 0 {
		return fmt.Errorf("timeouts.identity_lookup must be positive, got %v", cfg.Timeouts.IdentityLookup)
	}
	if cfg.Timeouts.Create <= 0 {
		return fmt.Errorf("timeouts.create must be positive, got %v", cfg.Timeouts.Create)
	}
	if cfg.Events.BufferSize <= 0 {
		return fmt.Errorf("events.buffer_size must be positive, got %d", cfg.Events.BufferSize)
	}
	if !cfg.Hub.UseFake {
		if cfg.Hub.InstanceURL == "" {
			return fmt.Errorf("hub.instance_url is required unless hub.use_fake is set")
		}
		if cfg.Hub.AccessToken == "" {
			return fmt.Errorf("hub.access_token is required unless hub.use_fake is set")
		}
	}
	if cfg.Auth.Enabled {
		switch cfg.Auth.Algorithm {
		case "RS256":
			if cfg.Auth.PublicKeyPEM == "" {
				return fmt.Errorf("auth.public_key_pem is required for RS256")
			}
		case "HS256":
			if cfg.Auth.SecretKey == "" {
				return fmt.Errorf("auth.secret_key is required for HS256")
			}
		default:
			return fmt.Errorf("unsupported auth.algorithm %q", cfg.Auth.Algorithm)
		}
	}
	return nil
}
