package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variable names read once at process start by [Config.ApplyEnv].
const (
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvContainer    = "IN_DOCKER"
)

// Config represents the application configuration loaded from a TOML file and overlaid with the environment.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Auth        AuthConfig        `toml:"auth"`
	Store       StoreConfig       `toml:"store"`
	Database    DatabaseConfig    `toml:"database"`
	Shuffle     ShuffleConfig     `toml:"shuffle"`
}

// CredentialsConfig contains provider credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
}

// GoogleConfig contains the OAuth client registered with Google.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// AuthConfig controls the authorization flow and the redirect listener.
type AuthConfig struct {
	RedirectURI          string `toml:"redirect_uri"`
	BindAddress          string `toml:"bind_address"`
	ContainerBindAddress string `toml:"container_bind_address"`
	Container            bool   `toml:"container"`
	TimeoutSeconds       int    `toml:"timeout_seconds"`
	OpenBrowser          bool   `toml:"open_browser"`
	// ReauthorizeOnRefreshFailure runs a fresh authorization when a refresh is rejected.
	ReauthorizeOnRefreshFailure bool `toml:"reauthorize_on_refresh_failure"`
}

// StoreConfig selects the credential store backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // keyring, sqlite or memory
	Service string `toml:"service"`
}

// DatabaseConfig contains database connection settings for the sqlite credential store.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ShuffleConfig paces the per-item update calls.
type ShuffleConfig struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays values from the environment onto the config.
//
// lookup has the signature of [os.LookupEnv]; main passes the real one, tests pass a map.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvClientID); ok && v != "" {
		c.Credentials.Google.ClientID = v
	}
	if v, ok := lookup(EnvClientSecret); ok && v != "" {
		c.Credentials.Google.ClientSecret = v
	}
	if _, ok := lookup(EnvContainer); ok {
		c.Auth.Container = true
	}
}

// Validate reports missing mandatory settings.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.Google.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.Credentials.Google.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// ListenAddress returns the address the redirect listener binds to.
func (a AuthConfig) ListenAddress() string {
	if a.Container && a.ContainerBindAddress != "" {
		return a.ContainerBindAddress
	}
	return a.BindAddress
}

// Timeout returns the redirect wait limit.
func (a AuthConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}
