package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Auth.RedirectURI != "http://127.0.0.1:8080" {
			t.Errorf("expected redirect uri http://127.0.0.1:8080, got %s", config.Auth.RedirectURI)
		}
		if config.Auth.BindAddress != "127.0.0.1:8080" {
			t.Errorf("expected bind address 127.0.0.1:8080, got %s", config.Auth.BindAddress)
		}
		if config.Store.Service != "yt-randomizer" {
			t.Errorf("expected store service yt-randomizer, got %s", config.Store.Service)
		}
		if config.Store.Backend != "keyring" {
			t.Errorf("expected keyring backend, got %s", config.Store.Backend)
		}
		if config.Auth.ReauthorizeOnRefreshFailure {
			t.Error("expected refresh failures to fail closed by default")
		}
		if config.Shuffle.RequestsPerSecond != 5.0 {
			t.Errorf("expected 5 requests per second, got %v", config.Shuffle.RequestsPerSecond)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig keeps defaults for missing keys", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[credentials.google]
client_id = "file_id"
client_secret = "file_secret"

[store]
backend = "sqlite"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Google.ClientID != "file_id" {
			t.Errorf("expected client_id file_id, got %s", config.Credentials.Google.ClientID)
		}
		if config.Store.Backend != "sqlite" {
			t.Errorf("expected sqlite backend, got %s", config.Store.Backend)
		}
		if config.Store.Service != "yt-randomizer" {
			t.Errorf("expected default service to survive, got %s", config.Store.Service)
		}
	})

	t.Run("LoadConfig rejects invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[auth\nbroken"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		config.ApplyEnv(mapLookup(map[string]string{
			EnvClientID:     "env_id",
			EnvClientSecret: "env_secret",
			EnvContainer:    "",
		}))

		if config.Credentials.Google.ClientID != "env_id" {
			t.Errorf("expected env client id, got %s", config.Credentials.Google.ClientID)
		}
		if config.Credentials.Google.ClientSecret != "env_secret" {
			t.Errorf("expected env client secret, got %s", config.Credentials.Google.ClientSecret)
		}
		if got := config.Auth.ListenAddress(); got != "0.0.0.0:8080" {
			t.Errorf("expected container bind address, got %s", got)
		}
	})

	t.Run("ApplyEnv ignores empty values", func(t *testing.T) {
		config := DefaultConfig()
		config.Credentials.Google.ClientID = "file_id"
		config.ApplyEnv(mapLookup(map[string]string{EnvClientID: ""}))

		if config.Credentials.Google.ClientID != "file_id" {
			t.Errorf("expected file client id to survive, got %s", config.Credentials.Google.ClientID)
		}
		if got := config.Auth.ListenAddress(); got != "127.0.0.1:8080" {
			t.Errorf("expected loopback bind address, got %s", got)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			id      string
			secret  string
			wantErr bool
		}{
			{name: "both set", id: "id", secret: "secret"},
			{name: "missing id", secret: "secret", wantErr: true},
			{name: "missing secret", id: "id", wantErr: true},
			{name: "missing both", wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				config.Credentials.Google = GoogleConfig{ClientID: tt.id, ClientSecret: tt.secret}

				err := config.Validate()
				if tt.wantErr && !errors.Is(err, ErrMissingConfig) {
					t.Errorf("expected ErrMissingConfig, got %v", err)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			})
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		if got := (AuthConfig{}).Timeout(); got != 300*time.Second {
			t.Errorf("expected 300s default, got %v", got)
		}
		if got := (AuthConfig{TimeoutSeconds: 30}).Timeout(); got != 30*time.Second {
			t.Errorf("expected 30s, got %v", got)
		}
	})
}
