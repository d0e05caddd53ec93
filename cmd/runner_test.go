package main

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshuffle/internal/auth"
	"github.com/desertthunder/ytshuffle/internal/credentials"
	"github.com/desertthunder/ytshuffle/internal/models"
	"github.com/desertthunder/ytshuffle/internal/shared"
	"github.com/desertthunder/ytshuffle/internal/tasks"
	tu "github.com/desertthunder/ytshuffle/internal/testing"
	"github.com/desertthunder/ytshuffle/internal/ui"
	"github.com/urfave/cli/v3"
)

type fixture struct {
	runner   *Runner
	output   *bytes.Buffer
	input    *strings.Reader
	store    *credentials.MemoryStore
	provider *tu.FakeProvider
	client   *tu.FakePlaylistClient
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()

	store := credentials.NewMemoryStore()
	if err := store.Set(auth.DefaultService, credentials.KeyAccess, "token"); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	if err := store.Set(auth.DefaultService, credentials.KeyRefresh, "refresh"); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}

	provider := &tu.FakeProvider{
		Credential: &models.Credential{AccessToken: "authorized", RefreshToken: "refresh"},
		Refreshed:  &models.Credential{AccessToken: "fresh"},
	}
	client := &tu.FakePlaylistClient{
		Playlists: []models.Playlist{{ID: "p1", Title: "Music"}, {ID: "p2", Title: "Mix"}},
		Items:     map[string][]models.PlaylistItem{"p2": playlistItems("p2", 5)},
	}

	f := &fixture{
		output:   &bytes.Buffer{},
		input:    strings.NewReader(input),
		store:    store,
		provider: provider,
		client:   client,
	}
	f.runner = NewRunner(RunnerOpts{
		Config:     shared.DefaultConfig(),
		Logger:     shared.NewLogger(&bytes.Buffer{}),
		Output:     f.output,
		Input:      f.input,
		IsTerminal: func() bool { return false },
		Tokens:     auth.NewTokenManager(provider, store, auth.WithManagerLogger(shared.NewLogger(&bytes.Buffer{}))),
		Playlists:  client,
		Engine: tasks.NewShuffleEngine(client,
			tasks.WithRand(rand.New(rand.NewPCG(1, 2))),
			tasks.WithLogger(shared.NewLogger(&bytes.Buffer{})),
		),
	})
	return f
}

func (f *fixture) run(args ...string) error {
	return f.runner.app().Run(context.Background(), append([]string{"ytshuffle"}, args...))
}

func playlistItems(playlistID string, n int) []models.PlaylistItem {
	items := make([]models.PlaylistItem, n)
	for i := range items {
		items[i] = models.PlaylistItem{
			ID:         "i" + string(rune('0'+i)),
			Title:      "Video " + string(rune('A'+i)),
			Position:   uint(i),
			PlaylistID: playlistID,
			ResourceID: models.ResourceID{Kind: "youtube#video", ExternalID: "v" + string(rune('0'+i))},
		}
	}
	return items
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			client := &tu.FakePlaylistClient{}
			tokens := auth.NewTokenManager(&tu.FakeProvider{}, credentials.NewMemoryStore())
			engine := tasks.NewShuffleEngine(client)

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Logger:    logger,
				Output:    output,
				Tokens:    tokens,
				Playlists: client,
				Engine:    engine,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.tokens != tokens {
				t.Error("expected tokens to be set")
			}
			if runner.playlists != client {
				t.Error("expected playlists to be set")
			}
			if runner.engine != engine {
				t.Error("expected engine to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil lookup sees an empty environment", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if _, ok := runner.lookupEnv(shared.EnvClientID); ok {
				t.Error("expected empty environment")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("writeBytes handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeBytes([]byte("test")); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("prepare", func(t *testing.T) {
		t.Run("fails without client credentials", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: shared.DefaultConfig(),
				Logger: shared.NewLogger(&bytes.Buffer{}),
				Output: &bytes.Buffer{},
			})

			err := runner.prepare(context.Background(), &cli.Command{})
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Fatalf("expected ErrMissingConfig, got %v", err)
			}
			if runner.tokens != nil {
				t.Error("expected no token manager")
			}
		})

		t.Run("builds dependencies from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Google.ClientID = "id"
			config.Credentials.Google.ClientSecret = "secret"
			config.Store.Backend = "memory"

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: shared.NewLogger(&bytes.Buffer{}),
				Output: &bytes.Buffer{},
			})
			defer runner.Close()

			if err := runner.prepare(context.Background(), &cli.Command{}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.tokens == nil || runner.playlists == nil || runner.engine == nil {
				t.Error("expected all dependencies to be built")
			}
			if len(runner.closers) != 1 {
				t.Errorf("expected store closer, got %d closers", len(runner.closers))
			}
		})

		t.Run("rejects unknown store backend", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Google.ClientID = "id"
			config.Credentials.Google.ClientSecret = "secret"
			config.Store.Backend = "vault"

			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(&bytes.Buffer{})})

			err := runner.prepare(context.Background(), &cli.Command{})
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("reads credentials from the environment", func(t *testing.T) {
			env := map[string]string{shared.EnvClientID: "env-id", shared.EnvClientSecret: "env-secret"}
			runner := NewRunner(RunnerOpts{
				Logger: shared.NewLogger(&bytes.Buffer{}),
				LookupEnv: func(key string) (string, bool) {
					v, ok := env[key]
					return v, ok
				},
			})

			var config *shared.Config
			cmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					var err error
					config, err = runner.loadConfig(cmd)
					return err
				},
			}
			missing := filepath.Join(t.TempDir(), "missing.toml")
			if err := cmd.Run(context.Background(), []string{"test", "--config", missing}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.Credentials.Google.ClientID != "env-id" || config.Credentials.Google.ClientSecret != "env-secret" {
				t.Errorf("expected credentials from environment, got %+v", config.Credentials.Google)
			}
		})
	})
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		n       int
		want    int
		wantErr bool
	}{
		{name: "first", input: "1", n: 3, want: 0},
		{name: "last", input: "3", n: 3, want: 2},
		{name: "surrounding whitespace", input: " 2\n", n: 3, want: 1},
		{name: "zero", input: "0", n: 3, wantErr: true},
		{name: "too large", input: "4", n: 3, wantErr: true},
		{name: "negative", input: "-1", n: 3, wantErr: true},
		{name: "not a number", input: "abc", n: 3, wantErr: true},
		{name: "empty", input: "", n: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(tt.input, tt.n)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidSelection) {
					t.Fatalf("expected ErrInvalidSelection, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestShuffleCommand(t *testing.T) {
	t.Run("shuffles the chosen playlist", func(t *testing.T) {
		f := newFixture(t, "2\n")

		if err := f.run(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := f.output.String()
		for _, want := range []string{
			"Found 2 playlists",
			"1. Music\n2. Mix\n",
			ui.SortedWarning,
			"Please enter a playlist number [1-2]: ",
			"Chose Mix, with id: p2",
			"Here are the items in the playlist",
			"Item updated",
			"Shuffled Mix: 5 items processed\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}

		if len(f.client.Updates) != 5 {
			t.Fatalf("expected 5 updates, got %d", len(f.client.Updates))
		}
		seen := make(map[string]bool)
		for i, item := range f.client.Updates {
			if item.Position != uint(i) {
				t.Errorf("expected position %d, got %d", i, item.Position)
			}
			seen[item.ID] = true
		}
		if len(seen) != 5 {
			t.Errorf("expected every item updated once, got %v", seen)
		}
	})

	t.Run("uses --index without prompting", func(t *testing.T) {
		f := newFixture(t, "")

		if err := f.run("--index", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := f.output.String()
		if strings.Contains(out, "Please enter") {
			t.Error("expected no prompt with --index")
		}
		if !strings.Contains(out, "Chose Mix") {
			t.Errorf("expected Mix to be chosen, got:\n%s", out)
		}
	})

	t.Run("empty account fails without prompting", func(t *testing.T) {
		f := newFixture(t, "1\n")
		f.client.Playlists = nil

		err := f.run()
		if !errors.Is(err, shared.ErrNoPlaylists) {
			t.Fatalf("expected ErrNoPlaylists, got %v", err)
		}
		if f.input.Len() != 2 {
			t.Error("expected the selection not to be read")
		}
		if strings.Contains(f.output.String(), "Please enter") {
			t.Error("expected no prompt")
		}
		if !strings.Contains(f.output.String(), "No playlists found") {
			t.Errorf("expected no playlists message, got %q", f.output.String())
		}
	})

	t.Run("invalid selections fail", func(t *testing.T) {
		for _, input := range []string{"7\n", "abc\n", ""} {
			f := newFixture(t, input)

			err := f.run()
			if !errors.Is(err, shared.ErrInvalidSelection) {
				t.Errorf("input %q: expected ErrInvalidSelection, got %v", input, err)
			}
			if len(f.client.Updates) != 0 {
				t.Errorf("input %q: expected no updates", input)
			}
		}
	})

	t.Run("--index out of range fails", func(t *testing.T) {
		f := newFixture(t, "")

		if err := f.run("-i", "3"); !errors.Is(err, shared.ErrInvalidSelection) {
			t.Fatalf("expected ErrInvalidSelection, got %v", err)
		}
	})

	t.Run("partial failure is reported but not fatal", func(t *testing.T) {
		f := newFixture(t, "2\n")
		f.client.UpdateErr = map[string]error{"i3": errors.New("backend error")}

		if err := f.run(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := f.output.String()
		if !strings.Contains(out, "Shuffled Mix: 5 items processed, 1 failed") {
			t.Errorf("expected summary with failure, got:\n%s", out)
		}
		if !strings.Contains(out, "Error while updating") {
			t.Errorf("expected failure progress line, got:\n%s", out)
		}
	})

	t.Run("expired token is refreshed once", func(t *testing.T) {
		f := newFixture(t, "2\n")
		f.client.Unauthorized = map[string]bool{"token": true}

		if err := f.run(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if f.provider.RefreshCalls != 1 {
			t.Errorf("expected 1 refresh, got %d", f.provider.RefreshCalls)
		}
		if f.client.Tokens[0] != "token" || f.client.Tokens[1] != "fresh" {
			t.Errorf("expected stale then fresh token, got %v", f.client.Tokens)
		}
		stored, _ := f.store.Get(auth.DefaultService, credentials.KeyAccess)
		if stored != "fresh" {
			t.Errorf("expected refreshed token stored, got %q", stored)
		}
	})

	t.Run("refresh failure is fatal", func(t *testing.T) {
		f := newFixture(t, "2\n")
		f.client.Unauthorized = map[string]bool{"token": true}
		f.provider.RefreshErr = shared.ErrRefreshFailed

		if err := f.run(); !errors.Is(err, shared.ErrRefreshFailed) {
			t.Fatalf("expected ErrRefreshFailed, got %v", err)
		}
	})

	t.Run("--tui without a terminal falls back to the prompt", func(t *testing.T) {
		f := newFixture(t, "1\n")
		f.client.Items["p1"] = playlistItems("p1", 2)

		if err := f.run("--tui"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Chose Music") {
			t.Errorf("expected prompt flow, got:\n%s", f.output.String())
		}
	})
}

func TestPlaylistsCommand(t *testing.T) {
	f := newFixture(t, "")

	if err := f.run("playlists"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := "Found 2 playlists\n1. Music\n2. Mix\n"
	if f.output.String() != expected {
		t.Errorf("expected %q, got %q", expected, f.output.String())
	}
	if len(f.client.Updates) != 0 {
		t.Error("expected no updates")
	}
}

func TestClearCommand(t *testing.T) {
	t.Run("revokes and clears both tokens", func(t *testing.T) {
		f := newFixture(t, "")

		if err := f.run("clear"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.provider.Revoked) != 2 {
			t.Errorf("expected 2 revocations, got %v", f.provider.Revoked)
		}
		for _, key := range []string{credentials.KeyAccess, credentials.KeyRefresh} {
			if _, err := f.store.Get(auth.DefaultService, key); !errors.Is(err, credentials.ErrNotFound) {
				t.Errorf("expected %s token cleared, got %v", key, err)
			}
		}
		if !strings.Contains(f.output.String(), "Successfully cleared access token") {
			t.Errorf("expected success message, got %q", f.output.String())
		}
	})

	t.Run("keeps tokens when revocation fails", func(t *testing.T) {
		f := newFixture(t, "")
		f.provider.RevokeErr = shared.ErrRevokeFailed

		err := f.run("clear")
		if !errors.Is(err, shared.ErrRevokeFailed) {
			t.Fatalf("expected ErrRevokeFailed, got %v", err)
		}

		if v, _ := f.store.Get(auth.DefaultService, credentials.KeyRefresh); v != "refresh" {
			t.Errorf("expected refresh token kept, got %q", v)
		}
		if !strings.Contains(f.output.String(), "use --force") {
			t.Errorf("expected force hint, got %q", f.output.String())
		}
	})

	t.Run("--force clears despite revocation failure", func(t *testing.T) {
		f := newFixture(t, "")
		f.provider.RevokeErr = shared.ErrRevokeFailed

		if err := f.run("clear", "--force"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, key := range []string{credentials.KeyAccess, credentials.KeyRefresh} {
			if _, err := f.store.Get(auth.DefaultService, key); !errors.Is(err, credentials.ErrNotFound) {
				t.Errorf("expected %s token cleared, got %v", key, err)
			}
		}
	})

	t.Run("--force reports a store that cannot delete", func(t *testing.T) {
		f := newFixture(t, "")
		f.provider.RevokeErr = shared.ErrRevokeFailed

		store := tu.NewFaultyStore()
		store.Set(auth.DefaultService, credentials.KeyAccess, "token")
		store.Set(auth.DefaultService, credentials.KeyRefresh, "refresh")
		store.DeleteErr = tu.StoreFailure("delete")
		f.runner.tokens = auth.NewTokenManager(f.provider, store, auth.WithManagerLogger(shared.NewLogger(&bytes.Buffer{})))

		err := f.run("clear", "--force")
		if !errors.Is(err, shared.ErrCredentialStore) {
			t.Fatalf("expected ErrCredentialStore, got %v", err)
		}

		out := f.output.String()
		if strings.Contains(out, "use --force") {
			t.Errorf("expected no force hint when --force was given, got %q", out)
		}
		if !strings.Contains(out, "Could not remove access token from the credential store") {
			t.Errorf("expected store failure message, got %q", out)
		}
	})

	t.Run("verbose flag enables debug logging", func(t *testing.T) {
		f := newFixture(t, "")

		if err := f.run("--verbose", "clear"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if f.runner.logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", f.runner.logger.GetLevel())
		}
	})

	t.Run("nothing stored", func(t *testing.T) {
		f := newFixture(t, "")
		f.store.Delete(auth.DefaultService, credentials.KeyAccess)
		f.store.Delete(auth.DefaultService, credentials.KeyRefresh)

		if err := f.run("clear", "-f"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(f.provider.Revoked) != 0 {
			t.Errorf("expected no revocations, got %v", f.provider.Revoked)
		}
	})
}

func TestSetupCommand(t *testing.T) {
	tu.MustChdir(t, t.TempDir())

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(&bytes.Buffer{})})

	if err := runner.app().Run(context.Background(), []string{"ytshuffle", "setup"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tu.AssertFileExists(t, "config.toml")
	tu.AssertFileExists(t, "ytshuffle.db")
	if !strings.Contains(tu.MustReadFile(t, "config.toml"), "[credentials.google]") {
		t.Error("expected config written from template")
	}
	if !strings.Contains(output.String(), "1 migrations applied") {
		t.Errorf("expected migration count, got %q", output.String())
	}

	t.Run("second run applies nothing", func(t *testing.T) {
		output.Reset()
		runner := NewRunner(RunnerOpts{Output: output, Logger: shared.NewLogger(&bytes.Buffer{})})

		if err := runner.app().Run(context.Background(), []string{"ytshuffle", "setup"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "0 migrations applied") {
			t.Errorf("expected no migrations, got %q", output.String())
		}
	})
}
