package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"agentchat/internal/chat"
	"agentchat/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfigPath, "")
	for _, key := range []string{"BASE_URL", "FALLBACK_ERROR", "HTTP_TIMEOUT", "ALT_SCREEN", "LOG_FILE", "PROBE_ON_START"} {
		t.Setenv("AGENTCHAT_"+key, "")
		os.Unsetenv("AGENTCHAT_" + key)
	}
	return home
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("agentchat", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8081", cfg.BaseURL)
	require.Equal(t, chat.DefaultFallback, cfg.FallbackError)
	require.Equal(t, 60*time.Second, cfg.HTTPTimeout())
	require.True(t, cfg.AltScreen)
	require.False(t, cfg.ProbeOnStart)
	require.Empty(t, cfg.File)
}

func TestLoadPrecedence(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "agentchat")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
base_url = "http://file-host:9000/"
fallback_error = "from file"
http_timeout = 15
probe_on_start = true
`), 0o600))

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)
	require.Equal(t, "http://file-host:9000", cfg.BaseURL)
	require.Equal(t, "from file", cfg.FallbackError)
	require.Equal(t, 15*time.Second, cfg.HTTPTimeout())
	require.True(t, cfg.ProbeOnStart)
	require.Equal(t, file, cfg.File)

	t.Setenv("AGENTCHAT_BASE_URL", "http://env-host:9001")
	cfg, err = config.Load(newFlags(t))
	require.NoError(t, err)
	require.Equal(t, "http://env-host:9001", cfg.BaseURL)

	cfg, err = config.Load(newFlags(t, "--base-url", "https://flag-host"))
	require.NoError(t, err)
	require.Equal(t, "https://flag-host", cfg.BaseURL)
	require.Equal(t, "from file", cfg.FallbackError)
}

func TestLoadExplicitFile(t *testing.T) {
	isolate(t)
	file := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(file, []byte("http_timeout = 9000\n"), 0o600))

	cfg, err := config.Load(newFlags(t, "--config", file))
	require.NoError(t, err)
	require.Equal(t, 600, cfg.HTTPTimeoutSeconds)

	_, err = config.Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "missing.toml")))
	require.Error(t, err)
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	isolate(t)
	_, err := config.Load(newFlags(t, "--base-url", "localhost:8081"))
	require.Error(t, err)
}

func TestLoadBlankFallbackUsesDefault(t *testing.T) {
	isolate(t)
	cfg, err := config.Load(newFlags(t, "--fallback-error", "   "))
	require.NoError(t, err)
	require.Equal(t, chat.DefaultFallback, cfg.FallbackError)
}
