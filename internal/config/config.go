// Package config loads agentchat settings from defaults, an optional TOML
// file, AGENTCHAT_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"agentchat/internal/agentapi"
	"agentchat/internal/chat"
)

const (
	EnvPrefix      = "AGENTCHAT"
	EnvConfigPath  = "AGENTCHAT_CONFIG"
	DefaultBaseURL = "http://localhost:8081"
)

// Config holds application configuration.
type Config struct {
	BaseURL            string `mapstructure:"base_url"`
	FallbackError      string `mapstructure:"fallback_error"`
	HTTPTimeoutSeconds int    `mapstructure:"http_timeout"`
	AltScreen          bool   `mapstructure:"alt_screen"`
	LogFile            string `mapstructure:"log_file"`
	ProbeOnStart       bool   `mapstructure:"probe_on_start"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// flag name -> config key
var flagKeys = map[string]string{
	"base-url":       "base_url",
	"fallback-error": "fallback_error",
	"http-timeout":   "http_timeout",
	"alt-screen":     "alt_screen",
	"log-file":       "log_file",
	"probe-on-start": "probe_on_start",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a TOML config file (default ~/.config/agentchat/config.toml)")
	fs.String("base-url", DefaultBaseURL, "Agent backend base URL")
	fs.String("fallback-error", chat.DefaultFallback, "Transcript text shown when a prompt fails")
	fs.Int("http-timeout", int(agentapi.DefaultTimeout/time.Second), "HTTP transport timeout in seconds")
	fs.Bool("alt-screen", true, "Use alternate screen buffer")
	fs.String("log-file", "", "Write diagnostics to this file")
	fs.Bool("probe-on-start", false, "Check backend health when the UI starts")
}

// Load resolves the configuration. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("fallback_error", chat.DefaultFallback)
	v.SetDefault("http_timeout", int(agentapi.DefaultTimeout/time.Second))
	v.SetDefault("alt_screen", true)
	v.SetDefault("log_file", "")
	v.SetDefault("probe_on_start", false)

	v.SetConfigType("toml")
	explicit := os.Getenv(EnvConfigPath)
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			explicit = f.Value.String()
		}
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "agentchat"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = v.ConfigFileUsed()
	if _, err := os.Stat(c.File); c.File != "" && err != nil {
		c.File = ""
	}
	return c.normalize()
}

func (c Config) normalize() (Config, error) {
	base, err := agentapi.NormalizeBaseURL(c.BaseURL)
	if err != nil {
		return Config{}, err
	}
	c.BaseURL = base
	if strings.TrimSpace(c.FallbackError) == "" {
		c.FallbackError = chat.DefaultFallback
	}
	c.HTTPTimeoutSeconds = clampInt(c.HTTPTimeoutSeconds, 1, 600)
	c.LogFile = strings.TrimSpace(c.LogFile)
	return c, nil
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
