// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultServerAddr   = "127.0.0.1:8787"
	DefaultChatEndpoint = "https://api.openai.com/v1"
	DefaultChatModel    = "gpt-5-nano"
	DefaultSite         = "mimir"
)

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Chat   ChatConfig   `toml:"chat"`
	UI     UIConfig     `toml:"ui"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig holds the chat proxy listener settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// ChatConfig holds the upstream chat-completion settings and where the TUI
// reaches the proxy.
type ChatConfig struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	// ProxyURL is the full URL of the chat endpoint the TUI posts to.
	// Defaults to the local server address.
	ProxyURL string `toml:"proxy_url"`
	// TimeoutSeconds bounds the upstream round trip. 0 disables the bound.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Timeout returns the upstream timeout as a duration.
func (c ChatConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// UIConfig holds user-interface settings.
type UIConfig struct {
	// SyntaxTheme is the Chroma theme used to render page content.
	SyntaxTheme string `toml:"syntax_theme"`
	// Site is the content site shown at startup.
	Site string `toml:"site"`
}

// SyntaxThemeOrDefault returns the configured syntax theme or "vulcan" if unset.
func (u UIConfig) SyntaxThemeOrDefault() string {
	if u.SyntaxTheme == "" {
		return "vulcan"
	}
	return u.SyntaxTheme
}

// StoreConfig holds the sidebar state database location.
type StoreConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultServerAddr},
		Chat: ChatConfig{
			Endpoint:       DefaultChatEndpoint,
			Model:          DefaultChatModel,
			TimeoutSeconds: 60,
		},
		UI: UIConfig{Site: DefaultSite},
	}
}

// Load reads configuration from a TOML file and applies environment variable
// overrides. A missing file at the default location is not an error; a
// missing file at an explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fillDefaults restores defaults for keys a config file set to empty.
func (c *Config) fillDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Chat.Endpoint == "" {
		c.Chat.Endpoint = DefaultChatEndpoint
	}
	if c.Chat.Model == "" {
		c.Chat.Model = DefaultChatModel
	}
	if c.Chat.ProxyURL == "" {
		c.Chat.ProxyURL = "http://" + c.Server.Addr + "/api/ai/chat"
	}
	if c.UI.Site == "" {
		c.UI.Site = DefaultSite
	}
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.addr=%q is invalid: %v", c.Server.Addr, err))
	}
	if err := validateURL(c.Chat.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("chat.endpoint=%q is invalid: %v", c.Chat.Endpoint, err))
	}
	if err := validateURL(c.Chat.ProxyURL); err != nil {
		errs = append(errs, fmt.Errorf("chat.proxy_url=%q is invalid: %v", c.Chat.ProxyURL, err))
	}
	if c.Chat.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("chat.timeout_seconds=%d must not be negative", c.Chat.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateURL(value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("missing scheme or host")
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"MIMIR_SERVER_ADDR", func(v string) { cfg.Server.Addr = v }},
		{"MIMIR_CHAT_ENDPOINT", func(v string) { cfg.Chat.Endpoint = v }},
		{"MIMIR_CHAT_PROXY_URL", func(v string) { cfg.Chat.ProxyURL = v }},
		{"MIMIR_CHAT_MODEL", func(v string) { cfg.Chat.Model = v }},
	} {
		if v := os.Getenv(setter.env); v != "" {
			setter.apply(v)
		}
	}
}

// StorePathOrDefault returns the configured state database path or
// <datadir>/state.db.
func (c *Config) StorePathOrDefault() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := EnsureDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.db"), nil
}

// DefaultPath returns ~/.config/mimir/config.toml.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the path to the Mimir data directory (~/.config/mimir).
// MIMIR_DATA_DIR overrides it.
func DataDir() (string, error) {
	if dir := os.Getenv("MIMIR_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mimir"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
