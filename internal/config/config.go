package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for fst, stored in ~/.fst/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// DataDir holds sessions, streaks and settings. Empty = ~/.fst/data.
	DataDir string        `json:"data_dir"`
	Storage StorageConfig `json:"storage"`
	Server  ServerConfig  `json:"server"`
	Notify  NotifyConfig  `json:"notify"`
	// Sounds maps sound ids to playable asset references.
	Sounds map[string]string `json:"sounds"`
	Log    LogConfig         `json:"log"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `json:"backend" validate:"oneof=file sqlite"`
}

// ServerConfig configures the local daemon started by `fst serve`.
type ServerConfig struct {
	Addr                 string `json:"addr" validate:"required,hostname_port"`
	CacheTTLSeconds      int    `json:"cache_ttl_seconds" validate:"gte=1"`
	CheckIntervalSeconds int    `json:"check_interval_seconds" validate:"gte=1"`
}

// NotifyConfig configures delivery of notifications raised by the daemon.
// Without a webhook URL, notifications are printed to stdout.
type NotifyConfig struct {
	WebhookURL   string   `json:"webhook_url" validate:"omitempty,url"`
	TokenURL     string   `json:"token_url" validate:"omitempty,url"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Attempts     uint     `json:"attempts"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `json:"level" validate:"oneof=debug info warn error"`
	// Development switches to the human-readable console encoder.
	Development bool `json:"development"`
}

const (
	// DefaultBackend stores one JSON file per day.
	DefaultBackend = "file"
	// DefaultAddr only accepts connections from the local machine.
	DefaultAddr = "127.0.0.1:8797"
	// DefaultCacheTTLSeconds bounds how stale the daemon's cached state can be.
	DefaultCacheTTLSeconds = 60
	// DefaultCheckIntervalSeconds is how often streak expiry is checked.
	DefaultCheckIntervalSeconds = 300
	// DefaultLogLevel is the minimum level logged.
	DefaultLogLevel = "info"
)

// CacheTTL returns the configured staleness window.
func (c ServerConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// CheckInterval returns the configured streak check interval.
func (c ServerConfig) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalSeconds) * time.Second
}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{Backend: DefaultBackend},
		Server: ServerConfig{
			Addr:                 DefaultAddr,
			CacheTTLSeconds:      DefaultCacheTTLSeconds,
			CheckIntervalSeconds: DefaultCheckIntervalSeconds,
		},
		Notify: NotifyConfig{Scopes: []string{}, Attempts: 3},
		Sounds: map[string]string{},
		Log:    LogConfig{Level: DefaultLogLevel},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// fst configuration – ~/.fst/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Per-user preferences such as quiet hours and the time zone offset
// are not kept here: change them with "fst settings set".
{
  // Directory for sessions, streaks and settings. Empty = ~/.fst/data
  "data_dir": "",

  // ── Storage ───────────────────────────────────────────────────────────────
  "storage": {
    // "file"   – one human-readable JSON file per day (default)
    // "sqlite" – a single fst.db database
    "backend": "file"
  },

  // ── Local daemon (fst serve) ──────────────────────────────────────────────
  "server": {
    // Address the browser extension posts activity to.
    "addr": "127.0.0.1:8797",
    // Cached state is reloaded from storage at least this often.
    "cache_ttl_seconds": 60,
    // How often streaks are checked for an upcoming expiry.
    "check_interval_seconds": 300
  },

  // ── Notifications ─────────────────────────────────────────────────────────
  "notify": {
    // POST notifications as JSON to this URL. Empty = print to the terminal.
    "webhook_url": "",
    // Optional OAuth2 client credentials for the webhook.
    "token_url": "",
    "client_id": "",
    "client_secret": "",
    "scopes": [],
    // Delivery attempts before giving up.
    "attempts": 3
  },

  // Sound id → asset reference, e.g. {"chime": "/usr/share/sounds/chime.ogg"}
  "sounds": {},

  "log": {
    // debug, info, warn or error
    "level": "info",
    "development": false
  }
}
`

// FilePath returns the path to ~/.fst/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".fst", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config at path, creating it with annotated defaults on first
// run. An empty path means ~/.fst/config.json.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := FilePath()
		if err != nil {
			return defaultConfig(), err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		cfg := defaultConfig()
		cfg.DataDir = filepath.Join(filepath.Dir(path), "data")
		return cfg, nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(filepath.Dir(path), "data")
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultBackend
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.CacheTTLSeconds == 0 {
		cfg.Server.CacheTTLSeconds = DefaultCacheTTLSeconds
	}
	if cfg.Server.CheckIntervalSeconds == 0 {
		cfg.Server.CheckIntervalSeconds = DefaultCheckIntervalSeconds
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	if err := validator.New().Struct(cfg); err != nil {
		return defaultConfig(), fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
