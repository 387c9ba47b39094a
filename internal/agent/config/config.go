package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the agent.
//
// Fields:
//   - ServerURL: base URL of the AricaInsights API.
//   - OnlineCheckInterval: how often the CLI probes server reachability.
//   - RequestTimeout: per-request HTTP timeout.
//   - CredentialsPath: SQLite file holding the sealed credential pair.
type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	CredentialsPath     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.CredentialsPath = defaultCredentialsPath()
}

// defaultCredentialsPath resolves to the user config dir, falling back to
// the working directory when the platform does not expose one.
func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "toucan-credentials.db"
	}
	return filepath.Join(dir, "toucan", "credentials.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
