package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/datex"
)

// Config holds runtime settings for the agenda CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - DataDir: where the persistent store and local databases live.
//   - Timezone: IANA zone that defines "today".
//   - RequestTimeout: per-call deadline for backend requests.
//   - Offline: run against a local document store instead of the backend.
//   - Verbose: log at debug level.
type Config struct {
	ServerEndpointAddr string
	DataDir            string
	Timezone           string
	RequestTimeout     time.Duration
	Offline            bool
	Verbose            bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DataDir = defaultDataDir()
	c.Timezone = datex.DefaultZone
	c.RequestTimeout = 10 * time.Second
	c.Offline = false
	c.Verbose = false
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "labagenda")
	}
	return ".labagenda"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags. Later sources take precedence
// over earlier ones. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
