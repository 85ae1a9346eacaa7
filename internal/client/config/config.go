package config

import (
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/snapshop/internal/client/gemini"
	"github.com/dmitrijs2005/snapshop/internal/filex"
)

const (
	defaultDataDir      = "data"
	defaultDatabaseFile = "snapshop.db"
)

// Config holds runtime settings for the snapshop CLI.
//
// Fields:
//   - DatabasePath: SQLite file with accounts and history; empty means
//     data/snapshop.db under the working directory.
//   - APIKey, Model: Gemini credentials and model name.
//   - RequestTimeout: upper bound for one AI request.
//   - CameraURL, CameraFrameInterval: snapshot camera and live feed rate.
//   - LogBackend, LogLevel: see logging.New.
type Config struct {
	DatabasePath        string
	APIKey              string
	Model               string
	RequestTimeout      time.Duration
	CameraURL           string
	CameraFrameInterval time.Duration
	LogBackend          string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Model = gemini.DefaultModel
	c.RequestTimeout = 60 * time.Second
	c.CameraFrameInterval = 500 * time.Millisecond
	c.LogBackend = "slog"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given), the environment, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// ResolveDatabasePath returns DatabasePath, or the default location inside a
// data directory it creates on demand.
func (c *Config) ResolveDatabasePath() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	dir, err := filex.EnsureSubdDir(defaultDataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultDatabaseFile), nil
}
