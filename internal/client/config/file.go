package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/snapshop/internal/flagx"
	"github.com/dmitrijs2005/snapshop/internal/timex"
)

// FileConfig is a DTO used exclusively for config file unmarshalling.
// Pointer fields tell "absent" apart from "empty" so a partial file only
// overrides what it names.
type FileConfig struct {
	DatabasePath        *string         `json:"database_path" yaml:"database_path"`
	APIKey              *string         `json:"api_key" yaml:"api_key"`
	Model               *string         `json:"model" yaml:"model"`
	RequestTimeout      *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	CameraURL           *string         `json:"camera_url" yaml:"camera_url"`
	CameraFrameInterval *timex.Duration `json:"camera_frame_interval" yaml:"camera_frame_interval"`
	LogBackend          *string         `json:"log_backend" yaml:"log_backend"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Without the flag it does nothing.
//
// Panics on read or unmarshal errors (caller should recover if desired).
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.APIKey, fc.APIKey)
	setString(&cfg.Model, fc.Model)
	setString(&cfg.CameraURL, fc.CameraURL)
	setString(&cfg.LogBackend, fc.LogBackend)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.CameraFrameInterval != nil {
		cfg.CameraFrameInterval = fc.CameraFrameInterval.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
