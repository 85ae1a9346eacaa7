// Package config loads runtime configuration for the snapshop CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file (see parseFile) selected via flags: -c or -config.
//     Files ending in .yaml or .yml are read as YAML, anything else as JSON.
//  3. Environment: GEMINI_API_KEY, falling back to API_KEY.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the SQLite database
//	-m string   Gemini model name
//	-k string   Gemini API key
//	-t int      AI request timeout (seconds)
//	-cam string snapshot camera URL
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "database_path": "data/snapshop.db",
//	  "api_key": "...",
//	  "model": "gemini-2.5-flash",
//	  "request_timeout": "60s",
//	  "camera_url": "http://127.0.0.1:8080/snapshot.jpg",
//	  "camera_frame_interval": "500ms",
//	  "log_backend": "zap",
//	  "log_level": "debug"
//	}
//
// Keys missing from the file keep their previous values.
package config
