package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/snapshop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database path
//	-m string   model name
//	-k string   API key
//	-t int      request timeout in seconds
//	-cam string camera snapshot URL
//	-l string   log level
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so -c/-config never reach this flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-m", "-k", "-t", "-cam", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.StringVar(&cfg.Model, "m", cfg.Model, "Gemini model name")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "Gemini API key")
	fs.StringVar(&cfg.CameraURL, "cam", cfg.CameraURL, "snapshot camera URL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "AI request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only an explicit -t replaces the timeout; the int default would truncate
	// sub-second values from a config file.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
