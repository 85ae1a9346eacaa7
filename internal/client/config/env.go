package config

import "os"

// parseEnv reads the API key from GEMINI_API_KEY, or API_KEY when the first
// is unset or empty.
func parseEnv(cfg *Config) {
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if v := os.Getenv(name); v != "" {
			cfg.APIKey = v
			return
		}
	}
}
