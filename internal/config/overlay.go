package config

import (
	"os"
	"strconv"
)

// OverlayEnv lets deployment environments override file config
// without editing it. Unset variables leave the file value alone.
func OverlayEnv(cfg *Config) {
	if v := os.Getenv("GRADPULSE_BASE_URL"); v != "" {
		cfg.Scrape.BaseURL = v
	}
	if v := os.Getenv("GRADPULSE_LLM_URL"); v != "" {
		cfg.LLM.URL = v
	}
	if v := os.Getenv("GRADPULSE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := os.Getenv("GRADPULSE_PAGES"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Scrape.Pages = p
		}
	}
}
