package config

import (
	"os"
	"time"
)

// parseEnv overlays Config with values from VAULTSYNC_* environment
// variables. Secrets usually arrive this way rather than via flags, which
// leak into process listings.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("VAULTSYNC_DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("VAULTSYNC_CACHE_PATH"); ok {
		cfg.CachePath = v
	}
	if v, ok := os.LookupEnv("VAULTSYNC_SECRET_KEY"); ok {
		cfg.SecretKey = v
	}
	if v, ok := os.LookupEnv("VAULTSYNC_DEBOUNCE_WINDOW"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DebounceWindow = d
		}
	}
	if v, ok := os.LookupEnv("VAULTSYNC_S3_BUCKET"); ok {
		cfg.S3Bucket = v
	}
	if v, ok := os.LookupEnv("VAULTSYNC_S3_REGION"); ok {
		cfg.S3Region = v
	}
	if v, ok := os.LookupEnv("VAULTSYNC_S3_BASE_ENDPOINT"); ok {
		cfg.S3BaseEndpoint = v
	}
	if v, ok := os.LookupEnv("VAULTSYNC_S3_ACCESS_KEY"); ok {
		cfg.S3AccessKey = v
	}
	if v, ok := os.LookupEnv("VAULTSYNC_S3_SECRET_KEY"); ok {
		cfg.S3SecretKey = v
	}
}
