package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Environment
// values win over flags so container deployments can override everything
// without changing the command line.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SESSION_STORE"); ok {
		config.SessionStore = v
	}
	if v, ok := os.LookupEnv("SESSION_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTTL = d
		}
	}
	if v, ok := os.LookupEnv("PAGE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.PageSize = n
		}
	}
	if v, ok := os.LookupEnv("STORAGE_DRIVER"); ok {
		config.StorageDriver = v
	}
	if v, ok := os.LookupEnv("FOLDER_PATH"); ok {
		config.FolderPath = v
	}
	if v, ok := os.LookupEnv("INLINE_MAX_BYTES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.InlineMaxBytes = n
		}
	}
	if v, ok := os.LookupEnv("S3_ROOT_USER"); ok {
		config.S3RootUser = v
	}
	if v, ok := os.LookupEnv("S3_ROOT_PASSWORD"); ok {
		config.S3RootPassword = v
	}
	if v, ok := os.LookupEnv("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := os.LookupEnv("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := os.LookupEnv("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}
