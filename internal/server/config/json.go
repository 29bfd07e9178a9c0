package config

import (
	"encoding/json"
	"os"

	"filesmanager/internal/flagx"
	"filesmanager/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "24h" and integer nanoseconds. After
// unmarshalling, non-zero fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr   string         `json:"endpoint_addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	SessionStore   string         `json:"session_store"`
	SessionTTL     timex.Duration `json:"session_ttl"`
	PageSize       int            `json:"page_size"`
	StorageDriver  string         `json:"storage_driver"`
	FolderPath     string         `json:"folder_path"`
	InlineMaxBytes int            `json:"inline_max_bytes"`
	S3RootUser     string         `json:"s3_root_user"`
	S3RootPassword string         `json:"s3_root_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. Fields absent from the
// file keep their current (default) values. An unreadable or invalid file
// panics: a misconfigured process should not start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SessionStore != "" {
		config.SessionStore = c.SessionStore
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.PageSize != 0 {
		config.PageSize = c.PageSize
	}
	if c.StorageDriver != "" {
		config.StorageDriver = c.StorageDriver
	}
	if c.FolderPath != "" {
		config.FolderPath = c.FolderPath
	}
	if c.InlineMaxBytes != 0 {
		config.InlineMaxBytes = c.InlineMaxBytes
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
