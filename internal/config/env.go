package config

import (
	"github.com/spf13/viper"
)

// Environment variable names understood by ApplyEnv.
const (
	EnvSFTPHost      = "SFTP_HOST"
	EnvSFTPUsername  = "SFTP_USERNAME"
	EnvSFTPPassword  = "SFTP_PASSWORD"
	EnvSFTPDirectory = "SFTP_DIRECTORY"
	EnvInventoryURL  = "INVENTORY_URL"
	EnvBlobToken     = "BLOB_READ_WRITE_TOKEN"
	EnvFeedsBaseURL  = "FEEDS_BASE_URL"
	EnvLogLevel      = "LOG_LEVEL"
	EnvS3Bucket      = "S3_BUCKET"
	EnvS3AccessKey   = "S3_ACCESS_KEY"
	EnvS3SecretKey   = "S3_SECRET_KEY"
)

// ApplyEnv overrides secrets and deployment specific settings with values
// from the environment. Unset variables leave the file values untouched.
func ApplyEnv(cfg *Config) {
	v := viper.New()
	v.AutomaticEnv()

	overrides := []struct {
		env    string
		target *string
	}{
		{EnvSFTPHost, &cfg.Source.SFTP.Host},
		{EnvSFTPUsername, &cfg.Source.SFTP.Username},
		{EnvSFTPPassword, &cfg.Source.SFTP.Password},
		{EnvSFTPDirectory, &cfg.Source.SFTP.Directory},
		{EnvInventoryURL, &cfg.Source.URL},
		{EnvBlobToken, &cfg.Publish.Blob.Token},
		{EnvFeedsBaseURL, &cfg.Publish.PublicBaseURL},
		{EnvLogLevel, &cfg.Logging.Level},
		{EnvS3Bucket, &cfg.Publish.S3.Bucket},
		{EnvS3AccessKey, &cfg.Publish.S3.AccessKey},
		{EnvS3SecretKey, &cfg.Publish.S3.SecretKey},
	}

	for _, o := range overrides {
		if val := v.GetString(o.env); val != "" {
			*o.target = val
		}
	}
}
