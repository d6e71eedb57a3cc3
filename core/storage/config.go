package storage

// Config holds configuration for the object store holding snapshot archives.
type Config struct {
	// Endpoint is host:port of the S3 compatible service; a scheme is stripped.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL switches to https.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the archived snapshots.
	Bucket string `mapstructure:"bucket" default:"board"`
	// Region is passed to MakeBucket and request signing.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
