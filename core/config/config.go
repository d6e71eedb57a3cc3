package config

import (
	"reflect"
	"strings"

	"board-sync/core/database"
	"board-sync/core/logger"
	"board-sync/core/server"
	"board-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP and realtime listeners.
	Server server.Config `mapstructure:"server"`
	// Database holds configuration for the entity store connection.
	Database database.Config `mapstructure:"database"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for the object storage used by snapshot archives.
	Storage storage.Config `mapstructure:"storage"`
	// Archive holds configuration for the background snapshot archiver.
	Archive ArchiveConfig `mapstructure:"archive"`
}

// ArchiveConfig controls periodic snapshot archiving.
type ArchiveConfig struct {
	// Enabled turns the background archiver on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object key prefix archived snapshots are written under.
	Prefix string `mapstructure:"prefix" default:"snapshots"`
	// IntervalSeconds is how often the latest snapshot is flushed.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"30"`
	// Keep is how many timestamped copies survive pruning; 0 keeps all.
	Keep int `mapstructure:"keep" default:"20"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
