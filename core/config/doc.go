// Package config provides configuration management for board-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (loaded with godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, realtime (websocket) port and allowed browser origin
//   - Database: entity store driver (mysql, sqlite) and connection details
//   - Log: Logging level and format
//   - Storage: S3/MinIO credentials and bucket used for snapshot archives
//   - Archive: background snapshot archiver settings
//
// Every key can be overridden from the environment, e.g. SERVER_PORT or DATABASE_DRIVER.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
