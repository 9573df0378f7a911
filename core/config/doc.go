// Package config provides configuration management for the application.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Log: Logging level and format
//   - Workshop: dependency resolution (base URL, depth, concurrency)
//   - Store: profile store data directory
//   - Runner: server executable, profile directories, timeouts
//   - Storage: optional S3/MinIO config mirror
//   - Database: optional run journal (SQLite or MySQL)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
