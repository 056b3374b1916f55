// Package config provides configuration management for the Gallery Manager.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file, with defaults declared as struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, admin API key)
//   - Database: catalog database connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: logging level and format
//   - Gallery: feature flag, bucket prefix, public base URL, webhook secret,
//     background scan interval
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
