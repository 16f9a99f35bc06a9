// Package config provides configuration management for the Library Manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section and every key can be overridden by an environment variable named
// SECTION_KEY (e.g. DATABASE_DRIVER, MIGRATION_DEFAULT_FACETS).
//
// # Configuration Structure
//
//   - Server: HTTP server settings (port, API key)
//   - Database: library database (mysql or sqlite)
//   - Storage: S3/MinIO credentials and the bucket holding custom covers
//   - Log: Logging level and format
//   - Migration: default facets and the optional local filesystem source
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
