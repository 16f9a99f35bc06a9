package config

import (
	"reflect"
	"strings"

	"library-manager/core/database"
	"library-manager/core/logger"
	"library-manager/core/server"
	"library-manager/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage holding custom covers.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the library database.
	Database database.Config `mapstructure:"database"`
	// Migration holds defaults for cross-source migration.
	Migration MigrationConfig `mapstructure:"migration"`
}

// MigrationConfig holds defaults for cross-source migration.
type MigrationConfig struct {
	// DefaultFacets is used when neither the request nor the stored preference selects facets.
	DefaultFacets string `mapstructure:"default_facets" default:"all"`
	// LocalSourceID is the source ID the filesystem source registers under.
	LocalSourceID int64 `mapstructure:"local_source_id" default:"0"`
	// LocalSourceRoot is the directory the local source reads entries from. Empty disables it.
	LocalSourceRoot string `mapstructure:"local_source_root" default:""`
	// HTTPTimeoutSeconds bounds episode list requests to HTTP sources.
	HTTPTimeoutSeconds int `mapstructure:"http_timeout_seconds" default:"30"`
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

	// Map environment variables to nested keys (e.g. MIGRATION_DEFAULT_FACETS -> migration.default_facets)
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
