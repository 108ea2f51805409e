package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend drivers accepted by backend.driver.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Backend     BackendConfig     `mapstructure:"backend"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Postgres    PostgresConfig    `mapstructure:"postgres"`
	S3          S3Config          `mapstructure:"s3"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	ExerciseDB  ExerciseDBConfig  `mapstructure:"exercisedb"`
	SecureStore SecureStoreConfig `mapstructure:"securestore"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Calendar    CalendarConfig    `mapstructure:"calendar"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// ReleaseMode switches gin to release mode.
	ReleaseMode bool `mapstructure:"release_mode"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Stdout bool   `mapstructure:"stdout"`
	JSON   bool   `mapstructure:"json"`
}

// BackendConfig selects the remote store adapter once at startup.
type BackendConfig struct {
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig is the document store (MongoDB) connection.
type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// PostgresConfig is the relational store connection.
type PostgresConfig struct {
	DSN           string `mapstructure:"dsn"`
	RunMigrations bool   `mapstructure:"run_migrations"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	// PublicBaseURL prefixes object keys to form the stored image URL.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// Enabled reports whether enough is configured to talk to object storage.
func (c S3Config) Enabled() bool {
	return c.BucketName != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// ExerciseDBConfig configures the third-party exercise catalog API.
type ExerciseDBConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Host    string `mapstructure:"host"`
	APIKey  string `mapstructure:"api_key"`
}

// SecureStoreConfig configures the encrypted local key/value file.
type SecureStoreConfig struct {
	Path       string `mapstructure:"path"`
	Passphrase string `mapstructure:"passphrase"`
	Salt       string `mapstructure:"salt"`
}

// CatalogConfig sizes the per-user cache of last search results.
type CatalogConfig struct {
	CacheSizeMB int           `mapstructure:"cache_size_mb"`
	ResultTTL   time.Duration `mapstructure:"result_ttl"`
}

// CalendarConfig sets the timezone used for calendar-day and week boundaries.
type CalendarConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// Location resolves the configured timezone, falling back to UTC.
func (c CalendarConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// Running purely on defaults and env vars is fine.
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	config.Backend.Driver = strings.ToLower(strings.TrimSpace(config.Backend.Driver))
	switch config.Backend.Driver {
	case DriverMongo, DriverPostgres, DriverNone:
	default:
		return config, errors.New("backend.driver must be one of mongo, postgres, none")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.release_mode", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.stdout", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("backend.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "liftlog")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.run_migrations", true)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.bucket_name", "exercise-images")
	v.SetDefault("s3.public_base_url", "")
	// Every key needs a default so AutomaticEnv can override it during Unmarshal.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("exercisedb.base_url", "https://exercisedb-api1.p.rapidapi.com/api/v1")
	v.SetDefault("exercisedb.host", "exercisedb-api1.p.rapidapi.com")
	v.SetDefault("exercisedb.api_key", "")
	v.SetDefault("securestore.path", "liftlog-secure.db")
	v.SetDefault("securestore.passphrase", "")
	v.SetDefault("securestore.salt", "liftlog-securestore")
	v.SetDefault("catalog.cache_size_mb", 16)
	v.SetDefault("catalog.result_ttl", "30m")
	v.SetDefault("calendar.timezone", "UTC")
}
