package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Verify  VerifyConfig  `mapstructure:"verify"`
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Jobs    JobsConfig    `mapstructure:"jobs"`
	Reports ReportsConfig `mapstructure:"reports"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// VerifyConfig holds the validation pipeline configuration.
type VerifyConfig struct {
	Workers         int           `mapstructure:"workers"`
	Sender          string        `mapstructure:"sender"`
	HelloDomain     string        `mapstructure:"hello_domain"`
	SMTPPort        int           `mapstructure:"smtp_port"`
	SMTPTimeout     time.Duration `mapstructure:"smtp_timeout"`
	DNSMaxAttempts  int           `mapstructure:"dns_max_attempts"`
	DNSRetryDelay   time.Duration `mapstructure:"dns_retry_delay"`
	DNSQueryTimeout time.Duration `mapstructure:"dns_query_timeout"`
}

// APIConfig holds REST API server configuration.
type APIConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AuthConfig holds API authentication configuration. KeyHashes are
// bcrypt hashes of the accepted API keys; an empty list disables
// authentication, which is only sensible in development.
type AuthConfig struct {
	KeyHashes []string `mapstructure:"key_hashes"`
}

// JobsConfig holds validation job registry configuration.
type JobsConfig struct {
	Backend   string        `mapstructure:"backend"` // memory (default), redis
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// ReportsConfig holds CSV report storage configuration.
type ReportsConfig struct {
	Type       string `mapstructure:"type"` // local (default), s3
	Path       string `mapstructure:"path"`
	S3Bucket   string `mapstructure:"s3_bucket"`
	S3Prefix   string `mapstructure:"s3_prefix"`
	S3Endpoint string `mapstructure:"s3_endpoint"`
	S3Region   string `mapstructure:"s3_region"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"` // stdout (default), file
	FilePath  string `mapstructure:"file_path"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
}

// Load reads configuration from the given config directory path. It
// looks for a file named "config.yaml" in that directory; a missing
// file is not an error, defaults and environment apply instead.
// Environment variables with prefix MAILVET_ override file values.
// For example, MAILVET_VERIFY_WORKERS overrides verify.workers.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetEnvPrefix("MAILVET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verify.workers", 20)
	v.SetDefault("verify.sender", "test@example.com")
	v.SetDefault("verify.hello_domain", "mailvet.local")
	v.SetDefault("verify.smtp_port", 25)
	v.SetDefault("verify.smtp_timeout", 10*time.Second)
	v.SetDefault("verify.dns_max_attempts", 3)
	v.SetDefault("verify.dns_retry_delay", 1*time.Second)
	v.SetDefault("verify.dns_query_timeout", 5*time.Second)

	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.read_timeout", 10*time.Second)
	v.SetDefault("api.write_timeout", 30*time.Second)

	v.SetDefault("jobs.backend", "memory")
	v.SetDefault("jobs.redis_addr", "localhost:6379")
	v.SetDefault("jobs.redis_db", 0)
	v.SetDefault("jobs.ttl", 24*time.Hour)

	v.SetDefault("reports.type", "local")
	v.SetDefault("reports.path", "/data/reports")
	v.SetDefault("reports.s3_region", "us-east-1")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_files", 5)
}
