package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings. Precedence: env > YAML file > defaults.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		CertFile        string        `yaml:"cert_file"`
		KeyFile         string        `yaml:"key_file"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		MaxBodyBytes    int64         `yaml:"max_body_bytes"`
		Secure          bool          `yaml:"secure"`
	} `yaml:"server"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		URL      string `yaml:"url"`
		Addr     string `yaml:"addr"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
	} `yaml:"redis"`

	Auth struct {
		SessionSecret string        `yaml:"session_secret"`
		SessionTTL    time.Duration `yaml:"session_ttl"`
		ClockSkew     time.Duration `yaml:"clock_skew"`
		LoginAttempts int           `yaml:"login_attempts"`
		LoginWindow   time.Duration `yaml:"login_window"`

		// argon2id cost
		PasswordMemory      uint32 `yaml:"password_memory"` // KiB
		PasswordIterations  uint32 `yaml:"password_iterations"`
		PasswordParallelism uint8  `yaml:"password_parallelism"`
	} `yaml:"auth"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Storage struct {
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
		PathStyle       bool   `yaml:"path_style"`
		StaticBaseURL   string `yaml:"static_base_url"`
	} `yaml:"storage"`

	Catalog struct {
		PageSize        int    `yaml:"page_size"`
		DefaultLanguage string `yaml:"default_language"`
	} `yaml:"catalog"`

	Maintenance struct {
		ViewRetention time.Duration `yaml:"view_retention"`
		RunAt         string        `yaml:"run_at"`
		Timezone      string        `yaml:"timezone"`
	} `yaml:"maintenance"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":3000"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Server.MaxBodyBytes = 10 << 20
	cfg.Auth.SessionTTL = 14 * 24 * time.Hour
	cfg.Auth.ClockSkew = 60 * time.Second
	cfg.Auth.LoginAttempts = 10
	cfg.Auth.LoginWindow = 5 * time.Minute
	cfg.Auth.PasswordMemory = 64 * 1024
	cfg.Auth.PasswordIterations = 3
	cfg.Auth.PasswordParallelism = 1
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Catalog.PageSize = 5
	cfg.Catalog.DefaultLanguage = "en"
	cfg.Maintenance.ViewRetention = 90 * 24 * time.Hour
	cfg.Maintenance.RunAt = "03:00"
	cfg.Maintenance.Timezone = "UTC"
	return cfg
}

// Load reads .env (if present), then the YAML file at path (optional), then
// applies environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "ADDR")
	setString(&cfg.Server.CertFile, "TLS_CERT_FILE")
	setString(&cfg.Server.KeyFile, "TLS_KEY_FILE")
	setDuration(&cfg.Server.ShutdownTimeout, "SHUTDOWN_TIMEOUT")
	setInt64(&cfg.Server.MaxBodyBytes, "MAX_BODY_SIZE")
	setBool(&cfg.Server.Secure, "SECURE_COOKIES")

	setString(&cfg.Database.URL, "DATABASE_URL")

	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.User, "REDIS_USER")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.Auth.SessionSecret, "AUTH_SESSION_SECRET")
	setDuration(&cfg.Auth.SessionTTL, "AUTH_SESSION_TTL")
	setDuration(&cfg.Auth.ClockSkew, "AUTH_CLOCK_SKEW")
	setInt(&cfg.Auth.LoginAttempts, "LOGIN_MAX_ATTEMPTS")
	setDuration(&cfg.Auth.LoginWindow, "LOGIN_WINDOW")
	setUint32(&cfg.Auth.PasswordMemory, "ARGON2_MEMORY")
	setUint32(&cfg.Auth.PasswordIterations, "ARGON2_ITER")
	setUint8(&cfg.Auth.PasswordParallelism, "ARGON2_PAR")

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")

	setString(&cfg.Storage.Endpoint, "AWS_ENDPOINT")
	setString(&cfg.Storage.Region, "AWS_REGION")
	setString(&cfg.Storage.Bucket, "AWS_BUCKET")
	setString(&cfg.Storage.AccessKeyID, "AWS_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	setBool(&cfg.Storage.PathStyle, "AWS_PATH_STYLE")
	setString(&cfg.Storage.StaticBaseURL, "STATIC_BASE_URL")

	setInt(&cfg.Catalog.PageSize, "CATALOG_PAGE_SIZE")
	setString(&cfg.Catalog.DefaultLanguage, "CATALOG_LANGUAGE")

	setDuration(&cfg.Maintenance.ViewRetention, "VIEW_RETENTION")
	setString(&cfg.Maintenance.RunAt, "MAINTENANCE_AT")
	setString(&cfg.Maintenance.Timezone, "MAINTENANCE_TZ")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setUint32(dst *uint32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			*dst = uint32(n)
		}
	}
}

func setUint8(dst *uint8, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			*dst = uint8(n)
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
