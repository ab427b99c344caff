package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5w1tchy/locallibrary/internal/config"
	"github.com/5w1tchy/locallibrary/internal/security/password"
)

// Config validates settings the server cannot run without. Fail-fast on bad
// config.
func Config(cfg *config.Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Database.URL) == "" {
		errs = append(errs, errors.New("database.url (DATABASE_URL) is required"))
	}
	// session secret must be present & reasonably long
	if len(cfg.Auth.SessionSecret) < 32 {
		errs = append(errs, errors.New("auth.session_secret (AUTH_SESSION_SECRET) must be at least 32 characters"))
	}
	if cfg.Auth.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.session_ttl must be > 0, got %s", cfg.Auth.SessionTTL))
	}
	if cfg.Catalog.PageSize < 1 {
		errs = append(errs, fmt.Errorf("catalog.page_size must be >= 1, got %d", cfg.Catalog.PageSize))
	}
	if cfg.Maintenance.ViewRetention < 0 {
		errs = append(errs, errors.New("maintenance.view_retention must not be negative"))
	}
	if _, err := time.Parse("15:04", cfg.Maintenance.RunAt); err != nil {
		errs = append(errs, fmt.Errorf("maintenance.run_at %q is not HH:MM", cfg.Maintenance.RunAt))
	}
	if (cfg.Server.CertFile == "") != (cfg.Server.KeyFile == "") {
		errs = append(errs, errors.New("server.cert_file and server.key_file must be set together"))
	}

	// argon2 lower bounds
	if cfg.Auth.PasswordMemory < password.MinMemory {
		errs = append(errs, fmt.Errorf("auth.password_memory must be >= %d KiB", password.MinMemory))
	}
	if cfg.Auth.PasswordIterations < 2 {
		errs = append(errs, errors.New("auth.password_iterations must be >= 2"))
	}
	if cfg.Auth.PasswordParallelism < 1 {
		errs = append(errs, errors.New("auth.password_parallelism must be >= 1"))
	}
	return errors.Join(errs...)
}

// HardeningWarnings returns non-fatal warnings worth logging on startup.
func HardeningWarnings(cfg *config.Config, appEnv string) []string {
	var warns []string

	if cfg.Auth.SessionTTL > 30*24*time.Hour {
		warns = append(warns, fmt.Sprintf("auth.session_ttl=%s is > 30 days; consider shorter sessions", cfg.Auth.SessionTTL))
	}
	if cfg.Redis.URL == "" && cfg.Redis.Addr == "" {
		warns = append(warns, "no Redis configured; sessions are in memory and rate limiting is off")
	}

	// Production-specific nudges
	if strings.EqualFold(appEnv, "production") {
		if !cfg.Server.Secure {
			warns = append(warns, "server.secure is off; session and CSRF cookies are sent over plain HTTP")
		}
		if strings.HasPrefix(cfg.Redis.URL, "redis://") {
			warns = append(warns, "redis.url uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if cfg.Redis.Addr != "" && (cfg.Redis.User == "" || cfg.Redis.Password == "") {
			warns = append(warns, "redis.addr provided without redis.user/redis.password; require auth in production")
		}
	}
	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(ctx context.Context, rdb *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return rdb.Ping(ctx).Err()
}
