package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

type RateLimitBackend string

const (
	RateLimitMemory RateLimitBackend = "memory"
	RateLimitRedis  RateLimitBackend = "redis"
)

type (
	Config struct {
		App
		HTTP
		Global
		Database
		Auth
		Redis
		Log
		Site
		Tasks
		Audit
	}

	App struct {
		Env Environment
	}
	HTTP struct {
		Port           int32
		Host           string
		AllowedOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		URL             string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}
	Auth struct {
		JWTSecret     string
		JWTExpiration time.Duration

		// Login rate limiting
		MaxLoginAttempts int              // Failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration    // Window for counting attempts (default: 15m)
		LockoutDuration  time.Duration    // How long a locked pair stays locked (default: 30m)
		RateLimitBackend RateLimitBackend // "memory" or "redis"
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level    string
		Encoding string // "json" or "console"
	}
	Site struct {
		BaseURL     string
		OutputDir   string // Static output directory; empty disables the builder
		SyncEnabled bool
		Schedule    string // Cron format: "0 * * * *" = hourly
	}
	Tasks struct {
		Enabled           bool
		DBPath            string
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Audit struct {
		RetentionDays int
	}
)

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// splitList parses a comma-separated env value, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", string(EnvDevelopment))
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("cors_allowed_origins", DefaultAllowedOrigins)

	// Database defaults
	v.SetDefault("database_url", DefaultDatabaseURL)
	v.SetDefault("db_max_open_conns", 5)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "30m")

	// Auth defaults
	v.SetDefault("jwt_secret", "")         // Random per process outside production
	v.SetDefault("jwt_expiration", 604800) // Seconds (7 days)
	v.SetDefault("auth_max_login_attempts", 5)
	v.SetDefault("auth_rate_limit_window", "15m")
	v.SetDefault("auth_lockout_duration", "30m")
	v.SetDefault("rate_limit_backend", string(RateLimitMemory))

	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")

	// Site generation defaults
	v.SetDefault("site_base_url", DefaultSiteBaseURL)
	v.SetDefault("static_output_dir", "")
	v.SetDefault("site_sync_enabled", false)
	v.SetDefault("site_schedule", "0 * * * *") // Hourly at :00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_db_path", DefaultTasksDBPath)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("audit_retention_days", 90)

	return &Config{
		App: App{
			Env: Environment(strings.ToLower(v.GetString("APP_ENV"))),
		},
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: Auth{
			JWTSecret:        v.GetString("JWT_SECRET"),
			JWTExpiration:    time.Duration(v.GetInt64("JWT_EXPIRATION")) * time.Second,
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
			RateLimitBackend: RateLimitBackend(v.GetString("RATE_LIMIT_BACKEND")),
		},
		Redis: Redis{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: Log{
			Level:    v.GetString("LOG_LEVEL"),
			Encoding: v.GetString("LOG_ENCODING"),
		},
		Site: Site{
			BaseURL:     strings.TrimRight(v.GetString("SITE_BASE_URL"), "/"),
			OutputDir:   v.GetString("STATIC_OUTPUT_DIR"),
			SyncEnabled: v.GetBool("SITE_SYNC_ENABLED"),
			Schedule:    v.GetString("SITE_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			DBPath:            v.GetString("TASKS_DB_PATH"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}
}
