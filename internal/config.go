package internal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	// SessionSecret signs session tokens. The legacy unsigned codec ignores
	// it; the signed codec refuses to start without one.
	SessionSecret  string        `mapstructure:"session_secret"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	LegacySessions bool          `mapstructure:"legacy_sessions"`
	BCryptCost     int           `mapstructure:"bcrypt_cost"`

	SessionCookieName string        `mapstructure:"session_cookie_name"`
	CSRFCookieName    string        `mapstructure:"csrf_cookie_name"`
	CSRFHeaderName    string        `mapstructure:"csrf_header_name"`
	CSRFTokenTTL      time.Duration `mapstructure:"csrf_token_ttl"`
	SecureCookies     bool          `mapstructure:"secure_cookies"`

	ResolveTimeout time.Duration `mapstructure:"resolve_timeout"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a Config entirely from environment variables.
// Used in containerized deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:        getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			AllowedOrigins: getEnv("SERVER_ALLOWED_ORIGINS", "*"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DATABASE_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Security: SecurityConfig{
			SessionSecret:     getEnv("SESSION_SECRET", ""),
			SessionTTL:        getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
			LegacySessions:    getEnvAsBool("LEGACY_SESSIONS", false),
			BCryptCost:        getEnvAsInt("BCRYPT_COST", 10),
			SessionCookieName: getEnv("SESSION_COOKIE_NAME", "session"),
			CSRFCookieName:    getEnv("CSRF_COOKIE_NAME", "csrf_token"),
			CSRFHeaderName:    getEnv("CSRF_HEADER_NAME", "X-CSRF-Token"),
			CSRFTokenTTL:      getEnvAsDuration("CSRF_TOKEN_TTL", time.Hour),
			SecureCookies:     getEnvAsBool("SECURE_COOKIES", true),
			ResolveTimeout:    getEnvAsDuration("RESOLVE_TIMEOUT", 5*time.Second),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("METRICS_ENABLED", true),
				Path:    getEnv("METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	if d.Source == "" {
		return errors.New("database source is required")
	}
	return nil
}

func (s *SecurityConfig) Validate() error {
	if !s.LegacySessions && len(s.SessionSecret) < 32 {
		return errors.New("session_secret must be at least 32 bytes unless legacy_sessions is enabled")
	}
	if s.BCryptCost < 4 || s.BCryptCost > 31 {
		return fmt.Errorf("invalid bcrypt cost: %d", s.BCryptCost)
	}
	if s.SessionCookieName == "" || s.CSRFCookieName == "" || s.CSRFHeaderName == "" {
		return errors.New("cookie and header names are required")
	}
	return nil
}

// ApplyDefaults fills the zero values viper leaves behind for optional keys.
func (c *Config) ApplyDefaults() {
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Security.SessionTTL == 0 {
		c.Security.SessionTTL = 7 * 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Security.SessionCookieName == "" {
		c.Security.SessionCookieName = "session"
	}
	if c.Security.CSRFCookieName == "" {
		c.Security.CSRFCookieName = "csrf_token"
	}
	if c.Security.CSRFHeaderName == "" {
		c.Security.CSRFHeaderName = "X-CSRF-Token"
	}
	if c.Security.CSRFTokenTTL == 0 {
		c.Security.CSRFTokenTTL = time.Hour
	}
	if c.Security.ResolveTimeout == 0 {
		c.Security.ResolveTimeout = 5 * time.Second
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
}
