package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds application level configuration loaded from an optional TOML
// file and environment variables. Environment variables win.
type Config struct {
	ServerPort      string        `toml:"server_port"`
	DBDriver        string        `toml:"db_driver"`
	DBDSN           string        `toml:"db_dsn"`
	ResetDB         bool          `toml:"reset_db"`
	RedisAddr       string        `toml:"redis_addr"`
	RedisDB         int           `toml:"redis_db"`
	RedisPass       string        `toml:"redis_password"`
	JWTSecret       string        `toml:"jwt_secret"`
	AccessTokenTTL  time.Duration `toml:"-"`
	RefreshTokenTTL time.Duration `toml:"-"`
	CORSOrigins     []string      `toml:"cors_origins"`
	SwaggerHost     string        `toml:"swagger_host"`
	LogLevel        string        `toml:"log_level"`
	LogFormat       string        `toml:"log_format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		ServerPort:      "8080",
		DBDriver:        "mysql",
		DBDSN:           "user:password@tcp(localhost:3306)/tracker?charset=utf8mb4&parseTime=True&loc=Local",
		RedisAddr:       "localhost:6379",
		JWTSecret:       "change-me",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load builds Config from the file named by CONFIG_FILE (if any) and the
// environment, with sensible defaults.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", cfg.DBDriver))
	cfg.DBDSN = getEnv("DB_DSN", getEnv("MYSQL_DSN", cfg.DBDSN))
	cfg.ResetDB = getEnvBool("RESET_DB", cfg.ResetDB)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisPass = getEnv("REDIS_PASSWORD", cfg.RedisPass)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AccessTokenTTL = getEnvDuration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)
	cfg.RefreshTokenTTL = getEnvDuration("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL)
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.SwaggerHost = getEnv("SWAGGER_HOST", cfg.SwaggerHost)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN must not be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	return nil
}

// fileConfig mirrors Config with durations as strings, since TOML has no
// native duration type.
type fileConfig struct {
	Config
	AccessTokenTTL  string `toml:"access_token_ttl"`
	RefreshTokenTTL string `toml:"refresh_token_ttl"`
}

func (c *Config) decodeFile(path string) error {
	fc := fileConfig{Config: *c}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	*c = fc.Config

	if fc.AccessTokenTTL != "" {
		d, err := time.ParseDuration(fc.AccessTokenTTL)
		if err != nil {
			return fmt.Errorf("access_token_ttl: %w", err)
		}
		c.AccessTokenTTL = d
	}
	if fc.RefreshTokenTTL != "" {
		d, err := time.ParseDuration(fc.RefreshTokenTTL)
		if err != nil {
			return fmt.Errorf("refresh_token_ttl: %w", err)
		}
		c.RefreshTokenTTL = d
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
