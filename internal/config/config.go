package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	SessionSecret  []byte
	SessionTTL     time.Duration
	SessionBackend string
	RedisURL       string
	CookieSecure   bool

	KafkaBrokers []string

	AuthRateLimit int
	AuthRateBurst int
	// TrustedProxies are CIDRs whose X-Forwarded-For header is believed.
	TrustedProxies []string
}

// LoadEnvFile reads key=value pairs from path into the process environment.
// A missing file is not an error: deployments usually inject env directly.
func LoadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded: %v, using process environment", path, err)
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(EnvDefault("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SessionSecret:  []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:     EnvDurationDefault("SESSION_TTL", 24*time.Hour),
		SessionBackend: strings.ToLower(EnvDefault("SESSION_BACKEND", SessionBackendMemory)),
		RedisURL:       os.Getenv("REDIS_URL"),
		CookieSecure:   EnvBoolDefault("COOKIE_SECURE", true),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		AuthRateLimit: EnvIntDefault("AUTH_RATE_LIMIT", 5),
		AuthRateBurst: EnvIntDefault("AUTH_RATE_BURST", 10),

		TrustedProxies: CSV(os.Getenv("TRUSTED_PROXIES")),
	}
}

// MustLoadServe loads the configuration needed to run the HTTP server and
// exits the process when a required setting is missing.
func MustLoadServe() Config {
	cfg := Load()

	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")
	MustOneOf(cfg.DBDriver, "DB_DRIVER", DriverPostgres, DriverSQLite)
	MustOneOf(cfg.SessionBackend, "SESSION_BACKEND", SessionBackendMemory, SessionBackendRedis)
	if cfg.SessionBackend == SessionBackendRedis {
		MustNonEmpty(cfg.RedisURL, "REDIS_URL")
	}

	return cfg
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
