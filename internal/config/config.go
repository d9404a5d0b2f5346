package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ListenAddr string

	BackendURL   string
	AssetBaseURL string

	SessionSecret []byte
	SessionStore  string // "cookie" or "db"
	DatabaseURL   string

	RedisURL     string
	CacheTTLSecs int

	ESURL      string
	ESUser     string
	ESPassword string

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Env:        getenv("APP_ENV", "development"),
		ListenAddr: getenv("STOREFRONT_ADDR", ":8080"),

		BackendURL:   must(os.Getenv("BACKEND_URL"), "BACKEND_URL"),
		AssetBaseURL: getenv("ASSET_BASE_URL", ""),

		SessionSecret: []byte(must(os.Getenv("SESSION_SECRET"), "SESSION_SECRET")),
		SessionStore:  getenv("SESSION_STORE", "cookie"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		RedisURL:     os.Getenv("REDIS_URL"),
		CacheTTLSecs: EnvIntDefault("CACHE_TTL_SECONDS", 60),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "storefront_events"),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	if cfg.SessionStore == "db" && cfg.DatabaseURL == "" {
		log.Fatalf("SESSION_STORE=db requires DATABASE_URL")
	}

	return cfg
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
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
