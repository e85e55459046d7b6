package config

import (
	"os"
	"time"
)

type Config struct {
	Port              string
	Env               string
	MongoURI          string
	MongoDBName       string
	AuditDBDSN        string
	RedisAddr         string
	JWTSecret         string
	CacheTTL          time.Duration
	ReconcileInterval time.Duration
	ReconcileGrace    time.Duration
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "thunderstorm"),
		AuditDBDSN:        getEnv("AUDIT_DB_DSN", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		JWTSecret:         getEnv("JWT_SECRET", "supersecretjwtkey"),
		CacheTTL:          getDuration("CACHE_TTL", 5*time.Minute),
		ReconcileInterval: getDuration("RECONCILE_INTERVAL", time.Minute),
		ReconcileGrace:    getDuration("RECONCILE_GRACE", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
