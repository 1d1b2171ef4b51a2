package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	repository "github.com/taskhive/taskhive/internal/repositories"
)

type Config struct {
	AppURL                 string
	Mode                   repository.Mode
	DatabaseDSN            string
	DataDir                string
	RedisAddr              string
	RateLimit              int
	ShutdownTimeoutSeconds int
	AIEndpoint             string
	AIAPIKey               string
	AIRetryAttempts        int
}

// Load reads the environment once at startup. The persistence mode is
// decided here and only here: a configured DATABASE_DSN selects remote
// mode, otherwise the process runs on the local store for its lifetime.
func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", ""),
		DataDir:                getEnv("DATA_DIR", "data"),
		RedisAddr:              redisAddr(),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		AIEndpoint:             getEnv("AI_ENDPOINT", ""),
		AIAPIKey:               getEnv("AI_API_KEY", ""),
		AIRetryAttempts:        getEnvAsInt("AI_RETRY_ATTEMPTS", 3),
	}

	cfg.Mode = repository.ModeLocal
	if cfg.DatabaseDSN != "" {
		cfg.Mode = repository.ModeRemote
	}

	validate(cfg)
	return cfg
}

func redisAddr() string {
	host := getEnv("REDIS_HOST", "")
	if host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", host, getEnv("REDIS_PORT", "6379"))
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.Mode == repository.ModeLocal && cfg.DataDir == "" && cfg.RedisAddr == "" {
		log.Fatal("local mode needs DATA_DIR or REDIS_HOST")
	}
	if cfg.AIRetryAttempts <= 0 {
		log.Fatal("AI_RETRY_ATTEMPTS must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
