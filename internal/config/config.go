package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	DatabaseURL   string
	LogLevel      string
	GeminiAPIKey  string
	GeminiModel   string
	NatsURL       string
	NatsToken     string
	APIToken      string
	PipelineMode  string
	HistoryWindow int
	SessionTTL    time.Duration
	OracleTimeout time.Duration
	InitDB        bool
}

func Load() Config {
	return Config{
		Port:          envInt("OUTFITTER_PORT", 8760),
		DatabaseURL:   envStr("DATABASE_URL", ""),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		GeminiAPIKey:  envStr("GEMINI_API_KEY", ""),
		GeminiModel:   envStr("OUTFITTER_MODEL", "gemini-2.0-flash-exp"),
		NatsURL:       envStr("NATS_URL", ""),
		NatsToken:     envStr("NATS_TOKEN", ""),
		APIToken:      envStr("OUTFITTER_API_TOKEN", ""),
		PipelineMode:  envStr("OUTFITTER_PIPELINE_MODE", "single"),
		HistoryWindow: envInt("OUTFITTER_HISTORY_WINDOW", 5),
		SessionTTL:    envDur("OUTFITTER_SESSION_TTL", 30*time.Minute),
		OracleTimeout: envDur("OUTFITTER_ORACLE_TIMEOUT", 60*time.Second),
		InitDB:        envBool("OUTFITTER_INIT_DB", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
