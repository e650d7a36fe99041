package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddr     string
	AllowedOrigins []string
	LavaTick       time.Duration
	LavaSpeedup    time.Duration
	GameOverDelay  time.Duration
}

// Load reads configuration from the environment, after merging a .env file
// if one is present alongside the binary.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerAddr:     getString("SERVER_ADDR", ":3000"),
		AllowedOrigins: getList("ALLOWED_ORIGINS", nil),
		LavaTick:       getDuration("LAVA_TICK", 100*time.Millisecond),
		LavaSpeedup:    getDuration("LAVA_SPEEDUP", 30*time.Second),
		GameOverDelay:  getDuration("GAME_OVER_DELAY", 10*time.Second),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
