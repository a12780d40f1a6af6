package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/viakisun/vws-rnd/internal/budget"
)

// Config is the process configuration, read once at boot.
type Config struct {
	Port      string
	DBURL     string
	RedisAddr string
	// Tolerance is the allowed drift, in won, between independently entered
	// money figures. One value feeds every comparison site.
	Tolerance int64
}

// Load reads .env (if present) and the environment. Only DB_URL is
// mandatory; everything else has a default.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn(".env 파일을 읽을 수 없습니다", "error", err)
	}

	cfg := Config{
		Port:      os.Getenv("PORT"),
		DBURL:     os.Getenv("DB_URL"),
		RedisAddr: os.Getenv("REDIS_ADDR"),
		Tolerance: budget.DefaultTolerance,
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if v := os.Getenv("BUDGET_TOLERANCE"); v != "" {
		if t, err := strconv.ParseInt(v, 10, 64); err == nil && t >= 0 {
			cfg.Tolerance = t
		} else {
			slog.Warn("BUDGET_TOLERANCE 값이 올바르지 않아 기본값을 사용합니다", "value", v)
		}
	}
	return cfg
}
