package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_URL", "postgres://localhost/vws_rnd")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("BUDGET_TOLERANCE", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.EqualValues(t, 1000, cfg.Tolerance)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadToleranceOverride(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/vws_rnd")
	t.Setenv("BUDGET_TOLERANCE", "500")

	assert.EqualValues(t, 500, Load().Tolerance)
}

func TestLoadToleranceInvalidFallsBack(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/vws_rnd")
	t.Setenv("BUDGET_TOLERANCE", "많이")

	assert.EqualValues(t, 1000, Load().Tolerance)
}
