// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, DefaultRedisStream, cfg.RedisStream)
	assert.Zero(t, cfg.ReadTimeout)
	assert.Zero(t, cfg.PlayerAMaxStep)
	assert.Empty(t, cfg.SpectateAddr)
	assert.Equal(t, engine.DefaultRules(), cfg.Rules)
}

func TestFromLookupValues(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"LOG_LEVEL":         "debug",
		"LOG_FORMAT":        "json",
		"READ_TIMEOUT":      "1500ms",
		"REDIS_URL":         "redis://localhost:6379/0",
		"REDIS_STREAM":      "games",
		"DATABASE_URL":      "postgres://localhost/pathgame",
		"SPECTATE_ADDR":     ":8080",
		"SPECTATE_SECRET":   "s3cret",
		"PLAYER_B_INPUT":    "/dev/tty",
		"PLAYER_A_MAX_STEP": "2",
		"STARTING_MONEY":    "10",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.ReadTimeout)
	assert.Equal(t, "games", cfg.RedisStream)
	assert.Equal(t, 2, cfg.PlayerAMaxStep)
	assert.Equal(t, "/dev/tty", cfg.PlayerBInput)
	assert.Equal(t, 10, cfg.Rules.StartingMoney)
	assert.Equal(t, engine.DefaultRules().MoneyPerMo, cfg.Rules.MoneyPerMo)
}

func TestFromLookupInvalid(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"bad timeout":      {"READ_TIMEOUT": "soon"},
		"negative timeout": {"READ_TIMEOUT": "-1s"},
		"bad max step":     {"PLAYER_A_MAX_STEP": "two"},
		"negative step":    {"PLAYER_A_MAX_STEP": "-1"},
		"feed no secret":   {"SPECTATE_ADDR": ":8080"},
		"bad money":        {"STARTING_MONEY": "ten"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PLAYER_A_MAX_STEP=3\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("PLAYER_A_MAX_STEP", "")
	os.Unsetenv("PLAYER_A_MAX_STEP")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.PlayerAMaxStep)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := Load()
	assert.NoError(t, err)
}
