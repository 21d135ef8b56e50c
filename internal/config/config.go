// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	engine "github.com/jason-s-yu/pathgame/engine"
	"github.com/joho/godotenv"
)

// ErrInvalid wraps every configuration parse failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds settings read from the environment. Zero values disable the
// optional features (Redis, Postgres, spectator feed, interactive input).
type Config struct {
	LogLevel  string // LOG_LEVEL
	LogFormat string // LOG_FORMAT: text or json

	ReadTimeout time.Duration // READ_TIMEOUT; 0 waits forever

	RedisURL    string // REDIS_URL
	RedisStream string // REDIS_STREAM
	DatabaseURL string // DATABASE_URL

	SpectateAddr   string // SPECTATE_ADDR, e.g. ":8080"
	SpectateSecret string // SPECTATE_SECRET, HS256 key for spectator tokens

	PlayerBInput   string // PLAYER_B_INPUT, file to read B's choices from
	PlayerAMaxStep int    // PLAYER_A_MAX_STEP; 0 means up to the next barrier

	// Rules of the game. STARTING_MONEY overrides the default starting
	// money; dealer and players must agree on it.
	Rules engine.Rules
}

// DefaultRedisStream is the stream key used when REDIS_STREAM is unset.
const DefaultRedisStream = "pathgame:actions"

// Load reads .env from the working directory when present, then the
// process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: .env: %v", ErrInvalid, err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "text"),
		RedisURL:       get("REDIS_URL", ""),
		RedisStream:    get("REDIS_STREAM", DefaultRedisStream),
		DatabaseURL:    get("DATABASE_URL", ""),
		SpectateAddr:   get("SPECTATE_ADDR", ""),
		SpectateSecret: get("SPECTATE_SECRET", ""),
		PlayerBInput:   get("PLAYER_B_INPUT", ""),
		Rules:          engine.DefaultRules(),
	}

	if v := get("READ_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("%w: READ_TIMEOUT %q", ErrInvalid, v)
		}
		cfg.ReadTimeout = d
	}
	if v := get("PLAYER_A_MAX_STEP", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%w: PLAYER_A_MAX_STEP %q", ErrInvalid, v)
		}
		cfg.PlayerAMaxStep = n
	}
	if v := get("STARTING_MONEY", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: STARTING_MONEY %q", ErrInvalid, v)
		}
		cfg.Rules.StartingMoney = n
	}
	if cfg.SpectateAddr != "" && cfg.SpectateSecret == "" {
		return Config{}, fmt.Errorf("%w: SPECTATE_ADDR requires SPECTATE_SECRET", ErrInvalid)
	}
	return cfg, nil
}
