package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/compress"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/history"
)

// Config carries everything the CLI needs to wire the store, codec and
// retention policy. Every field has a usable default so a bare
// environment just works.
type Config struct {
	Env string

	DBDriver string
	DBDSN    string

	Compression    string
	SnapshotEvery  int
	DeltaThreshold float64
	MaxDiffLines   int

	RetentionMaxAge   time.Duration
	RetentionMaxCount int
	SweepSchedule     string

	CacheBackend string // memory or redis
	RedisAddr    string
}

// LoadConfig reads .env if present, then the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		Env:               getString("LYRA_ENV", "dev"),
		DBDriver:          getString("LYRA_DB_DRIVER", "sqlite"),
		DBDSN:             getString("LYRA_DB_DSN", ".lyra/lyra.db"),
		Compression:       getString("LYRA_COMPRESSION", compress.AlgorithmGZip),
		SnapshotEvery:     getInt("LYRA_SNAPSHOT_EVERY", history.DefaultSnapshotEvery),
		DeltaThreshold:    getFloat("LYRA_DELTA_THRESHOLD", history.DefaultDeltaThreshold),
		MaxDiffLines:      getInt("LYRA_MAX_DIFF_LINES", 0),
		RetentionMaxAge:   getDuration("LYRA_RETENTION_MAX_AGE", 0),
		RetentionMaxCount: getInt("LYRA_RETENTION_MAX_COUNT", 0),
		SweepSchedule:     getString("LYRA_SWEEP_SCHEDULE", "@every 1h"),
		CacheBackend:      getString("LYRA_CACHE", "memory"),
		RedisAddr:         getString("LYRA_REDIS_ADDR", "localhost:6379"),
	}
}

// Policy builds the retention policy from the loaded values.
func (c *Config) Policy() history.Policy {
	return history.Policy{
		SnapshotEvery:  c.SnapshotEvery,
		DeltaThreshold: c.DeltaThreshold,
		MaxAge:         c.RetentionMaxAge,
		MaxCount:       c.RetentionMaxCount,
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
