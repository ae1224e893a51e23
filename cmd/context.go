package cmd

import (
	"os"
	"os/user"

	"github.com/sirupsen/logrus"

	"github.com/ColbyCorcoran/Lyra-sub014/internal/cache"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/config"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/history"
	"github.com/ColbyCorcoran/Lyra-sub014/internal/store"
)

// newService wires the store, cache and policy from the environment.
func newService() (*history.Service, *config.Config, error) {
	cfg := config.LoadConfig()

	st, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(); err != nil {
		return nil, nil, err
	}

	var snapshots cache.SnapshotCache
	switch cfg.CacheBackend {
	case "redis":
		snapshots = cache.NewRedis(cfg.RedisAddr)
	default:
		snapshots = cache.NewMemory(0)
	}

	service := history.NewService(st, snapshots, history.Options{
		Algorithm:    cfg.Compression,
		MaxDiffLines: cfg.MaxDiffLines,
		Policy:       cfg.Policy(),
	})

	return service, cfg, nil
}

// currentAuthor resolves the author identity for CLI saves, preferring
// explicit env configuration over the OS user.
func currentAuthor() history.Author {
	name := os.Getenv("LYRA_AUTHOR_NAME")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		} else {
			logrus.Debugf("could not resolve current user: %v", err)
			name = "unknown"
		}
	}

	return history.Author{
		ID:   os.Getenv("LYRA_AUTHOR_ID"),
		Name: name,
	}
}
