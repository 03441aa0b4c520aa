package cli

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/on-the-ground/react_ive_go/config"
	"github.com/on-the-ground/react_ive_go/store"
	"github.com/on-the-ground/react_ive_go/store/filestore"
	"github.com/on-the-ground/react_ive_go/store/memstore"
	"github.com/on-the-ground/react_ive_go/store/redistore"
	"github.com/on-the-ground/react_ive_go/store/sqlitestore"
)

// openStore builds the KV backend the config selects. The returned cleanup
// releases whatever the backend holds open.
func openStore(cfg config.StoreConfig) (store.KV, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "memory":
		return memstore.New(), noop, nil

	case "file":
		s, err := filestore.New(afero.NewOsFs(), cfg.FileDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return s, noop, nil

	case "sqlite":
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, s.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redistore.New(client, "reactive:"), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q (memory|file|sqlite|redis)", cfg.Backend)
	}
}
