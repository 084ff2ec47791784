package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
	"github.com/secmon-lab/gitpoke/pkg/repository/kv/badger"
	kvmemory "github.com/secmon-lab/gitpoke/pkg/repository/kv/memory"
	"github.com/secmon-lab/gitpoke/pkg/repository/objstore/gcs"
	objmemory "github.com/secmon-lab/gitpoke/pkg/repository/objstore/memory"
	"github.com/secmon-lab/gitpoke/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Cache holds CLI flags for the hot cache and the cold badge store
type Cache struct {
	kvBackend string
	kvPath    string
	gcsBucket string
}

// Flags returns CLI flags for cache configuration
func (c *Cache) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cache-backend",
			Usage:       "Hot cache backend type (badger or memory)",
			Value:       "badger",
			Sources:     cli.EnvVars("GITPOKE_CACHE_BACKEND"),
			Destination: &c.kvBackend,
		},
		&cli.StringFlag{
			Name:        "cache-dir",
			Usage:       "Badger data directory (empty runs Badger in memory)",
			Sources:     cli.EnvVars("GITPOKE_CACHE_DIR"),
			Destination: &c.kvPath,
		},
		&cli.StringFlag{
			Name:        "badge-bucket",
			Usage:       "GCS bucket for rendered badges (empty disables the cold tier)",
			Sources:     cli.EnvVars("GITPOKE_BADGE_BUCKET"),
			Destination: &c.gcsBucket,
		},
	}
}

// LogAttrs returns log attributes for the cache configuration
func (c *Cache) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("kv_backend", c.kvBackend),
		slog.String("kv_path", c.kvPath),
		slog.String("gcs_bucket", c.gcsBucket),
	}
}

// ConfigureKV initializes the hot cache backend
func (c *Cache) ConfigureKV() (interfaces.KVStore, error) {
	switch c.kvBackend {
	case "badger":
		kv, err := badger.New(c.kvPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize badger cache", goerr.V("path", c.kvPath))
		}
		logging.Default().Info("Using Badger hot cache", "path", c.kvPath)
		return kv, nil

	case "memory":
		logging.Default().Info("Using in-memory hot cache (development mode)")
		return kvmemory.New(), nil

	default:
		return nil, goerr.New("invalid cache backend", goerr.V("backend", c.kvBackend))
	}
}

// ConfigureObjectStore initializes the cold badge store. Without a
// bucket the cold tier falls back to process memory.
func (c *Cache) ConfigureObjectStore(ctx context.Context) (interfaces.ObjectStore, error) {
	if c.gcsBucket == "" {
		logging.Default().Info("Badge bucket not configured, using in-memory cold store")
		return objmemory.New(), nil
	}

	store, err := gcs.New(ctx, c.gcsBucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize GCS badge store", goerr.V("bucket", c.gcsBucket))
	}
	logging.Default().Info("Using GCS cold badge store", "bucket", c.gcsBucket)
	return store, nil
}
