package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"strings"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
)

// Store is the hot cache tier backed by BadgerDB. Expiry uses badger's
// native entry TTL, which has one second granularity.
type Store struct {
	db *badgerdb.DB
}

var _ interfaces.KVStore = &Store{}

// New opens a persistent store at path. An empty path opens an
// in-memory store, which is what tests and local development use.
func New(path string) (*Store, error) {
	var opts badgerdb.Options
	if path == "" {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badgerdb.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open badger database", goerr.V("path", path))
	}

	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, goerr.Wrap(interfaces.ErrCacheMiss, "key not found", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to get key", goerr.V("key", key))
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to set key", goerr.V("key", key))
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete key", goerr.V("key", key))
	}

	return nil
}

func (s *Store) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	if !wildcard {
		return s.Delete(ctx, pattern)
	}

	var keys [][]byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to scan keys", goerr.V("pattern", pattern))
	}

	for _, key := range keys {
		err := s.db.Update(func(txn *badgerdb.Txn) error {
			return txn.Delete(key)
		})
		if err != nil {
			return goerr.Wrap(err, "failed to delete key", goerr.V("key", string(key)))
		}
	}

	return nil
}

func (s *Store) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var count int64

	// Retry on transaction conflict so concurrent increments all land
	for {
		err := s.db.Update(func(txn *badgerdb.Txn) error {
			item, err := txn.Get([]byte(key))
			switch {
			case errors.Is(err, badgerdb.ErrKeyNotFound):
				count = 1
				entry := badgerdb.NewEntry([]byte(key), encodeCounter(count))
				if ttl > 0 {
					entry = entry.WithTTL(ttl)
				}
				return txn.SetEntry(entry)

			case err != nil:
				return err

			default:
				value, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				count = decodeCounter(value) + 1

				entry := badgerdb.NewEntry([]byte(key), encodeCounter(count))
				if expires := item.ExpiresAt(); expires > 0 {
					remain := time.Until(time.Unix(int64(expires), 0))
					if remain > 0 {
						entry = entry.WithTTL(remain)
					}
				}
				return txn.SetEntry(entry)
			}
		})
		if err == nil {
			return count, nil
		}
		if !errors.Is(err, badgerdb.ErrConflict) {
			return 0, goerr.Wrap(err, "failed to increment counter", goerr.V("key", key))
		}
	}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func encodeCounter(n int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(n))
	return buf
}

func decodeCounter(b []byte) int64 {
	if len(b) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}
