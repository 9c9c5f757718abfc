package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/roshil-6/TONIO-SENORA/internal/blob"
	"github.com/roshil-6/TONIO-SENORA/internal/config"
	"github.com/roshil-6/TONIO-SENORA/internal/db"
	"github.com/roshil-6/TONIO-SENORA/internal/kv"
)

// backends are the storage the portal runs on.
type backends struct {
	root  *kv.Store
	blobs blob.Store
	// init creates indexes and buckets; it may take a while on OxiDB.
	init  func(ctx context.Context) error
	close func()
}

func openBackends(cfg *config.Config) (*backends, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return &backends{
			root:  kv.New(kv.NewMemory(cfg.StorageQuota)),
			blobs: blob.NewMemory(),
			init:  func(context.Context) error { return nil },
			close: func() {},
		}, nil

	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("Opened SQLite store at %s", cfg.SQLitePath)
		return &backends{
			root:  kv.New(kv.NewSQLite(sqlDB, cfg.StorageQuota)),
			blobs: blob.NewSQLite(sqlDB),
			init:  func(context.Context) error { return nil },
			close: func() { sqlDB.Close() },
		}, nil

	case config.StoreOxiDB:
		pool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize)
		if err != nil {
			return nil, fmt.Errorf("connect to OxiDB: %w", err)
		}
		log.Printf("Connected to OxiDB at %s:%d (pool size: %d)", cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize)
		kvBackend := kv.NewOxiDB(pool)
		blobs := blob.NewOxiDB(pool)
		return &backends{
			root:  kv.New(kvBackend),
			blobs: blobs,
			init: func(ctx context.Context) error {
				if err := kvBackend.EnsureIndexes(ctx); err != nil {
					return fmt.Errorf("kv indexes: %w", err)
				}
				if err := blobs.EnsureBucket(ctx); err != nil {
					return fmt.Errorf("blob bucket: %w", err)
				}
				return nil
			},
			close: pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q: must be one of %s, %s, %s",
		cfg.Store, config.StoreMemory, config.StoreSQLite, config.StoreOxiDB)
}
