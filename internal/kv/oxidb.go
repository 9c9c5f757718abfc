package kv

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/roshil-6/TONIO-SENORA/internal/db"
	"github.com/roshil-6/TONIO-SENORA/internal/oxidb"
)

// EntriesCollection holds one document per key: {key, value, updatedAt}.
const EntriesCollection = "_portal_kv"

// OxiDB stores entries as documents in an OxiDB collection.
type OxiDB struct {
	pool *db.Pool
}

// NewOxiDB returns a backend over pool. Call EnsureIndexes once at startup.
func NewOxiDB(pool *db.Pool) *OxiDB {
	return &OxiDB{pool: pool}
}

// EnsureIndexes creates the unique key index.
func (o *OxiDB) EnsureIndexes(ctx context.Context) error {
	err := o.pool.Get().CreateUniqueIndex(ctx, EntriesCollection, "key")
	if err != nil && !oxidb.IsAlreadyExists(err) {
		return err
	}
	return nil
}

func (o *OxiDB) Ping(ctx context.Context) error {
	_, err := o.pool.Get().Ping(ctx)
	return err
}

func (o *OxiDB) Get(ctx context.Context, key string) ([]byte, error) {
	doc, err := o.pool.Get().FindOne(ctx, EntriesCollection, map[string]any{"key": key})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotExist
	}
	v, ok := doc["value"].(string)
	if !ok {
		return nil, fmt.Errorf("entry %q has no string value", key)
	}
	return []byte(v), nil
}

func (o *OxiDB) Set(ctx context.Context, key string, value []byte) error {
	c := o.pool.Get()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	n, err := c.Count(ctx, EntriesCollection, map[string]any{"key": key})
	if err != nil {
		return err
	}
	if n == 0 {
		return c.Insert(ctx, EntriesCollection, map[string]any{
			"key": key, "value": string(value), "updatedAt": now,
		})
	}
	return c.UpdateOne(ctx, EntriesCollection,
		map[string]any{"key": key},
		map[string]any{"$set": map[string]any{"value": string(value), "updatedAt": now}},
	)
}

func (o *OxiDB) Delete(ctx context.Context, key string) error {
	return o.pool.Get().DeleteOne(ctx, EntriesCollection, map[string]any{"key": key})
}

func (o *OxiDB) Keys(ctx context.Context, prefix string) ([]string, error) {
	docs, err := o.pool.Get().Find(ctx, EntriesCollection, map[string]any{})
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, d := range docs {
		if k, _ := d["key"].(string); strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var _ Backend = (*OxiDB)(nil)
