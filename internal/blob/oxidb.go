package blob

import (
	"context"

	"github.com/roshil-6/TONIO-SENORA/internal/db"
	"github.com/roshil-6/TONIO-SENORA/internal/oxidb"
)

// OxiDB stores blobs as objects in an OxiDB bucket.
type OxiDB struct {
	pool *db.Pool
}

func NewOxiDB(pool *db.Pool) *OxiDB {
	return &OxiDB{pool: pool}
}

// EnsureBucket creates the upload bucket if it is missing.
func (o *OxiDB) EnsureBucket(ctx context.Context) error {
	err := o.pool.Get().CreateBucket(ctx, Bucket)
	if err != nil && !oxidb.IsAlreadyExists(err) {
		return err
	}
	return nil
}

func (o *OxiDB) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return o.pool.Get().PutObject(ctx, Bucket, key, data, contentType)
}

func (o *OxiDB) Get(ctx context.Context, key string) ([]byte, string, error) {
	data, ct, err := o.pool.Get().GetObject(ctx, Bucket, key)
	if oxidb.IsNotFound(err) {
		return nil, "", ErrNotFound
	}
	return data, ct, err
}

func (o *OxiDB) Delete(ctx context.Context, key string) error {
	err := o.pool.Get().DeleteObject(ctx, Bucket, key)
	if oxidb.IsNotFound(err) {
		return nil
	}
	return err
}

var _ Store = (*OxiDB)(nil)
