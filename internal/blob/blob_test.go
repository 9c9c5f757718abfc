package blob

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshil-6/TONIO-SENORA/internal/db"
)

func TestStores(t *testing.T) {
	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	stores := map[string]Store{
		"memory": NewMemory(),
		"sqlite": NewSQLite(sqlDB),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := NewKey("passport.pdf")

			_, _, err := s.Get(ctx, key)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, key, []byte("%PDF-1.7"), "application/pdf"))
			require.NoError(t, s.Put(ctx, key, []byte("%PDF-2.0"), "application/pdf"))

			data, ct, err := s.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, "%PDF-2.0", string(data))
			assert.Equal(t, "application/pdf", ct)

			require.NoError(t, s.Delete(ctx, key))
			require.NoError(t, s.Delete(ctx, key))
			_, _, err = s.Get(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestNewKey(t *testing.T) {
	a, b := NewKey("../x/scan.png"), NewKey("scan.png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_scan.png"))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectContentType("A.PDF"))
	assert.Equal(t, "image/jpeg", DetectContentType("photo.jpeg"))
	assert.Equal(t, "application/octet-stream", DetectContentType("noext"))
}
