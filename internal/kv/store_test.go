package kv

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshil-6/TONIO-SENORA/internal/db"
)

type record struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return map[string]Backend{
		"memory": NewMemory(0),
		"sqlite": NewSQLite(sqlDB, 0),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(b)

			var got map[string]record
			ok, err := s.Load(ctx, KeyUploadedDocuments, &got)
			require.NoError(t, err)
			assert.False(t, ok)

			want := map[string]record{"passport": {Name: "passport.pdf", Size: 1024}}
			require.NoError(t, s.Save(ctx, KeyUploadedDocuments, want))

			ok, err = s.Load(ctx, KeyUploadedDocuments, &got)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, want, got)

			require.NoError(t, s.Remove(ctx, KeyUploadedDocuments, "never-written"))
			has, err := s.Has(ctx, KeyUploadedDocuments)
			require.NoError(t, err)
			assert.False(t, has)
		})
	}
}

func TestStore_CorruptedEntryIsDiscarded(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(b)
			require.NoError(t, s.SaveRaw(ctx, KeyUploadedDocuments, []byte("{not json")))

			var got map[string]record
			ok, err := s.Load(ctx, KeyUploadedDocuments, &got)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, got)

			_, err = b.Get(ctx, KeyUploadedDocuments)
			assert.ErrorIs(t, err, ErrNotExist)
		})
	}
}

func TestStore_EmptyValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(0))
	require.NoError(t, s.SaveRaw(ctx, KeyCurrentUser, nil))

	var v map[string]any
	ok, err := s.Load(ctx, KeyCurrentUser, &v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_NamespaceIsolation(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			root := New(b)
			alice := root.Namespace(ClientNamespace, "alice")
			bob := root.Namespace(ClientNamespace, "bob")

			require.NoError(t, alice.Save(ctx, KeyClientMessages, []string{"hi"}))

			has, err := bob.Has(ctx, KeyClientMessages)
			require.NoError(t, err)
			assert.False(t, has)

			keys, err := alice.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{KeyClientMessages}, keys)

			keys, err = root.Namespace(ClientNamespace).Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alice/" + KeyClientMessages}, keys)
		})
	}
}

func TestMemory_Quota(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(64)
	s := New(m)

	require.NoError(t, s.Save(ctx, "a", "small"))
	err := s.Save(ctx, "b", string(make([]byte, 100)))
	require.ErrorIs(t, err, ErrQuotaExceeded)

	has, err := s.Has(ctx, "b")
	require.NoError(t, err)
	assert.False(t, has, "rejected write must leave no entry")

	// Overwriting a key only counts the difference.
	require.NoError(t, s.Save(ctx, "a", "other"))
	require.NoError(t, s.Remove(ctx, "a"))
	assert.Zero(t, m.Used(""))
}

func TestSQLite_Quota(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "quota.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	s := New(NewSQLite(sqlDB, 64))
	require.NoError(t, s.Save(ctx, "a", "small"))
	require.ErrorIs(t, s.Save(ctx, "b", string(make([]byte, 100))), ErrQuotaExceeded)
	require.NoError(t, s.Save(ctx, "a", "replaced"))
}

func TestQuotaScope(t *testing.T) {
	cases := map[string]string{
		"client/c1/uploadedDocuments": "client/c1/",
		"session/s1/currentUser":      "session/s1/",
		"users":                       "",
		"client/":                     "",
		"clientMessages":              "",
	}
	for key, want := range cases {
		assert.Equal(t, want, QuotaScope(key), key)
	}
}

func TestQuota_PerNamespace(t *testing.T) {
	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "scoped.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	for name, b := range map[string]Backend{"memory": NewMemory(256), "sqlite": NewSQLite(sqlDB, 256)} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			root := New(b)
			a := root.Namespace(ClientNamespace, "a")
			bClient := root.Namespace(ClientNamespace, "b")

			filled := 0
			for ; filled < 100; filled++ {
				err := a.Save(ctx, fmt.Sprintf("k%d", filled), strings.Repeat("x", 40))
				if err != nil {
					require.ErrorIs(t, err, ErrQuotaExceeded)
					break
				}
			}
			require.Less(t, filled, 100, "client a should hit its quota")

			require.NoError(t, bClient.Save(ctx, KeyUploadedDocuments, strings.Repeat("x", 150)))
			require.NoError(t, root.Namespace(SessionNamespace, "s1").Save(ctx, KeyCurrentUser, "ana"))
			require.NoError(t, root.Save(ctx, KeyUsers, strings.Repeat("x", 150)))

			require.NoError(t, a.Remove(ctx, "k0"))
			require.NoError(t, a.Save(ctx, "k0", "small"))
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	open := func() *sql.DB {
		d, err := db.OpenSQLite(path)
		require.NoError(t, err)
		return d
	}

	first := open()
	require.NoError(t, New(NewSQLite(first, 0)).Save(ctx, KeyUsers, []string{"u1"}))
	require.NoError(t, first.Close())

	second := open()
	defer second.Close()
	var users []string
	ok, err := New(NewSQLite(second, 0)).Load(ctx, KeyUsers, &users)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"u1"}, users)
}

func TestUpdate_SerializesWriters(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(0)).Namespace(ClientNamespace, "c1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := Update(ctx, s, "counter", func(n *int) (bool, error) {
				*n++
				return true, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var n int
	_, err := s.Load(ctx, "counter", &n)
	require.NoError(t, err)
	assert.Equal(t, 50, n)
	assert.Zero(t, s.locks.held(), "released locks must not accumulate")
}

func TestUpdate_UnchangedSkipsWrite(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemory(0))

	err := Update(ctx, s, "list", func(v *[]string) (bool, error) { return false, nil })
	require.NoError(t, err)

	has, err := s.Has(ctx, "list")
	require.NoError(t, err)
	assert.False(t, has)
}
