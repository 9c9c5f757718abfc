package service

import (
	"testing"

	"github.com/roshil-6/TONIO-SENORA/internal/blob"
	"github.com/roshil-6/TONIO-SENORA/internal/catalog"
	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

var testClient = models.User{
	ID:          "client-1",
	Name:        "Ana Client",
	Email:       "ana@example.com",
	AccountType: models.RoleClient,
}

func newTestDeps(t *testing.T) (Deps, *blob.Memory) {
	t.Helper()
	blobs := blob.NewMemory()
	return Deps{
		Root:    kv.New(kv.NewMemory(0)),
		Blobs:   blobs,
		Catalog: catalog.Default(),
	}, blobs
}

func pdf(name string, size int64) *FileMeta {
	return &FileMeta{Name: name, Size: size, Type: "application/pdf", LastModified: 1700000000000}
}

func pdfWithData(name, body string) *FileMeta {
	return &FileMeta{Name: name, Size: int64(len(body)), Type: "application/pdf", Data: []byte(body)}
}
