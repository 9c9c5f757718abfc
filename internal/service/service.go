// Package service holds the portal's business logic: the per-client upload
// tracker, checklist views, accounts, admin review, messaging and
// dashboards. Per-client services are built for one request from the
// authorized user; nothing here reads a process-wide current user.
package service

import (
	"time"

	"github.com/roshil-6/TONIO-SENORA/internal/blob"
	"github.com/roshil-6/TONIO-SENORA/internal/catalog"
	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/metrics"
)

// Deps are the shared backends services are built from.
type Deps struct {
	Root    *kv.Store
	Blobs   blob.Store
	Catalog *catalog.Catalog
	Metrics *metrics.Metrics
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
