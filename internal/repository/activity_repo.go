package repository

import (
	"context"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

const (
	ClientActivityLimit = 10
	AdminActivityLimit  = 20
)

// ActivityRepo is a capped, most-recent-first activity log.
type ActivityRepo struct {
	store *kv.Store
	key   string
	limit int
}

// NewClientActivityRepo returns the recentActivities log of a client.
func NewClientActivityRepo(clientStore *kv.Store) *ActivityRepo {
	return &ActivityRepo{store: clientStore, key: kv.KeyRecentActivities, limit: ClientActivityLimit}
}

// NewAdminActivityRepo returns the global adminActivities log.
func NewAdminActivityRepo(store *kv.Store) *ActivityRepo {
	return &ActivityRepo{store: store, key: kv.KeyAdminActivities, limit: AdminActivityLimit}
}

// Add prepends a and drops the entries beyond the limit.
func (r *ActivityRepo) Add(ctx context.Context, a models.Activity) error {
	if a.Timestamp == "" {
		a.Timestamp = now()
	}
	return kv.Update(ctx, r.store, r.key, func(list *[]models.Activity) (bool, error) {
		*list = append([]models.Activity{a}, *list...)
		if len(*list) > r.limit {
			*list = (*list)[:r.limit]
		}
		return true, nil
	})
}

func (r *ActivityRepo) List(ctx context.Context) ([]models.Activity, error) {
	var list []models.Activity
	if _, err := r.store.Load(ctx, r.key, &list); err != nil {
		return nil, err
	}
	return list, nil
}
