package repository

import (
	"context"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

// ApplicationRepo keeps the global applications list, one per client.
type ApplicationRepo struct {
	store *kv.Store
}

func NewApplicationRepo(store *kv.Store) *ApplicationRepo {
	return &ApplicationRepo{store: store}
}

func (r *ApplicationRepo) List(ctx context.Context) ([]models.Application, error) {
	var list []models.Application
	if _, err := r.store.Load(ctx, kv.KeyApplications, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ApplicationRepo) FindByClient(ctx context.Context, clientID string) (*models.Application, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ClientID == clientID {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Upsert stores app, replacing the entry of the same client.
func (r *ApplicationRepo) Upsert(ctx context.Context, app models.Application) error {
	return kv.Update(ctx, r.store, kv.KeyApplications, func(list *[]models.Application) (bool, error) {
		for i := range *list {
			if (*list)[i].ClientID == app.ClientID {
				if app.ID == "" {
					app.ID = (*list)[i].ID
				}
				(*list)[i] = app
				return true, nil
			}
		}
		*list = append(*list, app)
		return true, nil
	})
}

// SetStatus updates an application by id. It returns nil when missing.
func (r *ApplicationRepo) SetStatus(ctx context.Context, id, status, at string) (*models.Application, error) {
	var updated *models.Application
	err := kv.Update(ctx, r.store, kv.KeyApplications, func(list *[]models.Application) (bool, error) {
		for i := range *list {
			if (*list)[i].ID != id {
				continue
			}
			(*list)[i].Status = status
			(*list)[i].UpdatedAt = at
			app := (*list)[i]
			updated = &app
			return true, nil
		}
		return false, nil
	})
	return updated, err
}
