package repository

import (
	"context"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

// DashboardRepo holds a client's applicationStatus, timelineData and
// checklistData.
type DashboardRepo struct {
	store *kv.Store
}

func NewDashboardRepo(clientStore *kv.Store) *DashboardRepo {
	return &DashboardRepo{store: clientStore}
}

// ApplicationStatus returns the stored status or the default one.
func (r *DashboardRepo) ApplicationStatus(ctx context.Context) (models.ApplicationStatus, error) {
	st := models.DefaultApplicationStatus()
	ok, err := r.store.Load(ctx, kv.KeyApplicationStatus, &st)
	if err != nil || !ok {
		return models.DefaultApplicationStatus(), err
	}
	return st, nil
}

func (r *DashboardRepo) SetApplicationStatus(ctx context.Context, st models.ApplicationStatus) error {
	return r.store.Save(ctx, kv.KeyApplicationStatus, st)
}

func (r *DashboardRepo) Timeline(ctx context.Context) ([]models.TimelineItem, error) {
	var items []models.TimelineItem
	if _, err := r.store.Load(ctx, kv.KeyTimelineData, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *DashboardRepo) SetTimeline(ctx context.Context, items []models.TimelineItem) error {
	return r.store.Save(ctx, kv.KeyTimelineData, items)
}

// Checklist returns the manual ticks of one country.
func (r *DashboardRepo) Checklist(ctx context.Context, country string) (map[string]bool, error) {
	var data map[string]map[string]bool
	if _, err := r.store.Load(ctx, kv.KeyChecklistData, &data); err != nil {
		return nil, err
	}
	if data[country] == nil {
		return map[string]bool{}, nil
	}
	return data[country], nil
}

func (r *DashboardRepo) SetChecklistItem(ctx context.Context, country, item string, done bool) error {
	return kv.Update(ctx, r.store, kv.KeyChecklistData, func(data *map[string]map[string]bool) (bool, error) {
		if *data == nil {
			*data = map[string]map[string]bool{}
		}
		if (*data)[country] == nil {
			(*data)[country] = map[string]bool{}
		}
		(*data)[country][item] = done
		return true, nil
	})
}
