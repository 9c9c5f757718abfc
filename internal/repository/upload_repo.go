package repository

import (
	"context"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

// UploadRepo holds one client's uploadedDocuments map.
type UploadRepo struct {
	store *kv.Store
}

func NewUploadRepo(clientStore *kv.Store) *UploadRepo {
	return &UploadRepo{store: clientStore}
}

func (r *UploadRepo) All(ctx context.Context) (map[string]models.UploadRecord, error) {
	records := map[string]models.UploadRecord{}
	if _, err := r.store.Load(ctx, kv.KeyUploadedDocuments, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = map[string]models.UploadRecord{}
	}
	return records, nil
}

func (r *UploadRepo) Get(ctx context.Context, documentID string) (*models.UploadRecord, error) {
	records, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	rec, ok := records[documentID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Put stores rec under its id and returns the record it replaced, if any.
func (r *UploadRepo) Put(ctx context.Context, rec models.UploadRecord) (*models.UploadRecord, error) {
	var prev *models.UploadRecord
	err := kv.Update(ctx, r.store, kv.KeyUploadedDocuments, func(m *map[string]models.UploadRecord) (bool, error) {
		if *m == nil {
			*m = map[string]models.UploadRecord{}
		}
		if old, ok := (*m)[rec.ID]; ok {
			prev = &old
		}
		(*m)[rec.ID] = rec
		return true, nil
	})
	return prev, err
}

// SetStatus changes the status of an existing record. It reports false when
// there is no record for documentID.
func (r *UploadRepo) SetStatus(ctx context.Context, documentID string, status models.Status, at string) (bool, error) {
	found := false
	err := kv.Update(ctx, r.store, kv.KeyUploadedDocuments, func(m *map[string]models.UploadRecord) (bool, error) {
		rec, ok := (*m)[documentID]
		if !ok {
			return false, nil
		}
		found = true
		rec.Status = status
		rec.LastUpdated = at
		(*m)[documentID] = rec
		return true, nil
	})
	return found, err
}

// Delete removes the record for documentID and returns it, or nil when
// there was none.
func (r *UploadRepo) Delete(ctx context.Context, documentID string) (*models.UploadRecord, error) {
	var removed *models.UploadRecord
	err := kv.Update(ctx, r.store, kv.KeyUploadedDocuments, func(m *map[string]models.UploadRecord) (bool, error) {
		rec, ok := (*m)[documentID]
		if !ok {
			return false, nil
		}
		removed = &rec
		delete(*m, documentID)
		return true, nil
	})
	return removed, err
}
