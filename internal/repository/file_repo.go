package repository

import (
	"context"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

// FileRepo holds one client's uploadedFiles list.
type FileRepo struct {
	store *kv.Store
}

func NewFileRepo(clientStore *kv.Store) *FileRepo {
	return &FileRepo{store: clientStore}
}

func (r *FileRepo) List(ctx context.Context) ([]models.LegacyFile, error) {
	var files []models.LegacyFile
	if _, err := r.store.Load(ctx, kv.KeyUploadedFiles, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Append adds files to the list. When replaceCategory is non-empty the
// entries of that category are removed first and returned.
func (r *FileRepo) Append(ctx context.Context, files []models.LegacyFile, replaceCategory string) ([]models.LegacyFile, error) {
	var removed []models.LegacyFile
	err := kv.Update(ctx, r.store, kv.KeyUploadedFiles, func(list *[]models.LegacyFile) (bool, error) {
		if replaceCategory != "" {
			kept := (*list)[:0]
			for _, f := range *list {
				if f.Category == replaceCategory {
					removed = append(removed, f)
					continue
				}
				kept = append(kept, f)
			}
			*list = kept
		}
		*list = append(*list, files...)
		return len(files) > 0 || len(removed) > 0, nil
	})
	return removed, err
}
