package repository

import (
	"context"
	"errors"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

// ErrReviewDecided is returned when a review is no longer pending.
var ErrReviewDecided = errors.New("review has already been decided")

// ReviewRepo keeps the global documentReviews queue.
type ReviewRepo struct {
	store *kv.Store
}

func NewReviewRepo(store *kv.Store) *ReviewRepo {
	return &ReviewRepo{store: store}
}

func (r *ReviewRepo) List(ctx context.Context) ([]models.Review, error) {
	var list []models.Review
	if _, err := r.store.Load(ctx, kv.KeyDocumentReviews, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ReviewRepo) FindByID(ctx context.Context, id string) (*models.Review, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, nil
}

// Enqueue adds a pending review. A pending review for the same client and
// document is superseded.
func (r *ReviewRepo) Enqueue(ctx context.Context, rev models.Review) error {
	return kv.Update(ctx, r.store, kv.KeyDocumentReviews, func(list *[]models.Review) (bool, error) {
		kept := (*list)[:0]
		for _, existing := range *list {
			if existing.Status == models.ReviewPending &&
				existing.ClientID == rev.ClientID && existing.DocumentID == rev.DocumentID {
				continue
			}
			kept = append(kept, existing)
		}
		*list = append(kept, rev)
		return true, nil
	})
}

// Decide records a decision on a pending review. It returns nil when the
// review does not exist and ErrReviewDecided when it is no longer pending.
func (r *ReviewRepo) Decide(ctx context.Context, id string, status models.ReviewStatus, note, at string) (*models.Review, error) {
	var decided *models.Review
	err := kv.Update(ctx, r.store, kv.KeyDocumentReviews, func(list *[]models.Review) (bool, error) {
		for i := range *list {
			if (*list)[i].ID != id {
				continue
			}
			if (*list)[i].Status != models.ReviewPending {
				return false, ErrReviewDecided
			}
			(*list)[i].Status = status
			(*list)[i].Note = note
			(*list)[i].DecidedAt = at
			rev := (*list)[i]
			decided = &rev
			return true, nil
		}
		return false, nil
	})
	return decided, err
}

// DropDocument removes pending reviews of a deleted document.
func (r *ReviewRepo) DropDocument(ctx context.Context, clientID, documentID string) error {
	return kv.Update(ctx, r.store, kv.KeyDocumentReviews, func(list *[]models.Review) (bool, error) {
		kept := (*list)[:0]
		for _, rev := range *list {
			if rev.Status == models.ReviewPending && rev.ClientID == clientID && rev.DocumentID == documentID {
				continue
			}
			kept = append(kept, rev)
		}
		changed := len(kept) != len(*list)
		*list = kept
		return changed, nil
	})
}
