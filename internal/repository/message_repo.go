package repository

import (
	"context"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

// ThreadRepo holds one client's clientMessages thread, newest first.
type ThreadRepo struct {
	store *kv.Store
}

func NewThreadRepo(clientStore *kv.Store) *ThreadRepo {
	return &ThreadRepo{store: clientStore}
}

// List returns the thread and whether it has ever been written.
func (r *ThreadRepo) List(ctx context.Context) ([]models.Message, bool, error) {
	var msgs []models.Message
	ok, err := r.store.Load(ctx, kv.KeyClientMessages, &msgs)
	return msgs, ok, err
}

func (r *ThreadRepo) Prepend(ctx context.Context, m models.Message) error {
	return kv.Update(ctx, r.store, kv.KeyClientMessages, func(list *[]models.Message) (bool, error) {
		*list = append([]models.Message{m}, *list...)
		return true, nil
	})
}

// AdminMessageRepo keeps the global adminMessages log and the
// adminCommunications overview.
type AdminMessageRepo struct {
	store *kv.Store
}

func NewAdminMessageRepo(store *kv.Store) *AdminMessageRepo {
	return &AdminMessageRepo{store: store}
}

func (r *AdminMessageRepo) Append(ctx context.Context, m models.AdminMessage) error {
	return kv.Update(ctx, r.store, kv.KeyAdminMessages, func(list *[]models.AdminMessage) (bool, error) {
		*list = append(*list, m)
		return true, nil
	})
}

func (r *AdminMessageRepo) List(ctx context.Context) ([]models.AdminMessage, error) {
	var list []models.AdminMessage
	if _, err := r.store.Load(ctx, kv.KeyAdminMessages, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Touch updates the overview entry of a client thread. fromClient counts the
// message as unread for the legal team; a reply clears the counter.
func (r *AdminMessageRepo) Touch(ctx context.Context, c models.Communication, fromClient bool) error {
	return kv.Update(ctx, r.store, kv.KeyAdminCommunications, func(list *[]models.Communication) (bool, error) {
		for i := range *list {
			if (*list)[i].ClientID != c.ClientID {
				continue
			}
			unread := (*list)[i].Unread
			if fromClient {
				unread++
			} else {
				unread = 0
			}
			c.Unread = unread
			(*list)[i] = c
			return true, nil
		}
		if fromClient {
			c.Unread = 1
		}
		*list = append(*list, c)
		return true, nil
	})
}

func (r *AdminMessageRepo) Communications(ctx context.Context) ([]models.Communication, error) {
	var list []models.Communication
	if _, err := r.store.Load(ctx, kv.KeyAdminCommunications, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ContactRepo keeps messages sent through the public contact form.
type ContactRepo struct {
	store *kv.Store
}

func NewContactRepo(store *kv.Store) *ContactRepo {
	return &ContactRepo{store: store}
}

func (r *ContactRepo) Append(ctx context.Context, m models.ContactMessage) error {
	return kv.Update(ctx, r.store, kv.KeyContactMessages, func(list *[]models.ContactMessage) (bool, error) {
		*list = append(*list, m)
		return true, nil
	})
}

func (r *ContactRepo) List(ctx context.Context) ([]models.ContactMessage, error) {
	var list []models.ContactMessage
	if _, err := r.store.Load(ctx, kv.KeyContactMessages, &list); err != nil {
		return nil, err
	}
	return list, nil
}
