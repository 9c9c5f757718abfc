package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/roshil-6/TONIO-SENORA/internal/kv"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

var ErrEmailTaken = errors.New("user with this email already exists")

// UserRepo keeps the users list in the global namespace.
type UserRepo struct {
	store *kv.Store
}

func NewUserRepo(store *kv.Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) List(ctx context.Context) ([]models.StoredUser, error) {
	var users []models.StoredUser
	if _, err := r.store.Load(ctx, kv.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.StoredUser, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.StoredUser, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

// Create appends user unless its email is already registered.
func (r *UserRepo) Create(ctx context.Context, user models.StoredUser) error {
	return kv.Update(ctx, r.store, kv.KeyUsers, func(users *[]models.StoredUser) (bool, error) {
		for _, u := range *users {
			if strings.EqualFold(u.Email, user.Email) {
				return false, ErrEmailTaken
			}
		}
		*users = append(*users, user)
		return true, nil
	})
}
