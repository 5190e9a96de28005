package repo

import (
	"context"

	"github.com/Skotchmaster/inventory/internal/kv"
	"github.com/Skotchmaster/inventory/internal/models"
)

type UserRepo struct {
	*Repository[models.User]
}

func NewUserRepo(store kv.Store) *UserRepo {
	return &UserRepo{Repository: New[models.User](store, "users")}
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindFirst(ctx, func(u *models.User) bool { return u.Username == username })
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.FindFirst(ctx, func(u *models.User) bool { return u.Email == email })
}
