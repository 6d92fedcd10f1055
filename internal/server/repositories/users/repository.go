package users

import (
	"context"

	"github.com/dmitrijs2005/finassist/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
}
