package repository

import (
	"context"
	"errors"

	"github.com/broarr/soma-security-prototype/internal/models"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountRepository is the storage contract for participant accounts. The demo
// default is the in-memory table; the mongo implementation exists so the
// storage can be swapped for a real database without touching the portal
// logic. All Find methods return ErrAccountNotFound on a miss.
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	FindByPhoneHash(ctx context.Context, phoneHash string) (*models.Account, error)
	FindByResetToken(ctx context.Context, token string) (*models.Account, error)
	Save(ctx context.Context, a *models.Account) error
}
