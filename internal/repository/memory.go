package repository

import (
	"context"
	"sync"
	"time"

	"github.com/broarr/soma-security-prototype/internal/models"
)

// memoryAccountRepo is the in-memory "database": one row per pre-provisioned
// participant, populated once at startup and mutated in place afterwards.
// Lookups are linear scans, which is fine at clinical-study scale. The mutex
// only guards the slice itself; per the single-process demo scope there is no
// transactional isolation.
type memoryAccountRepo struct {
	mu       sync.RWMutex
	accounts []*models.Account
}

// NewMemoryAccountRepo seeds one unregistered account per username. The
// participant ids are pre-assigned because that is how clinical studies work:
// accounts are provisioned by clinicians before participants ever see the
// portal.
func NewMemoryAccountRepo(usernames []string) AccountRepository {
	now := time.Now().UTC()
	accounts := make([]*models.Account, 0, len(usernames))
	for _, u := range usernames {
		accounts = append(accounts, &models.Account{
			Username:  u,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return &memoryAccountRepo{accounts: accounts}
}

func (r *memoryAccountRepo) find(match func(*models.Account) bool) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if match(a) {
			return a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *memoryAccountRepo) FindByUsername(_ context.Context, username string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Username == username })
}

func (r *memoryAccountRepo) FindByPhoneHash(_ context.Context, phoneHash string) (*models.Account, error) {
	if phoneHash == "" {
		return nil, ErrAccountNotFound
	}
	return r.find(func(a *models.Account) bool { return a.PhoneHash == phoneHash })
}

func (r *memoryAccountRepo) FindByResetToken(_ context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrAccountNotFound
	}
	return r.find(func(a *models.Account) bool { return a.ResetToken == token })
}

// Save bumps UpdatedAt. Callers hold a pointer into the table, so the field
// mutations are already visible; there is nothing else to persist.
func (r *memoryAccountRepo) Save(_ context.Context, a *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.UpdatedAt = time.Now().UTC()
	return nil
}
