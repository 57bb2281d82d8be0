package repository_test

import (
	"context"
	"testing"

	"github.com/broarr/soma-security-prototype/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAccountRepo(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryAccountRepo([]string{"p1337", "p1338"})

	t.Run("seeds unregistered rows", func(t *testing.T) {
		account, err := repo.FindByUsername(ctx, "p1337")
		require.NoError(t, err)
		assert.Equal(t, "p1337", account.Username)
		assert.False(t, account.Registered())
		assert.False(t, account.Verified)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "p9999")
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	})

	t.Run("empty phone hash never matches a seeded row", func(t *testing.T) {
		_, err := repo.FindByPhoneHash(ctx, "")
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	})

	t.Run("empty reset token never matches a seeded row", func(t *testing.T) {
		_, err := repo.FindByResetToken(ctx, "")
		assert.ErrorIs(t, err, repository.ErrAccountNotFound)
	})

	t.Run("mutations stick through Save", func(t *testing.T) {
		account, err := repo.FindByUsername(ctx, "p1338")
		require.NoError(t, err)

		account.Password = "pw"
		account.PhoneHash = "hash-1338"
		account.ResetToken = "p-abcd"
		require.NoError(t, repo.Save(ctx, account))

		byPhone, err := repo.FindByPhoneHash(ctx, "hash-1338")
		require.NoError(t, err)
		assert.Equal(t, "p1338", byPhone.Username)

		byToken, err := repo.FindByResetToken(ctx, "p-abcd")
		require.NoError(t, err)
		assert.Equal(t, "p1338", byToken.Username)
	})
}
