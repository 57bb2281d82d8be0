package services_test

import (
	"testing"

	"github.com/broarr/soma-security-prototype/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaintextChecker(t *testing.T) {
	c := services.PlaintextChecker{}

	stored, err := c.Hash("secret1")
	require.NoError(t, err)
	assert.Equal(t, "secret1", stored)

	assert.True(t, c.Compare(stored, "secret1"))
	assert.False(t, c.Compare(stored, "secret2"))
}

func TestBcryptChecker(t *testing.T) {
	c := services.BcryptChecker{Cost: 4}

	stored, err := c.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored)

	assert.True(t, c.Compare(stored, "secret1"))
	assert.False(t, c.Compare(stored, "secret2"))
}
