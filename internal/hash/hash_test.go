package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("Secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secreto123", h)

	assert.True(t, CheckPassword(h, "Secreto123"))
	assert.False(t, CheckPassword(h, "secreto123"))
	assert.False(t, CheckPassword("not-a-hash", "Secreto123"))
}
