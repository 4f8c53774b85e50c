//go:build unit

package pin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv-terminal/internal/pkg/pin"
)

func TestHashAndCompare(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hashed, err := pin.Hash("1234")
		require.NoError(t, err)
		require.NotEmpty(t, hashed)

		assert.NoError(t, pin.Compare(hashed, "1234"))
	})

	t.Run("mismatch", func(t *testing.T) {
		hashed, err := pin.Hash("1234")
		require.NoError(t, err)

		assert.ErrorIs(t, pin.Compare(hashed, "4321"), pin.ErrMismatch)
	})

	t.Run("empty inputs", func(t *testing.T) {
		_, err := pin.Hash("")
		assert.ErrorIs(t, err, pin.ErrInvalidPIN)

		assert.ErrorIs(t, pin.Compare("", "1234"), pin.ErrInvalidPIN)
		assert.ErrorIs(t, pin.Compare("hash", ""), pin.ErrInvalidPIN)
	})
}
