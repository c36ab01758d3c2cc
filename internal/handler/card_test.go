package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/cryptox"
)

func TestEncryptFields(t *testing.T) {
	key, err := cryptox.NewRandomKey()
	require.NoError(t, err)
	cipher, err := cryptox.NewFieldCipher(key)
	require.NoError(t, err)
	h := NewCardHandler(nil, cipher)

	plain := map[string]string{
		"number":           "4242424242424242",
		"expiration_date":  "12/29",
		"cvv":              "123",
		"card_holder_name": "John Doe",
	}
	enc, err := h.encryptFields(plain)
	require.NoError(t, err)
	require.Len(t, enc, len(plain))

	for col, want := range plain {
		// Each column is ciphered on its own and no plaintext survives.
		assert.NotEqual(t, want, enc[col])
		got, err := cipher.DecryptField(enc[col])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Same plaintext in two columns still yields distinct ciphertexts.
	dup, err := h.encryptFields(map[string]string{"cvv": "123", "number": "123"})
	require.NoError(t, err)
	assert.NotEqual(t, dup["cvv"], dup["number"])
}
