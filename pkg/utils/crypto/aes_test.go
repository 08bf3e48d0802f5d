package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	cipherText, err := Encrypt("sk-secret-value", "passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "sk-secret-value", cipherText)

	plain, err := Decrypt(cipherText, "passphrase")
	require.NoError(t, err)
	assert.Equal(t, "sk-secret-value", plain)
}

func TestEncryptProducesUniqueCipherText(t *testing.T) {
	a, err := Encrypt("same input", "key")
	require.NoError(t, err)
	b, err := Encrypt("same input", "key")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "nonce must differ per encryption")
}

func TestDecryptWrongKey(t *testing.T) {
	cipherText, err := Encrypt("secret", "right-key")
	require.NoError(t, err)

	_, err = Decrypt(cipherText, "wrong-key")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestEmptyKeyRejected(t *testing.T) {
	_, err := Encrypt("secret", "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Decrypt("whatever", "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestDecryptGarbage(t *testing.T) {
	_, err := Decrypt("not base64 at all!!!", "key")
	assert.ErrorIs(t, err, ErrInvalidCipherText)

	_, err = Decrypt("YQ==", "key") // valid base64, too short for a nonce
	assert.ErrorIs(t, err, ErrInvalidCipherText)
}
