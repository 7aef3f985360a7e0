package security

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T, length int) []byte {
	t.Helper()
	key := make([]byte, length)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAESService_Roundtrip(t *testing.T) {
	nopLogger := zerolog.Nop()

	testCases := []struct {
		name    string
		keyLen  int
		payload []byte
		aad     []byte
	}{
		{"AES-128", 16, []byte(`{"accountNumber":"0011223344"}`), []byte("row-1")},
		{"AES-256", 32, []byte(`{"iban":"AE070331234567890123456"}`), []byte("row-2")},
		{"empty payload, no aad", 32, []byte{}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewAESService(generateKey(t, tc.keyLen), &nopLogger)
			require.NoError(t, err)

			sealed, err := svc.Encrypt(tc.payload, tc.aad)
			require.NoError(t, err)
			assert.NotEqual(t, tc.payload, sealed)

			plain, err := svc.Decrypt(sealed, tc.aad)
			require.NoError(t, err)
			assert.Equal(t, string(tc.payload), string(plain))
		})
	}
}

func TestAESService_RejectsWrongAssociatedData(t *testing.T) {
	nopLogger := zerolog.Nop()
	svc, err := NewAESService(generateKey(t, 32), &nopLogger)
	require.NoError(t, err)

	sealed, err := svc.Encrypt([]byte("secret"), []byte("withdrawal-a"))
	require.NoError(t, err)

	_, err = svc.Decrypt(sealed, []byte("withdrawal-b"))
	assert.Error(t, err)
}

func TestAESService_RejectsTamperedAndShortInput(t *testing.T) {
	nopLogger := zerolog.Nop()
	svc, err := NewAESService(generateKey(t, 32), &nopLogger)
	require.NoError(t, err)

	sealed, err := svc.Encrypt([]byte("secret"), nil)
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = svc.Decrypt(sealed, nil)
	assert.Error(t, err)

	_, err = svc.Decrypt([]byte{1, 2, 3}, nil)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}

func TestNewAESServiceFromHex(t *testing.T) {
	nopLogger := zerolog.Nop()

	_, err := NewAESServiceFromHex(strings.Repeat("ab", 32), &nopLogger)
	assert.NoError(t, err)

	_, err = NewAESServiceFromHex("not-hex", &nopLogger)
	assert.Error(t, err)

	_, err = NewAESServiceFromHex(strings.Repeat("ab", 8), &nopLogger)
	assert.NoError(t, err)

	_, err = NewAESServiceFromHex(strings.Repeat("ab", 10), &nopLogger)
	assert.Error(t, err)
}
