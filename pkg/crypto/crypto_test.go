package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	engine := NewEngine("test-master-key")
	key := engine.DeriveUserKey("user@example.com")

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "simple", plaintext: "hello world"},
		{name: "email subject", plaintext: "Re: Q3 planning - follow up"},
		{name: "address header", plaintext: "Alice Smith <alice@acme.com>, bob@acme.com"},
		{name: "unicode", plaintext: "préparation für 会議"},
		{name: "long snippet", plaintext: string(make([]byte, 4096))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := engine.Encrypt(key, tt.plaintext)
			require.NoError(t, err)

			plaintext, err := engine.Decrypt(key, field)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, plaintext)
		})
	}
}

func TestDeriveUserKeyDeterminism(t *testing.T) {
	engine := NewEngine("test-master-key")

	k1 := engine.DeriveUserKey("user@example.com")
	k2 := engine.DeriveUserKey("user@example.com")
	assert.Equal(t, k1, k2, "same identifier must always yield the same key")
	assert.Len(t, k1, 32)

	other := engine.DeriveUserKey("other@example.com")
	assert.NotEqual(t, k1, other, "different identifiers must yield different keys")
}

func TestEncryptUsesFreshIV(t *testing.T) {
	engine := NewEngine("test-master-key")
	key := engine.DeriveUserKey("user@example.com")

	a, err := engine.Encrypt(key, "same value")
	require.NoError(t, err)
	b, err := engine.Encrypt(key, "same value")
	require.NoError(t, err)

	assert.NotEqual(t, a.IV, b.IV, "nonce must be fresh per call")
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestDecryptFailsClosed(t *testing.T) {
	engine := NewEngine("test-master-key")
	key := engine.DeriveUserKey("user@example.com")

	field, err := engine.Encrypt(key, "sensitive subject line")
	require.NoError(t, err)

	flipBit := func(hexStr string) string {
		raw, err := hex.DecodeString(hexStr)
		require.NoError(t, err)
		raw[0] ^= 0x01
		return hex.EncodeToString(raw)
	}

	tests := []struct {
		name   string
		mutate func(f EncryptedField) EncryptedField
	}{
		{
			name: "tampered ciphertext",
			mutate: func(f EncryptedField) EncryptedField {
				f.Ciphertext = flipBit(f.Ciphertext)
				return f
			},
		},
		{
			name: "tampered iv",
			mutate: func(f EncryptedField) EncryptedField {
				f.IV = flipBit(f.IV)
				return f
			},
		},
		{
			name: "tampered auth tag",
			mutate: func(f EncryptedField) EncryptedField {
				f.AuthTag = flipBit(f.AuthTag)
				return f
			},
		},
		{
			name: "malformed hex",
			mutate: func(f EncryptedField) EncryptedField {
				f.Ciphertext = "not-hex"
				return f
			},
		},
		{
			name: "truncated iv",
			mutate: func(f EncryptedField) EncryptedField {
				f.IV = f.IV[:8]
				return f
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutated := tt.mutate(*field)
			plaintext, err := engine.Decrypt(key, &mutated)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
			assert.Empty(t, plaintext, "no partial plaintext on failure")
		})
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	engine := NewEngine("test-master-key")

	field, err := engine.Encrypt(engine.DeriveUserKey("user@example.com"), "secret")
	require.NoError(t, err)

	_, err = engine.Decrypt(engine.DeriveUserKey("other@example.com"), field)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}
