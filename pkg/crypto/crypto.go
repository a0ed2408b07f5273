package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyLength     = 32 // AES-256
	keyIterations = 100000
	nonceLength   = 12
	tagLength     = 16
)

// ErrDecryptionFailed is returned when the authentication tag does not
// verify: tampered ciphertext, wrong key, or corrupted metadata.
var ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")

// EncryptedField holds the three hex-encoded parts of one AEAD-encrypted
// value. All three are required to decrypt.
type EncryptedField struct {
	Ciphertext string
	IV         string
	AuthTag    string
}

// Engine derives per-user keys from a master secret and encrypts/decrypts
// single string values. It is stateless and never touches storage.
type Engine struct {
	masterKey []byte
}

func NewEngine(masterKey string) *Engine {
	return &Engine{masterKey: []byte(masterKey)}
}

// DeriveUserKey derives a stable 256-bit key for a user. The identifier
// (the user's email) is the salt, so the same identifier always yields the
// same key. No per-user key is ever persisted; it is recomputed per request.
func (e *Engine) DeriveUserKey(identifier string) []byte {
	return pbkdf2.Key(e.masterKey, []byte(identifier), keyIterations, keyLength, sha256.New)
}

// Encrypt encrypts a single value with AES-256-GCM using a fresh random
// nonce per call.
func (e *Engine) Encrypt(key []byte, plaintext string) (*EncryptedField, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	// Seal appends the 16-byte tag to the ciphertext; store them separately.
	ciphertext := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	return &EncryptedField{
		Ciphertext: hex.EncodeToString(ciphertext),
		IV:         hex.EncodeToString(nonce),
		AuthTag:    hex.EncodeToString(tag),
	}, nil
}

// Decrypt reverses Encrypt. It fails closed: any tag mismatch or malformed
// input returns ErrDecryptionFailed, never partial plaintext.
func (e *Engine) Decrypt(key []byte, field *EncryptedField) (string, error) {
	ciphertext, err := hex.DecodeString(field.Ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	nonce, err := hex.DecodeString(field.IV)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	tag, err := hex.DecodeString(field.AuthTag)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(nonce) != nonceLength || len(tag) != tagLength {
		return "", ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	sealed := append(ciphertext, tag...)
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}
