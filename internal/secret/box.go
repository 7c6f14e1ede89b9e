// Package secret seals and opens small credential strings for storage
// at rest. Used for uploaded LeetCode session cookies, which must never
// be persisted in plaintext.
package secret

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// sealVersion prefixes every sealed value so the format can evolve.
const sealVersion = "v1"

var (
	// ErrInvalidKey indicates the seal key has the wrong length.
	ErrInvalidKey = errors.New("seal key must be 32 bytes")
	// ErrMalformed indicates the sealed value is not in the expected format.
	ErrMalformed = errors.New("malformed sealed value")
	// ErrOpenFailed indicates the key is wrong or the ciphertext was tampered with.
	ErrOpenFailed = errors.New("cannot open sealed value")
)

// Box seals and opens values with a fixed symmetric key.
type Box struct {
	key []byte
}

// NewBox creates a Box from a 32-byte key.
func NewBox(key []byte) (*Box, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Box{key: k}, nil
}

// Seal encrypts plaintext and returns a compact printable string:
// "v1:" + base64(nonce || ciphertext).
func (b *Box) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.New(b.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), []byte(sealVersion))
	return sealVersion + ":" + base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (b *Box) Open(sealed string) (string, error) {
	version, encoded, found := strings.Cut(sealed, ":")
	if !found || version != sealVersion {
		return "", ErrMalformed
	}

	raw, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrMalformed
	}

	aead, err := chacha20poly1305.New(b.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	if len(raw) < aead.NonceSize() {
		return "", ErrMalformed
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(sealVersion))
	if err != nil {
		return "", ErrOpenFailed
	}

	return string(plaintext), nil
}

// GenerateKey returns a fresh random 32-byte seal key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return key, nil
}
