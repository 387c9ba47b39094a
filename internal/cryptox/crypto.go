// Package cryptox holds the crypto primitives used to protect locally cached
// credentials: argon2id key derivation and AES-GCM sealing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
)

// ErrCiphertextTooShort is returned by Open when the input cannot contain
// a nonce and at least an empty GCM payload.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

const nonceSize = 12

// DeriveKey derives a 32-byte AES-256 key from secret and salt using
// argon2id (t=1, m=64MiB, p=4).
func DeriveKey(secret []byte, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// Seal encrypts plaintext with AES-GCM under key and returns
// nonce||ciphertext. A fresh random 12-byte nonce is generated per call.
// The key must be 16, 24, or 32 bytes long.
func Seal(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts data produced by Seal with the same key. It fails if the
// data was tampered with or the key does not match.
func Open(sealed []byte, key []byte) ([]byte, error) {
	if len(sealed) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
