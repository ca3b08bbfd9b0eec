package provider

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// Credentials is an opaque, in-memory-sealed byte string (spec.md §6:
// "opaque byte strings / structured records per provider ... passed
// through unchanged"). It is never written to disk; sealing exists so a
// Provider can hold a passphrase-derived key in memory without keeping
// the plaintext token around between initialize calls.
//
// Grounded on perplext-LLMrecon's CredentialStore (src/auth/credential_store.go):
// the same scrypt-then-AES-GCM construction, with the on-disk
// persistence layer dropped since spec.md §6 states the core is
// memory-only and owns no on-disk formats.
type Credentials struct {
	nonce      []byte
	ciphertext []byte
}

// SealCredentials derives a key from passphrase via scrypt and encrypts
// plaintext with AES-GCM. The returned Credentials holds only nonce and
// ciphertext; the derived key is never retained.
func SealCredentials(passphrase string, salt []byte, plaintext []byte) (Credentials, error) {
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return Credentials{}, fmt.Errorf("provider: derive credential key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return Credentials{}, fmt.Errorf("provider: init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return Credentials{}, fmt.Errorf("provider: init gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return Credentials{}, fmt.Errorf("provider: generate nonce: %w", err)
	}
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	return Credentials{nonce: nonce, ciphertext: ciphertext}, nil
}

// Open reverses SealCredentials given the same passphrase and salt.
func (c Credentials) Open(passphrase string, salt []byte) ([]byte, error) {
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("provider: derive credential key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("provider: init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("provider: init gcm: %w", err)
	}
	plaintext, err := gcm.Open(nil, c.nonce, c.ciphertext, nil)
	if err != nil {
		return nil, ErrProviderUnauthorized{Detail: "credential unseal failed"}
	}
	return plaintext, nil
}

// IsZero reports whether no credentials were ever sealed.
func (c Credentials) IsZero() bool {
	return len(c.ciphertext) == 0
}

func deriveKey(passphrase string, salt []byte) ([]byte, error) {
	return scrypt.Key([]byte(passphrase), salt, 32768, 8, 1, 32)
}
