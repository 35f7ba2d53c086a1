// Package secrets encrypts provider API keys at rest with AES-256-GCM. Every
// write draws a fresh 12-byte nonce; ciphertext and nonce are stored
// base64-encoded next to each other in ai_service_settings.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32
	nonceSize = 12
	hkdfInfo  = "sparky/ai-service-settings/api-key"
)

// DecryptionError reports that a stored ciphertext, IV and the process key do
// not fit together. The underlying cause is kept for logs only.
type DecryptionError struct {
	Reason string
	Err    error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return "decrypt api key: " + e.Reason + ": " + e.Err.Error()
	}
	return "decrypt api key: " + e.Reason
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// Cipher seals and opens API keys with one process-wide key.
type Cipher struct {
	aead cipher.AEAD
}

// KeyFromSecret turns the configured secret into a 256-bit key. A base64 or
// hex encoding of exactly 32 bytes is used as is; any other string is
// stretched with HKDF-SHA256.
func KeyFromSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("encryption secret is empty")
	}
	if b, err := base64.StdEncoding.DecodeString(secret); err == nil && len(b) == keySize {
		return b, nil
	}
	if b, err := hex.DecodeString(secret); err == nil && len(b) == keySize {
		return b, nil
	}
	key := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

// New builds a Cipher from the configured secret.
func New(secret string) (*Cipher, error) {
	key, err := KeyFromSecret(secret)
	if err != nil {
		return nil, err
	}
	return NewWithKey(key)
}

// NewWithKey builds a Cipher from a raw 32-byte key.
func NewWithKey(key []byte) (*Cipher, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plain under a fresh random nonce and returns the base64
// ciphertext (with GCM tag) and base64 nonce.
func (c *Cipher) Encrypt(plain string) (ciphertext, iv string, err error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", "", fmt.Errorf("generate iv: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), base64.StdEncoding.EncodeToString(nonce), nil
}

// Decrypt opens a value produced by Encrypt. Any mismatch yields a
// *DecryptionError.
func (c *Cipher) Decrypt(ciphertext, iv string) (string, error) {
	if ciphertext == "" || iv == "" {
		return "", &DecryptionError{Reason: "missing ciphertext or iv"}
	}
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", &DecryptionError{Reason: "ciphertext is not base64", Err: err}
	}
	nonce, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return "", &DecryptionError{Reason: "iv is not base64", Err: err}
	}
	if len(nonce) != nonceSize {
		return "", &DecryptionError{Reason: fmt.Sprintf("iv must be %d bytes, got %d", nonceSize, len(nonce))}
	}
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", &DecryptionError{Reason: "authentication failed", Err: err}
	}
	return string(plain), nil
}
