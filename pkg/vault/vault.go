// Package vault seals private journal content with a key derived from a
// user-supplied passphrase (Argon2id) and authenticated encryption (AES-GCM).
// The passphrase is never stored; losing it loses the content.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Cipher names the scheme in JournalEntry.Cipher.
const Cipher = "aes-gcm+argon2id"

// KeySize is the length of keys returned by DeriveKey.
const KeySize = 32

const (
	saltSize  = 16
	nonceSize = 12
)

var (
	ErrWrongPassphrase = errors.New("wrong passphrase")
	ErrEmptyPassphrase = errors.New("passphrase is required")
	ErrCorrupt         = errors.New("sealed content is corrupt")
)

// Params are the Argon2id cost parameters.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultParams match the RFC 9106 second recommended option.
var DefaultParams = Params{Time: 1, Memory: 64 * 1024, Threads: 4}

// Validate rejects parameters that argon2 cannot run with.
func (p Params) Validate() error {
	switch {
	case p.Time < 1:
		return fmt.Errorf("argon2 time must be at least 1, got %d", p.Time)
	case p.Threads < 1:
		return fmt.Errorf("argon2 threads must be at least 1, got %d", p.Threads)
	case p.Memory < 1:
		return fmt.Errorf("argon2 memory must be at least 1 KiB, got %d", p.Memory)
	}
	return nil
}

// DeriveKey stretches secret and salt into a 32-byte key.
func DeriveKey(secret, salt []byte, p Params) []byte {
	return argon2.IDKey(secret, salt, p.Time, p.Memory, p.Threads, KeySize)
}

// NewSalt returns n random bytes.
func NewSalt(n int) ([]byte, error) {
	salt := make([]byte, n)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to read random salt: %w", err)
	}
	return salt, nil
}

// Vault seals and opens text with fixed KDF parameters.
type Vault struct {
	params Params
}

func New(p Params) *Vault {
	return &Vault{params: p}
}

// Seal encrypts plaintext under passphrase. The result is base64 of
// salt || nonce || ciphertext.
func (v *Vault) Seal(passphrase, plaintext string) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}

	salt, err := NewSalt(saltSize)
	if err != nil {
		return "", err
	}
	aead, err := newAEAD(DeriveKey([]byte(passphrase), salt, v.params))
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to read random nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. A passphrase that does not authenticate the content
// returns ErrWrongPassphrase.
func (v *Vault) Open(passphrase, sealed string) (string, error) {
	if passphrase == "" {
		return "", ErrEmptyPassphrase
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(raw) < saltSize+nonceSize {
		return "", fmt.Errorf("%w: %d bytes is too short", ErrCorrupt, len(raw))
	}

	salt, nonce, ciphertext := raw[:saltSize], raw[saltSize:saltSize+nonceSize], raw[saltSize+nonceSize:]
	aead, err := newAEAD(DeriveKey([]byte(passphrase), salt, v.params))
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plaintext), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// DecodeLegacy reads content stored by the old app, which only base64
// encoded private entries.
func DecodeLegacy(content string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return string(raw), nil
}
