// Package crypto seals the bearer token before it is handed to the browser
// as a cookie, so the raw backend credential never leaves the gateway.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

// Sealer handles AES-256-GCM sealing of cookie values.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer creates a Sealer from a hex-encoded 32-byte key.
// Returns nil if key is empty (sealing disabled, development only).
func NewSealer(hexKey string) (*Sealer, error) {
	if hexKey == "" {
		return nil, nil
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding hex key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// Seal encrypts the value and returns a cookie-safe base64 string with the
// nonce prepended. A nil Sealer passes the value through unchanged.
func (s *Sealer) Seal(value string) (string, error) {
	if s == nil {
		return value, nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(value), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a sealed cookie value. A nil Sealer passes the value through
// unchanged (assumes unsealed).
func (s *Sealer) Open(sealed string) (string, error) {
	if s == nil {
		return sealed, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decoding base64: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("sealed value too short")
	}

	nonce, box := data[:nonceSize], data[nonceSize:]
	value, err := s.aead.Open(nil, nonce, box, nil)
	if err != nil {
		return "", fmt.Errorf("opening sealed value: %w", err)
	}

	return string(value), nil
}
