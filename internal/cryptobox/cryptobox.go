// Package cryptobox implements the symmetric envelope cipher and the blind
// hash label used throughout the alliance data path. Everything here is a
// pure function over its inputs; no state is retained between calls.
//
// Ciphertext format: base64( nonce || ChaCha20-Poly1305(envelope JSON) ),
// with the cipher key derived as SHA-256 of the passphrase. Decryption under
// a wrong key fails AEAD authentication, which is what gives callers the
// "wrong key yields nothing, with overwhelming probability" guarantee.
package cryptobox

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrMissingInput is returned when payload, ciphertext, or key is empty.
	ErrMissingInput = errors.New("cryptobox: missing payload or key")
	// ErrUndecryptable covers every decrypt failure: wrong key, truncated or
	// corrupted ciphertext, malformed envelope. Batch callers drop the row
	// silently; retrying against the same data can never succeed.
	ErrUndecryptable = errors.New("cryptobox: undecryptable")
)

// envelope binds the payload to its creation time so every sealed record
// carries a timestamp without the caller threading one through.
type envelope struct {
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"created_at"`
}

// Seal serializes payload into a timestamped envelope and encrypts it under
// key. The timestamp is Unix milliseconds at call time.
func Seal(payload any, key string, nowMillis int64) (string, error) {
	if payload == nil || key == "" {
		return "", ErrMissingInput
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("cryptobox: marshal payload: %w", err)
	}
	plain, err := json.Marshal(envelope{Payload: raw, CreatedAt: nowMillis})
	if err != nil {
		return "", fmt.Errorf("cryptobox: marshal envelope: %w", err)
	}

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cryptobox: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plain, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts ciphertext under key and unmarshals the envelope payload
// into out. It returns the envelope creation time alongside. All failure
// modes collapse to ErrUndecryptable so callers cannot distinguish a wrong
// key from a corrupted row — both mean "drop it".
func Open(ciphertext, key string, out any) (int64, error) {
	if ciphertext == "" || key == "" {
		return 0, ErrMissingInput
	}
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return 0, ErrUndecryptable
	}
	aead, err := newAEAD(key)
	if err != nil {
		return 0, err
	}
	if len(sealed) < aead.NonceSize() {
		return 0, ErrUndecryptable
	}
	nonce, body := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, body, nil)
	if err != nil {
		return 0, ErrUndecryptable
	}
	var env envelope
	if err := json.Unmarshal(plain, &env); err != nil {
		return 0, ErrUndecryptable
	}
	if out != nil {
		if err := json.Unmarshal(env.Payload, out); err != nil {
			return 0, ErrUndecryptable
		}
	}
	return env.CreatedAt, nil
}

// SealString is a convenience for wrapping a bare string secret, used for
// password- and identity-wrapping of alliance key material.
func SealString(value, key string, nowMillis int64) (string, error) {
	if value == "" {
		return "", ErrMissingInput
	}
	return Seal(value, key, nowMillis)
}

// OpenString unwraps a string sealed with SealString. Returns "" plus
// ErrUndecryptable on any failure.
func OpenString(ciphertext, key string) (string, error) {
	var value string
	if _, err := Open(ciphertext, key, &value); err != nil {
		return "", err
	}
	return value, nil
}

// HashLabel computes the deterministic blind-index label for identifier
// under key: hex SHA-256 of the concatenation. Unsalted on purpose — the
// store performs equality lookups on the label, so the same inputs must
// always produce the same output. Returns "" when either input is missing.
func HashLabel(identifier, key string) string {
	if identifier == "" || key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(identifier + key))
	return hex.EncodeToString(sum[:])
}

func newAEAD(key string) (cipher.AEAD, error) {
	derived := sha256.Sum256([]byte(key))
	c, err := chacha20poly1305.New(derived[:])
	if err != nil {
		return nil, fmt.Errorf("cryptobox: cipher init: %w", err)
	}
	return c, nil
}
