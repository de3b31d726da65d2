package alliance

import (
	"crypto/rand"
	"fmt"
)

const (
	keyPrefix   = "ALLY-"
	keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keyLength   = 7
)

// GenerateKey creates fresh alliance key material: a short, human-relayable
// token with a crypto/rand body. The key is only ever shared wrapped, so
// its entropy guards against offline guessing of wrapped copies, not
// against online enumeration.
func GenerateKey() (string, error) {
	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate key material: %w", err)
	}
	out := make([]byte, keyLength)
	for i, b := range buf {
		out[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}
	return keyPrefix + string(out), nil
}
