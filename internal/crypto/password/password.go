// Package password generates the shared node password for non-interactive init.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// alphabet avoids characters that need quoting in YAML or shell.
const alphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// MinLength is the shortest password Generate will produce.
const MinLength = 12

// DefaultLength is the length used by kubeprox init.
const DefaultLength = 24

// Generate returns a random password of the given length drawn from alphabet.
func Generate(length int) (string, error) {
	if length < MinLength {
		return "", fmt.Errorf("invalid password length %d: must be at least %d", length, MinLength)
	}

	limit := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}

	return string(buf), nil
}
