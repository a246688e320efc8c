// Package shortid generates the short URL-safe identifiers used to
// address clipboards.
package shortid

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the 64-symbol URL-safe character set identifiers are drawn from.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// Length is the number of characters in a clipboard identifier.
const Length = 6

// New returns a random identifier of Length characters drawn from Alphabet.
// Uniqueness is probabilistic only; the store's conditional insert is the
// authority on collisions.
func New() (string, error) {
	id := make([]byte, Length)
	for i := range id {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(Alphabet))))
		if err != nil {
			return "", fmt.Errorf("shortid: %w", err)
		}
		id[i] = Alphabet[n.Int64()]
	}
	return string(id), nil
}

// Valid reports whether s has the shape of a generated identifier:
// exactly Length characters, all from Alphabet.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet(s[i]) {
			return false
		}
	}
	return true
}

func inAlphabet(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
