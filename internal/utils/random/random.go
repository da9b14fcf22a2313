// Package random provides crypto/rand backed generators for tokens, salts
// and verification codes.
package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// Bytes generates random bytes of the given length.
func Bytes(length int) ([]byte, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// Hex generates a random hex string of the given length. Length must be even.
func Hex(length int) (string, error) {
	b, err := Bytes(length / 2)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Int generates a uniform random integer in [min, max].
func Int(min, max int64) (int64, error) {
	if min > max {
		return 0, fmt.Errorf("min cannot be greater than max")
	}
	if min == max {
		return min, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random int: %w", err)
	}
	return n.Int64() + min, nil
}

// NumericCode generates a code of exactly `digits` digits with a non-zero
// leading digit, drawn uniformly. digits=6 yields [100000, 999999].
func NumericCode(digits int) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("digits must be positive")
	}
	min := int64(1)
	for i := 1; i < digits; i++ {
		min *= 10
	}
	max := min*10 - 1
	n, err := Int(min, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n), nil
}
