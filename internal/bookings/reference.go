package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const referenceDigits = 6

var referenceSpace = big.NewInt(1_000_000)

// ReferenceGenerator produces human-readable booking references such as
// BK-123456.
type ReferenceGenerator func() (string, error)

// NewReferenceGenerator returns a generator of prefix plus six random digits.
func NewReferenceGenerator(prefix string) ReferenceGenerator {
	return func() (string, error) {
		n, err := rand.Int(rand.Reader, referenceSpace)
		if err != nil {
			return "", fmt.Errorf("generate reference: %w", err)
		}
		return fmt.Sprintf("%s%0*d", prefix, referenceDigits, n.Int64()), nil
	}
}
