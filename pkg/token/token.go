// Package token generates short random identifiers for credentials, proofs,
// and transactions.
package token

import (
	"crypto/rand"
	"math/big"

	dErrors "vocert/pkg/domain-errors"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Base36 creates a cryptographically random base36 token of the given length.
// Tokens are collision-resistant enough for demo identifiers; they carry no
// structure and no uniqueness guarantee.
func Base36(length int) (string, error) {
	if length <= 0 {
		return "", dErrors.New(dErrors.CodeValidation, "token length must be positive")
	}
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate token")
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// MustBase36 is Base36 for callers that cannot fail (seeding, tests).
// It panics only if the OS entropy source is unavailable.
func MustBase36(length int) string {
	t, err := Base36(length)
	if err != nil {
		panic(err)
	}
	return t
}
