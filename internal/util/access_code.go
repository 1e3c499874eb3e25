package util

import (
	"crypto/rand"
	"math/big"
)

const accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateAccessCode : random code of length characters from an alphabet without look-alike symbols.
// Uniqueness is enforced by the access_codes primary key, callers retry on collision.
func GenerateAccessCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	limit := big.NewInt(int64(len(accessCodeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", LogError("[util] access code generation failed", err)
		}
		code[i] = accessCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}
