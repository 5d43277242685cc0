package util

import (
	"crypto/rand"
	"math/big"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ApiTokenLength is the issued token size in characters.
const ApiTokenLength = 60

// GenerateToken returns an opaque random alphanumeric string of n characters.
// Tokens carry no claims; authentication is a plain equality lookup.
func GenerateToken(n int) (string, error) {
	buf := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
