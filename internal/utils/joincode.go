package utils

import (
	"crypto/rand"
	"math/big"
)

// joinCodeAlphabet excludes easily-confused characters (0/O, 1/I/L).
const joinCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// JoinCodeLength is the length of generated family join codes.
const JoinCodeLength = 6

// GenerateJoinCode produces a short shareable code for joining a family.
// Uniqueness is the caller's responsibility; this only guarantees randomness.
func GenerateJoinCode() (string, error) {
	code := make([]byte, JoinCodeLength)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
