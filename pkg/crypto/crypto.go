package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"math/big"
)

func GenerateRandomString() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

func SHA256(b []byte) string {
	hashed := sha256.Sum256(b)
	return base64.StdEncoding.EncodeToString(hashed[:])
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// RandFloat returns a uniform random value in [0, 1).
func RandFloat() float64 {
	const precision = 1 << 30
	return float64(RandIntn(precision)) / precision
}

// Shuffle rearranges the given slice with an unbiased Fisher-Yates
// permutation backed by crypto/rand.
func Shuffle[T any](items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := RandIntn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
