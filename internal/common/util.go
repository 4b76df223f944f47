package common

import "crypto/rand"

// GenerateRandByteArray returns size cryptographically random bytes.
// It panics if the system random source fails, which is not recoverable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// Useful for removing sensitive data such as passwords or key material from
// memory after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
