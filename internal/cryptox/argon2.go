package cryptox

import "golang.org/x/crypto/argon2"

// argon2id parameters: 1 pass, 64 MiB, 4 lanes. Matches the server-side
// password hashing cost so a stolen vault file is no cheaper to brute-force
// than a stolen password hash.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

func idKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, KeySize)
}
