package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/teaisforme/teataster/internal/common"
	"github.com/teaisforme/teataster/internal/cryptox"
)

const saltSize = 16

// HashPassword derives an argon2id hash of password with a fresh random salt
// and encodes both into a single storable string.
func HashPassword(password string) string {
	salt := common.GenerateRandByteArray(saltSize)
	hash := cryptox.DeriveKey([]byte(password), salt)
	return fmt.Sprintf("argon2id$%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

// VerifyPassword re-derives the hash from password and the stored salt and
// compares in constant time.
func VerifyPassword(password string, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != "argon2id" {
		return false, fmt.Errorf("malformed password hash")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("malformed password salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, fmt.Errorf("malformed password hash: %w", err)
	}

	got := cryptox.DeriveKey([]byte(password), salt)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
