// Package cryptox wraps the small amount of cryptography the client vault
// needs: argon2id key derivation and AES-256-GCM sealing of byte payloads.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// ErrDecryptionFailed is returned when a ciphertext cannot be opened with the
// provided key, typically because the key (or the passcode behind it) is wrong.
var ErrDecryptionFailed = errors.New("decryption failed")

// DeriveKey derives a 256-bit key from a passcode and salt using argon2id.
func DeriveKey(passcode []byte, salt []byte) []byte {
	return idKey(passcode, salt)
}

// Encrypt seals plaintext with AES-256-GCM under key. A fresh random 12-byte
// nonce is generated per call and returned alongside the ciphertext.
func Encrypt(plaintext []byte, key []byte) (ciphertext, nonce []byte, err error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt opens an AES-256-GCM ciphertext produced by Encrypt.
// A wrong key yields ErrDecryptionFailed rather than garbage output.
func Decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
