package crypto

import (
	"golang.org/x/crypto/argon2"
)

// DeriveKey derives a 32-byte signing key from a master secret and salt
// using Argon2id (1 iteration, 64MB memory, 4 threads)
func DeriveKey(masterSecret string, salt []byte) []byte {
	return argon2.IDKey([]byte(masterSecret), salt, 1, 64*1024, 4, 32)
}

// NewSessionSigner derives the cookie signing key from the configured
// session secret and salt.
func NewSessionSigner(sessionSecret, salt string) *HMACHasher {
	return NewHMAC(DeriveKey(sessionSecret, []byte(salt)))
}
