package testutil

import (
	"testing"

	"github.com/campusmart/campusmart/internal/crypto"
)

// fixed test key, exactly 32 bytes like a derived signing key
var testSigningKey = []byte("testkey-for-unit-tests-32bytes!!")

// NewTestSigner skips the argon2 derivation to keep tests fast.
func NewTestSigner(t *testing.T) *crypto.HMACHasher {
	t.Helper()
	return crypto.NewHMAC(testSigningKey)
}
