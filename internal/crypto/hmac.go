package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HMACHasher signs session cookie payloads.
type HMACHasher struct {
	key []byte
}

func NewHMAC(key []byte) *HMACHasher {
	return &HMACHasher{key: key}
}

func (h *HMACHasher) Hash(plaintext string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the hex HMAC of plaintext, in constant time.
func (h *HMACHasher) Verify(plaintext, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(h.Hash(plaintext)))
}
