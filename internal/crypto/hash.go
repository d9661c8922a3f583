package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short printable digest of a key.
// Client and server log it so a secret mismatch is visible without printing the key.
func Fingerprint(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	hash := sha256.Sum256(key)
	return hex.EncodeToString(hash[:8])
}
