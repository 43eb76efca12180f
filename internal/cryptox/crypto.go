// Package cryptox holds the hashing used for secrets kept at rest.
package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 digest of token. Refresh tokens are
// stored and looked up by this digest only, so a leaked table cannot be
// replayed.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
