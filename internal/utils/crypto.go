package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 digest of a session token. Refresh
// tokens are JWTs, well past bcrypt's 72-byte input limit, so they are
// stored as plain digests; the tokens themselves are high-entropy signed
// blobs, not user-chosen secrets.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

// TokenHashEquals compares a presented token against a stored digest in
// constant time.
func TokenHashEquals(storedHash, token string) bool {
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(HashToken(token))) == 1
}
