package utils

import (
	"crypto/sha256"
)

// Hash message using SHA256
func SHA256(msg []byte) []byte {
	digest := sha256.Sum256(msg)
	return digest[:]
}

// Hash returns the hex encoded SHA256 digest of content, always 64 characters.
func Hash(content []byte) string {
	return BytesToHex(SHA256(content))
}
