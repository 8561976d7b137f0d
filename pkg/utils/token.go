package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateAccessToken returns a 64-character hex token from 32 random bytes.
// Used as the locally generated gateway access token for a deployment.
func GenerateAccessToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is broken.
		panic("utils: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(b)
}
