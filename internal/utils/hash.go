package utils

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashPhoneNumber returns the base64-encoded SHA-256 digest of a raw phone
// number. The portal never stores raw numbers; this digest is the sole lookup
// key for inbound messages, so it must be computed identically on the
// registration and webhook paths.
func HashPhoneNumber(phoneNo string) string {
	sum := sha256.Sum256([]byte(phoneNo))
	return base64.StdEncoding.EncodeToString(sum[:])
}
