package services

import (
	"crypto/subtle"
	"strings"

	"dermascan/internal/client/models"
)

// MatchCredentials reports whether the submitted identifier/secret pair
// matches the stored record: the identifier against the email
// case-insensitively, the secret against the password byte-for-byte.
//
// The stored password is plaintext, untouched from the original storage
// contract. The constant-time compare avoids leaking the mismatch position;
// it does not make the scheme sound.
func MatchCredentials(identifier, secret string, record models.UserRecord) bool {
	if !strings.EqualFold(identifier, record.Email) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(record.Password)) == 1
}
