// Package models defines the records persisted by the client: the single
// local user account, analysis history entries, and chat messages.
package models

import "strings"

// UserRecord is the single locally registered account. Email is the identity
// key and is compared case-insensitively everywhere.
//
// Password is stored and compared in plaintext. This mirrors the storage
// contract of the shipped application and is a known, documented weakness;
// see DESIGN.md before changing the persisted shape.
type UserRecord struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OwnerID returns the canonical owner key for history records: the
// lower-cased email.
func (u UserRecord) OwnerID() string {
	return strings.ToLower(u.Email)
}
