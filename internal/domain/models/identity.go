package models

import "time"

// IdentityClaim is the payload a client submits at sign-in. It is signed
// verbatim; only Email is read back by the server.
type IdentityClaim map[string]any

// Email returns the "email" field when it is a string.
func (c IdentityClaim) Email() string {
	email, _ := c["email"].(string)
	return email
}

// Identity is the decoded content of a verified token.
type Identity struct {
	Claim     IdentityClaim
	IssuedAt  time.Time
	ExpiresAt time.Time
}
