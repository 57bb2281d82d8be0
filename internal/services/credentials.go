package services

import (
	"golang.org/x/crypto/bcrypt"
)

// CredentialChecker isolates how passwords are stored and compared so the
// demo's plaintext scheme can be swapped for a real one without touching the
// portal logic.
type CredentialChecker interface {
	// Hash prepares a password for storage.
	Hash(password string) (string, error)
	// Compare reports whether a presented password matches the stored form.
	Compare(stored, presented string) bool
}

// PlaintextChecker stores and compares passwords in the clear. This is the
// default for compatibility with the original demo. NEVER do this outside a
// demo.
type PlaintextChecker struct{}

func (PlaintextChecker) Hash(password string) (string, error) { return password, nil }

func (PlaintextChecker) Compare(stored, presented string) bool { return stored == presented }

// BcryptChecker is the drop-in secure alternative, selected with
// security.password_scheme: bcrypt.
type BcryptChecker struct {
	Cost int
}

func (c BcryptChecker) Hash(password string) (string, error) {
	cost := c.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(out), err
}

func (c BcryptChecker) Compare(stored, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
}
