package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents one pre-provisioned participant row. Accounts are seeded
// at startup by clinicians and are never created or destroyed afterwards; only
// the optional fields move between unset ("") and set.
//
// Password is stored in the clear because this is a demo. NEVER SAVE PASSWORDS
// IN THE CLEAR. Use a cryptographic hash like argon2 or bcrypt (see the
// CredentialChecker in services for the swap point).
type Account struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Username          string             `bson:"username" json:"username"`
	Password          string             `bson:"password,omitempty" json:"-"`
	PhoneHash         string             `bson:"phone_hash,omitempty" json:"-"`
	Verified          bool               `bson:"verified" json:"verified"`
	ResetToken        string             `bson:"reset_token,omitempty" json:"-"`
	VerificationToken string             `bson:"verification_token,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// Registered reports whether the account has completed registration, i.e. a
// password has been set. Unregistered accounts cannot log in and cannot be
// verified yet.
func (a *Account) Registered() bool {
	return a.Password != ""
}
