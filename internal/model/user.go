package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ClaimAdmin is the custom claim marking a user as an administrator.
const ClaimAdmin = "admin"

// User represents an account holder. ConsentToEmails has three logical
// states: true, false, and unset (nil) — only an explicit true opts the user
// into promotional email.
type User struct {
	ID              bson.ObjectID  `bson:"_id,omitempty"    json:"id"`
	Email           string         `bson:"email"            json:"email"`
	PasswordHash    string         `bson:"password_hash"    json:"-"`
	ConsentToEmails *bool          `bson:"consent_to_emails,omitempty" json:"consentToEmails,omitempty"`
	CustomClaims    map[string]any `bson:"custom_claims,omitempty"     json:"-"`
	CreatedAt       time.Time      `bson:"created_at"       json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updated_at"       json:"updatedAt"`
}

// IsAdmin reports whether the user's custom claims carry the admin claim.
func (u *User) IsAdmin() bool {
	if u.CustomClaims == nil {
		return false
	}
	admin, ok := u.CustomClaims[ClaimAdmin].(bool)
	return ok && admin
}
