package domain

import "time"

// Role distinguishes the two portal account types.
type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
)

// UserIdentity is the portal account record cached alongside the session.
// The role is immutable after registration from the client's perspective.
type UserIdentity struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Role             Role   `json:"role"`
	Phone            string `json:"phone,omitempty"`
	DateOfBirth      string `json:"date_of_birth,omitempty"`
	Address          string `json:"address,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	EmergencyPhone   string `json:"emergency_phone,omitempty"`
}

// Session holds the credentials of an authenticated user. A session exists
// in the credential store iff the user is considered authenticated.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"` // approximate, decoded from the access token
}

// IsExpired reports whether the access token's decoded expiry has passed.
// Unknown expiry counts as not expired; the server is the authority.
func (s Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
