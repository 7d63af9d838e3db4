package model

import "time"

// User is an account record. Password holds the Argon2id hash and is only
// serialized inside full backups; every API-facing path goes through Sanitized.
type User struct {
	Email             string    `json:"email"`
	Password          string    `json:"password,omitempty"`
	Name              string    `json:"name"`
	Company           string    `json:"company,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	ProfileComplete   bool      `json:"profileComplete"`
	PortfolioSlug     string    `json:"portfolioSlug,omitempty"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	Website           string    `json:"website,omitempty"`
	Instagram         string    `json:"instagram,omitempty"`
	Twitter           string    `json:"twitter,omitempty"`
	CreatedAt         time.Time `json:"createdAt,omitzero"`
}

// Sanitized returns a copy of the user with the password hash stripped.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// UserPatch is a partial user update. Nil fields are left untouched.
type UserPatch struct {
	Password          *string
	Name              *string
	Company           *string
	Phone             *string
	ProfileComplete   *bool
	PortfolioSlug     *string
	ProfilePictureURL *string
	Bio               *string
	Website           *string
	Instagram         *string
	Twitter           *string
}

// IsZero reports whether the patch changes nothing.
func (p UserPatch) IsZero() bool {
	return p.Password == nil && p.Name == nil && p.Company == nil &&
		p.Phone == nil && p.ProfileComplete == nil && p.PortfolioSlug == nil &&
		p.ProfilePictureURL == nil && p.Bio == nil && p.Website == nil &&
		p.Instagram == nil && p.Twitter == nil
}

// Apply merges the patch into the user record.
func (p UserPatch) Apply(u *User) {
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Company != nil {
		u.Company = *p.Company
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.ProfileComplete != nil {
		u.ProfileComplete = *p.ProfileComplete
	}
	if p.PortfolioSlug != nil {
		u.PortfolioSlug = *p.PortfolioSlug
	}
	if p.ProfilePictureURL != nil {
		u.ProfilePictureURL = *p.ProfilePictureURL
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.Instagram != nil {
		u.Instagram = *p.Instagram
	}
	if p.Twitter != nil {
		u.Twitter = *p.Twitter
	}
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the payload for a credential change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ProfileUpdate carries the profile fields a user may edit. Email is
// immutable and the password has its own flow.
type ProfileUpdate struct {
	Name              string `json:"name"`
	Company           string `json:"company"`
	Phone             string `json:"phone"`
	PortfolioSlug     string `json:"portfolioSlug"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	Bio               string `json:"bio"`
	Website           string `json:"website"`
	Instagram         string `json:"instagram"`
	Twitter           string `json:"twitter"`
}

// AuthResponse is returned after login, registration, and profile updates
// that re-issue the session token.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
