package users

import (
	"github.com/locallink/locallink-backend/pkg/enums"
)

// User is the public view of a marketplace participant.
type User struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        enums.UserRole `json:"role"`
	PhoneNumber *string        `json:"phoneNumber,omitempty"`
	Address     *string        `json:"address,omitempty"`
	Bio         *string        `json:"bio,omitempty"`
}

// Account is a roster entry: a User plus its credential.
type Account struct {
	User
	PasswordHash string `json:"passwordHash"`
}

// ProfilePatch carries the optional profile fields a user may edit.
// Nil fields are left unchanged.
type ProfilePatch struct {
	Name        *string
	PhoneNumber *string
	Address     *string
	Bio         *string
}

// Apply merges p into u and returns the result.
func (p ProfilePatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = stringPtr(*p.PhoneNumber)
	}
	if p.Address != nil {
		u.Address = stringPtr(*p.Address)
	}
	if p.Bio != nil {
		u.Bio = stringPtr(*p.Bio)
	}
	return u
}

func stringPtr(v string) *string {
	return &v
}
