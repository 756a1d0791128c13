package models

import "time"

type UserStatus string

const (
	UserStatusCreated  UserStatus = "created"
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// User is a registered account. Password holds the bcrypt hash and, together
// with the confirmation token, is never serialized. Accounts start in the
// created status and only become active once the emailed confirmation token
// is redeemed.
type User struct {
	ID                string     `gorm:"primaryKey" json:"id"`
	Status            UserStatus `json:"status"`
	Name              string     `json:"name"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	Password          string     `json:"-"`
	ConfirmationToken string     `json:"-"`
	Scopes            StringList `gorm:"type:jsonb" json:"scopes"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin scope.
func (u *User) IsAdmin() bool {
	return u.Scopes.Contains("admin")
}
