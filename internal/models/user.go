package models

import "time"

// User is the account that owns engagement rows. It mirrors the columns of
// the site's user table that comment listings need.
type User struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Login       string `gorm:"size:60;not null" json:"login"`
	DisplayName string `gorm:"size:250;not null" json:"display_name"`
	Email       string `gorm:"size:100;not null" json:"-"`
	IsAdmin     bool   `gorm:"default:false" json:"is_admin"`

	CreatedAt time.Time `json:"created_at"`
}

// Name returns the display name, falling back to the login
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Login
}
