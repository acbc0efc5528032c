package models

import "time"

// MembershipStatus is the lifecycle state of a membership
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipExpired   MembershipStatus = "expired"
	MembershipCancelled MembershipStatus = "cancelled"
)

// Membership grants a user a level until it expires or is cancelled
type Membership struct {
	ID        uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64           `gorm:"not null" json:"user_id"`
	Level     string           `gorm:"size:64;not null" json:"level"`
	Status    MembershipStatus `gorm:"size:20;not null;default:active" json:"status"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"` // nil never expires

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActiveAt reports whether the membership grants access at t
func (m *Membership) IsActiveAt(t time.Time) bool {
	if m.Status != MembershipActive {
		return false
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(t)
}
