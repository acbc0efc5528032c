package models

import "time"

// Like marks that a user liked a post. The row's existence is the state.
type Like struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	PostID    uint64    `gorm:"not null" json:"post_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// CommentStatus gates comment visibility in listings
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
)

// IsValid reports whether s is a known comment status
func (s CommentStatus) IsValid() bool {
	return s == CommentStatusPending || s == CommentStatusApproved
}

// Comment is a threaded comment on a post. ParentID is 0 for top-level comments.
type Comment struct {
	ID        uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64        `gorm:"not null" json:"user_id"`
	PostID    uint64        `gorm:"not null" json:"post_id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Status    CommentStatus `gorm:"size:20;not null;default:pending" json:"status"`
	ParentID  uint64        `gorm:"not null;default:0" json:"parent_id"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

// SubscriptionObjectType is the kind of object a user can follow
type SubscriptionObjectType string

const (
	ObjectPlaylist      SubscriptionObjectType = "playlist"
	ObjectMediaSeries   SubscriptionObjectType = "media_series"
	ObjectMediaTeacher  SubscriptionObjectType = "media_teacher"
	ObjectMediaTopic    SubscriptionObjectType = "media_topic"
	ObjectMediaCategory SubscriptionObjectType = "media_category"
)

// SubscriptionObjectTypes lists every subscribable object type
var SubscriptionObjectTypes = []SubscriptionObjectType{
	ObjectPlaylist,
	ObjectMediaSeries,
	ObjectMediaTeacher,
	ObjectMediaTopic,
	ObjectMediaCategory,
}

// IsValid reports whether t is one of the subscribable object types
func (t SubscriptionObjectType) IsValid() bool {
	for _, known := range SubscriptionObjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Subscription records that a user follows an object
type Subscription struct {
	ID          uint64                 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint64                 `gorm:"not null" json:"user_id"`
	ObjectID    uint64                 `gorm:"not null" json:"object_id"`
	ObjectType  SubscriptionObjectType `gorm:"size:50;not null" json:"object_type"`
	NotifyEmail bool                   `gorm:"not null" json:"notify_email"`
	CreatedAt   time.Time              `gorm:"not null" json:"created_at"`
}

// WatchHistory counts how often a user watched a post
type WatchHistory struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint64    `gorm:"not null" json:"user_id"`
	PostID        uint64    `gorm:"not null" json:"post_id"`
	LastWatchedAt time.Time `gorm:"not null" json:"last_watched_at"`
	WatchCount    int64     `gorm:"not null;default:1" json:"watch_count"`
}

// PlaybackProgress is the latest reported playback position for a user and post
type PlaybackProgress struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint64    `gorm:"not null" json:"user_id"`
	PostID          uint64    `gorm:"not null" json:"post_id"`
	ProgressSeconds int64     `gorm:"not null;default:0" json:"progress_seconds"`
	DurationSeconds int64     `gorm:"not null;default:0" json:"duration_seconds"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// Percent returns progress as a 0-100 value, or 0 when the duration is unknown
func (p *PlaybackProgress) Percent() float64 {
	if p.DurationSeconds <= 0 {
		return 0
	}
	return float64(p.ProgressSeconds) / float64(p.DurationSeconds) * 100
}

// EngagementMeta is a key/value row; it holds the schema version marker
type EngagementMeta struct {
	MetaKey   string `gorm:"primaryKey;size:64"`
	MetaValue string `gorm:"type:text;not null"`
}
