package models

import "time"

// MediaStatus is the publication status of a media item
type MediaStatus string

const (
	MediaStatusPublish MediaStatus = "publish"
	MediaStatusDraft   MediaStatus = "draft"
	MediaStatusPrivate MediaStatus = "private"
)

// MediaItem is an audio or video entry in the library
type MediaItem struct {
	ID               uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title            string      `gorm:"size:255;not null" json:"title"`
	Status           MediaStatus `gorm:"size:20;not null;default:publish" json:"status"`
	DurationSeconds  int64       `gorm:"not null;default:0" json:"duration_seconds"`
	PasswordHash     string      `gorm:"type:text" json:"-"`
	MembershipLevels StringArray `gorm:"type:text" json:"membership_levels"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPasswordProtected reports whether viewers must unlock the item first
func (m *MediaItem) IsPasswordProtected() bool {
	return m.PasswordHash != ""
}

// Taxonomies a term can belong to
const (
	TaxonomySeries   = "media_series"
	TaxonomyTeacher  = "media_teacher"
	TaxonomyTopic    = "media_topic"
	TaxonomyCategory = "media_category"
)

// Term is a taxonomy value such as a teacher, topic, or playlist
type Term struct {
	ID               uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Taxonomy         string      `gorm:"size:32;not null" json:"taxonomy"`
	Name             string      `gorm:"size:200;not null" json:"name"`
	Slug             string      `gorm:"size:200;not null" json:"slug"`
	PasswordHash     string      `gorm:"type:text" json:"-"`
	MembershipLevels StringArray `gorm:"type:text" json:"membership_levels"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPlaylist reports whether the term is a playlist (series)
func (t *Term) IsPlaylist() bool {
	return t.Taxonomy == TaxonomySeries
}

// IsPasswordProtected reports whether viewers must unlock the term first
func (t *Term) IsPasswordProtected() bool {
	return t.PasswordHash != ""
}
