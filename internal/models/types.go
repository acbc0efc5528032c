package models

import (
	"database/sql/driver"
	"strings"
)

// Unprefixed table names. Every repository qualifies them with the
// configured table prefix before use.
const (
	TableLikes            = "likes"
	TableComments         = "comments"
	TableSubscriptions    = "subscriptions"
	TableWatchHistory     = "watch_history"
	TablePlaybackProgress = "playback_progress"
	TableUsers            = "users"
	TableMediaItems       = "media_items"
	TableTerms            = "terms"
	TableMemberships      = "memberships"
	TableEngagementMeta   = "engagement_meta"
)

// StringArray stores a list of strings as "{a,b,c}" in a text column so the
// same schema works on postgres and sqlite
type StringArray []string

// Scan implements the sql.Scanner interface for reading from database
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	str, ok := value.(string)
	if !ok {
		if bytes, ok := value.([]byte); ok {
			str = string(bytes)
		} else {
			*a = nil
			return nil
		}
	}

	str = strings.TrimPrefix(str, "{")
	str = strings.TrimSuffix(str, "}")

	if str == "" {
		*a = []string{}
		return nil
	}

	// Values never contain commas: they are membership level slugs
	*a = strings.Split(str, ",")
	return nil
}

// Value implements the driver.Valuer interface for writing to database
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	if len(a) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}
