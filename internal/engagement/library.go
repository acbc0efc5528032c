package engagement

import (
	"context"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
)

// Library sections a viewer can browse
const (
	SectionContinue      = "continue"
	SectionHistory       = "history"
	SectionLiked         = "liked"
	SectionSubscriptions = "subscriptions"
)

// LibraryItem is one row of a library section. Which fields are set depends
// on the section.
type LibraryItem struct {
	PostID     uint64                        `json:"post_id,omitempty"`
	ObjectID   uint64                        `json:"object_id,omitempty"`
	ObjectType models.SubscriptionObjectType `json:"object_type,omitempty"`
	WatchCount int64                         `json:"watch_count,omitempty"`
	Progress   *Progress                     `json:"progress,omitempty"`
	At         *time.Time                    `json:"at,omitempty"`
}

// Library is one section of a viewer's personal library
type Library struct {
	Section string        `json:"section"`
	Items   []LibraryItem `json:"items"`
}

// GetLibrary returns one section of userID's library
func (s *Service) GetLibrary(ctx context.Context, userID uint64, section string, limit int) (*Library, error) {
	if userID == 0 {
		return nil, ErrValidation
	}
	limit = clampLimit(limit)
	lib := &Library{Section: section, Items: []LibraryItem{}}

	switch section {
	case SectionContinue:
		progress, err := s.GetContinueWatching(ctx, userID, limit)
		if err != nil {
			return nil, err
		}
		for i := range progress {
			p := progress[i]
			lib.Items = append(lib.Items, LibraryItem{PostID: p.PostID, Progress: &p, At: timePtr(p.UpdatedAt)})
		}

	case SectionHistory:
		rows, err := s.store.ListWatchHistory(ctx, userID, limit)
		if err != nil {
			return nil, storeFailure("list_watch_history", err, logger.WithUserID(userID))
		}
		for _, row := range rows {
			lib.Items = append(lib.Items, LibraryItem{PostID: row.PostID, WatchCount: row.WatchCount, At: timePtr(row.LastWatchedAt)})
		}

	case SectionLiked:
		ids, err := s.store.ListLikedPostIDs(ctx, userID, limit)
		if err != nil {
			return nil, storeFailure("list_liked", err, logger.WithUserID(userID))
		}
		for _, id := range ids {
			lib.Items = append(lib.Items, LibraryItem{PostID: id})
		}

	case SectionSubscriptions:
		subs, err := s.store.ListUserSubscriptions(ctx, userID, limit)
		if err != nil {
			return nil, storeFailure("list_subscriptions", err, logger.WithUserID(userID))
		}
		for _, sub := range subs {
			lib.Items = append(lib.Items, LibraryItem{ObjectID: sub.ObjectID, ObjectType: sub.ObjectType, At: timePtr(sub.CreatedAt)})
		}

	default:
		return nil, ErrInvalidSection
	}

	return lib, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
