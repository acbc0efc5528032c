package engagement

import "context"

// Flags are the engagement features turned on for the site
type Flags struct {
	Likes         bool `json:"likes"`
	Comments      bool `json:"comments"`
	Subscriptions bool `json:"subscriptions"`
	WatchHistory  bool `json:"watch_history"`
}

// Snapshot is everything a page needs to render a post's engagement controls
type Snapshot struct {
	PostID       uint64    `json:"post_id"`
	Enabled      Flags     `json:"enabled"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	UserLiked    bool      `json:"user_liked"`
	WatchCount   int64     `json:"watch_count"`
	Progress     *Progress `json:"progress,omitempty"`
}

// Flags returns the configured feature flags
func (s *Service) Flags() Flags {
	return Flags{
		Likes:         s.cfg.EnableLikes,
		Comments:      s.cfg.EnableComments,
		Subscriptions: s.cfg.EnableSubscriptions,
		WatchHistory:  s.cfg.EnableWatchHistory,
	}
}

// GetPostEngagement composes counts and the viewer's own state for postID.
// Disabled features are left at their zero values.
func (s *Service) GetPostEngagement(ctx context.Context, postID, userID uint64) (*Snapshot, error) {
	snap := &Snapshot{PostID: postID, Enabled: s.Flags()}

	if snap.Enabled.Likes {
		count, err := s.GetLikeCount(ctx, postID)
		if err != nil {
			return nil, err
		}
		liked, err := s.UserHasLiked(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		snap.LikeCount = count
		snap.UserLiked = liked
	}

	if snap.Enabled.Comments {
		count, err := s.GetCommentCount(ctx, postID)
		if err != nil {
			return nil, err
		}
		snap.CommentCount = count
	}

	if snap.Enabled.WatchHistory {
		progress, err := s.GetProgress(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		watched, err := s.WatchCount(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		snap.Progress = progress
		snap.WatchCount = watched
	}

	return snap, nil
}
