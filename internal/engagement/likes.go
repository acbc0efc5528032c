package engagement

import (
	"context"
	"errors"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// LikeResult is the state after a toggle
type LikeResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// ToggleLike unlikes the post if userID liked it, otherwise likes it. A
// concurrent like that wins the race leaves the post liked and is not an
// error. The returned count is read fresh after invalidation.
func (s *Service) ToggleLike(ctx context.Context, userID, postID uint64) (result *LikeResult, err error) {
	if userID == 0 || postID == 0 {
		return nil, ErrValidation
	}

	ctx, span := telemetry.StartEngagementSpan(ctx, "like.toggle", userID, postID, "post")
	defer func() {
		if result != nil {
			telemetry.EndSpan(span, err, attribute.Bool("engagement.liked", result.Liked))
			return
		}
		telemetry.EndSpan(span, err)
	}()

	removed, err := s.store.DeleteLike(ctx, userID, postID)
	if err != nil {
		return nil, storeFailure("delete_like", err, logger.WithUserID(userID), logger.WithPostID(postID))
	}

	liked := !removed
	if liked {
		err := s.store.InsertLike(ctx, &models.Like{UserID: userID, PostID: postID, CreatedAt: s.now()})
		if err != nil && !errors.Is(err, store.ErrDuplicate) {
			return nil, storeFailure("insert_like", err, logger.WithUserID(userID), logger.WithPostID(postID))
		}
	}

	s.invalidate(ctx, likeCountKey, postID)

	count, err := s.GetLikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	outcome := "unliked"
	if liked {
		outcome = "liked"
	}
	metrics.RecordEngagement("like", outcome)

	return &LikeResult{Liked: liked, Count: count}, nil
}

// GetLikeCount returns the number of likes on postID, 0 when there are none
func (s *Service) GetLikeCount(ctx context.Context, postID uint64) (int64, error) {
	n, err := s.cachedCount(ctx, likeCountKey, postID, func() (int64, error) {
		return s.store.CountLikes(ctx, postID)
	})
	if err != nil {
		return 0, storeFailure("count_likes", err, logger.WithPostID(postID))
	}
	return n, nil
}

// UserHasLiked reports whether userID liked postID. Anonymous viewers
// (userID 0) never have.
func (s *Service) UserHasLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	liked, err := s.store.LikeExists(ctx, userID, postID)
	if err != nil {
		return false, storeFailure("like_exists", err, logger.WithUserID(userID), logger.WithPostID(postID))
	}
	return liked, nil
}
