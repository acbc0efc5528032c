package store

import (
	"context"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
)

// InsertLike inserts a like row. A second like for the same user and post
// fails with ErrDuplicate.
func (s *Store) InsertLike(ctx context.Context, like *models.Like) error {
	return translate(s.table(ctx, models.TableLikes).Create(like).Error)
}

// DeleteLike removes the like for (userID, postID) and reports whether a
// row was removed
func (s *Store) DeleteLike(ctx context.Context, userID, postID uint64) (bool, error) {
	res := s.table(ctx, models.TableLikes).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// LikeExists reports whether userID liked postID
func (s *Store) LikeExists(ctx context.Context, userID, postID uint64) (bool, error) {
	var n int64
	err := s.table(ctx, models.TableLikes).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error
	return n > 0, translate(err)
}

// CountLikes returns the number of likes on postID
func (s *Store) CountLikes(ctx context.Context, postID uint64) (int64, error) {
	var n int64
	err := s.table(ctx, models.TableLikes).Where("post_id = ?", postID).Count(&n).Error
	return n, translate(err)
}

// ListLikedPostIDs returns the posts userID liked, most recent first
func (s *Store) ListLikedPostIDs(ctx context.Context, userID uint64, limit int) ([]uint64, error) {
	var ids []uint64
	err := s.table(ctx, models.TableLikes).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Pluck("post_id", &ids).Error
	return ids, translate(err)
}
