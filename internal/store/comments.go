package store

import (
	"context"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
)

// CommentRow is a comment joined with its author
type CommentRow struct {
	models.Comment
	AuthorLogin string
	AuthorName  string
	AuthorEmail string
}

// InsertComment inserts c and fills in its ID
func (s *Store) InsertComment(ctx context.Context, c *models.Comment) error {
	return translate(s.table(ctx, models.TableComments).Create(c).Error)
}

// FindComment loads a comment by ID
func (s *Store) FindComment(ctx context.Context, id uint64) (*models.Comment, error) {
	var c models.Comment
	if err := s.table(ctx, models.TableComments).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListComments returns the comments on postID with the given status, newest
// first, joined with author details
func (s *Store) ListComments(ctx context.Context, postID uint64, status models.CommentStatus, limit, offset int) ([]CommentRow, error) {
	var rows []CommentRow
	err := s.db.WithContext(ctx).
		Table(s.Table(models.TableComments)+" AS c").
		Select("c.*, u.login AS author_login, u.display_name AS author_name, u.email AS author_email").
		Joins("LEFT JOIN "+s.Table(models.TableUsers)+" AS u ON u.id = c.user_id").
		Where("c.post_id = ? AND c.status = ?", postID, status).
		Order("c.created_at DESC, c.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, translate(err)
}

// CountComments returns how many comments on postID have the given status
func (s *Store) CountComments(ctx context.Context, postID uint64, status models.CommentStatus) (int64, error) {
	var n int64
	err := s.table(ctx, models.TableComments).
		Where("post_id = ? AND status = ?", postID, status).
		Count(&n).Error
	return n, translate(err)
}

// DeleteComment removes a comment and reports whether a row was removed.
// Replies are left in place.
func (s *Store) DeleteComment(ctx context.Context, id uint64) (bool, error) {
	res := s.table(ctx, models.TableComments).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateCommentStatus changes a comment's status in place
func (s *Store) UpdateCommentStatus(ctx context.Context, id uint64, status models.CommentStatus, now time.Time) (bool, error) {
	res := s.table(ctx, models.TableComments).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}
