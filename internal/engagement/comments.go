package engagement

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// MaxCommentLength bounds comment content in runes
const MaxCommentLength = 5000

const avatarSize = 48

// Actor is whoever asks to change a comment
type Actor struct {
	UserID  uint64
	IsAdmin bool
}

// CommentView is a comment decorated for display
type CommentView struct {
	ID         uint64               `json:"id"`
	PostID     uint64               `json:"post_id"`
	ParentID   uint64               `json:"parent_id"`
	UserID     uint64               `json:"user_id"`
	AuthorName string               `json:"author_name"`
	AvatarURL  string               `json:"avatar_url"`
	Content    string               `json:"content"`
	Status     models.CommentStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	TimeAgo    string               `json:"time_ago"`
}

// DefaultCommentStatus is the status new comments get under the configured
// moderation policy
func (s *Service) DefaultCommentStatus() models.CommentStatus {
	if s.cfg.AutoApproveComments {
		return models.CommentStatusApproved
	}
	return models.CommentStatusPending
}

// AddComment stores a comment with the status chosen by the caller and
// returns its ID
func (s *Service) AddComment(ctx context.Context, userID, postID uint64, content string, parentID uint64, status models.CommentStatus) (uint64, error) {
	content = strings.TrimSpace(content)
	switch {
	case userID == 0 || postID == 0:
		return 0, fmt.Errorf("%w: user and post are required", ErrValidation)
	case content == "":
		return 0, fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	case len([]rune(content)) > MaxCommentLength:
		return 0, fmt.Errorf("%w: comment is too long", ErrValidation)
	case !status.IsValid():
		return 0, fmt.Errorf("%w: unknown comment status %q", ErrValidation, status)
	}

	if parentID != 0 {
		parent, err := s.findComment(ctx, parentID)
		if errors.Is(err, ErrNotFound) || (err == nil && parent.PostID != postID) {
			return 0, fmt.Errorf("%w: parent comment not found", ErrValidation)
		}
		if err != nil {
			return 0, err
		}
	}

	now := s.now()
	comment := &models.Comment{
		UserID:    userID,
		PostID:    postID,
		Content:   content,
		Status:    status,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertComment(ctx, comment); err != nil {
		return 0, storeFailure("insert_comment", err, logger.WithUserID(userID), logger.WithPostID(postID))
	}

	s.invalidate(ctx, commentCountKey, postID)
	metrics.RecordEngagement("comment", string(status))

	return comment.ID, nil
}

// GetComments lists comments on postID with the given status, newest first
func (s *Service) GetComments(ctx context.Context, postID uint64, limit, offset int, status models.CommentStatus) ([]CommentView, error) {
	if limit <= 0 {
		limit = s.cfg.CommentsPerPage
	}
	if offset < 0 {
		offset = 0
	}
	if status == "" {
		status = models.CommentStatusApproved
	}

	rows, err := s.store.ListComments(ctx, postID, status, limit, offset)
	if err != nil {
		return nil, storeFailure("list_comments", err, logger.WithPostID(postID))
	}

	now := s.now()
	views := make([]CommentView, 0, len(rows))
	for _, row := range rows {
		name := row.AuthorName
		if name == "" {
			name = row.AuthorLogin
		}
		views = append(views, CommentView{
			ID:         row.ID,
			PostID:     row.PostID,
			ParentID:   row.ParentID,
			UserID:     row.UserID,
			AuthorName: name,
			AvatarURL:  AvatarURL(row.AuthorEmail, avatarSize),
			Content:    row.Content,
			Status:     row.Status,
			CreatedAt:  row.CreatedAt,
			TimeAgo:    humanize.RelTime(row.CreatedAt, now, "ago", "from now"),
		})
	}
	return views, nil
}

// GetCommentCount returns the number of approved comments on postID
func (s *Service) GetCommentCount(ctx context.Context, postID uint64) (int64, error) {
	n, err := s.cachedCount(ctx, commentCountKey, postID, func() (int64, error) {
		return s.store.CountComments(ctx, postID, models.CommentStatusApproved)
	})
	if err != nil {
		return 0, storeFailure("count_comments", err, logger.WithPostID(postID))
	}
	return n, nil
}

// SetCommentStatus moves a comment between pending and approved
func (s *Service) SetCommentStatus(ctx context.Context, commentID uint64, status models.CommentStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown comment status %q", ErrValidation, status)
	}

	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.Status == status {
		return nil
	}

	if _, err := s.store.UpdateCommentStatus(ctx, commentID, status, s.now()); err != nil {
		return storeFailure("update_comment_status", err, zap.Uint64("comment_id", commentID))
	}
	s.invalidate(ctx, commentCountKey, comment.PostID)
	return nil
}

// DeleteComment removes a comment. Only its author or an admin may do so.
// Replies to the comment are kept.
func (s *Service) DeleteComment(ctx context.Context, commentID uint64, actor Actor) error {
	if actor.UserID == 0 {
		return ErrForbidden
	}

	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actor.UserID && !actor.IsAdmin {
		return ErrForbidden
	}

	if _, err := s.store.DeleteComment(ctx, commentID); err != nil {
		return storeFailure("delete_comment", err, zap.Uint64("comment_id", commentID))
	}
	s.invalidate(ctx, commentCountKey, comment.PostID)
	metrics.RecordEngagement("comment", "deleted")
	return nil
}

func (s *Service) findComment(ctx context.Context, commentID uint64) (*models.Comment, error) {
	if commentID == 0 {
		return nil, ErrNotFound
	}
	comment, err := s.store.FindComment(ctx, commentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeFailure("find_comment", err, zap.Uint64("comment_id", commentID))
	}
	return comment, nil
}

// AvatarURL returns the Gravatar URL for email, with a generic fallback image
func AvatarURL(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=mp", hex.EncodeToString(sum[:]), size)
}
