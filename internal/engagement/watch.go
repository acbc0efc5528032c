package engagement

import (
	"context"
	"errors"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
)

// Progress is a viewer's playback position on a post
type Progress struct {
	PostID          uint64    `json:"post_id"`
	ProgressSeconds int64     `json:"progress_seconds"`
	DurationSeconds int64     `json:"duration_seconds"`
	Percent         float64   `json:"percent"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func progressFromModel(p *models.PlaybackProgress) *Progress {
	return &Progress{
		PostID:          p.PostID,
		ProgressSeconds: p.ProgressSeconds,
		DurationSeconds: p.DurationSeconds,
		Percent:         p.Percent(),
		UpdatedAt:       p.UpdatedAt,
	}
}

// RecordWatch counts a view of postID by userID
func (s *Service) RecordWatch(ctx context.Context, userID, postID uint64) error {
	if userID == 0 || postID == 0 {
		return ErrValidation
	}
	if err := s.store.UpsertWatch(ctx, userID, postID, s.now()); err != nil {
		return storeFailure("upsert_watch", err, logger.WithUserID(userID), logger.WithPostID(postID))
	}
	metrics.RecordEngagement("watch", "recorded")
	return nil
}

// WatchCount returns how many times userID started postID. Anonymous viewers
// and unwatched posts report 0.
func (s *Service) WatchCount(ctx context.Context, userID, postID uint64) (int64, error) {
	if userID == 0 {
		return 0, nil
	}
	w, err := s.store.FindWatch(ctx, userID, postID)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storeFailure("find_watch", err, logger.WithUserID(userID), logger.WithPostID(postID))
	}
	return w.WatchCount, nil
}

// SaveProgress stores the playback position. The latest report wins even
// when it is behind an earlier one.
func (s *Service) SaveProgress(ctx context.Context, userID, postID uint64, progressSeconds, durationSeconds int64) error {
	if userID == 0 || postID == 0 {
		return ErrValidation
	}
	if progressSeconds < 0 || durationSeconds < 0 {
		return ErrValidation
	}

	err := s.store.UpsertProgress(ctx, &models.PlaybackProgress{
		UserID:          userID,
		PostID:          postID,
		ProgressSeconds: progressSeconds,
		DurationSeconds: durationSeconds,
		UpdatedAt:       s.now(),
	})
	if err != nil {
		return storeFailure("upsert_progress", err, logger.WithUserID(userID), logger.WithPostID(postID))
	}
	return nil
}

// GetProgress returns the viewer's position on postID, or nil when none was
// saved or the viewer is anonymous
func (s *Service) GetProgress(ctx context.Context, userID, postID uint64) (*Progress, error) {
	if userID == 0 {
		return nil, nil
	}
	p, err := s.store.FindProgress(ctx, userID, postID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeFailure("find_progress", err, logger.WithUserID(userID), logger.WithPostID(postID))
	}
	return progressFromModel(p), nil
}

// GetContinueWatching returns the items userID started but did not finish:
// more than 10 seconds in and under 90% of the duration, most recently
// updated first
func (s *Service) GetContinueWatching(ctx context.Context, userID uint64, limit int) ([]Progress, error) {
	if userID == 0 {
		return []Progress{}, nil
	}
	rows, err := s.store.ListContinueWatching(ctx, userID, continueWindow, clampLimit(limit))
	if err != nil {
		return nil, storeFailure("list_continue_watching", err, logger.WithUserID(userID))
	}

	out := make([]Progress, 0, len(rows))
	for i := range rows {
		out = append(out, *progressFromModel(&rows[i]))
	}
	return out, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	default:
		return limit
	}
}
