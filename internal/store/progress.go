package store

import (
	"context"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"gorm.io/gorm/clause"
)

// ContinueWindow bounds the in-progress items: more than MinSeconds played
// and less than RatioNum/RatioDen of the duration
type ContinueWindow struct {
	MinSeconds int64
	RatioNum   int64
	RatioDen   int64
}

// UpsertProgress writes p, replacing any earlier position for the same user
// and post. The latest write wins.
func (s *Store) UpsertProgress(ctx context.Context, p *models.PlaybackProgress) error {
	err := s.table(ctx, models.TablePlaybackProgress).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress_seconds", "duration_seconds", "updated_at"}),
	}).Create(p).Error
	return translate(err)
}

// FindProgress loads the playback position for (userID, postID)
func (s *Store) FindProgress(ctx context.Context, userID, postID uint64) (*models.PlaybackProgress, error) {
	var p models.PlaybackProgress
	err := s.table(ctx, models.TablePlaybackProgress).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ListContinueWatching returns userID's progress rows inside w, most
// recently updated first. The ratio is compared with integer arithmetic so
// it behaves the same on every driver.
func (s *Store) ListContinueWatching(ctx context.Context, userID uint64, w ContinueWindow, limit int) ([]models.PlaybackProgress, error) {
	var rows []models.PlaybackProgress
	err := s.table(ctx, models.TablePlaybackProgress).
		Where("user_id = ? AND duration_seconds > 0", userID).
		Where("progress_seconds > ?", w.MinSeconds).
		Where("progress_seconds * ? < duration_seconds * ?", w.RatioDen, w.RatioNum).
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, translate(err)
}
