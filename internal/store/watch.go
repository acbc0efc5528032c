package store

import (
	"context"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertWatch inserts a watch row with count 1, or increments the count and
// touches last_watched_at when the row exists
func (s *Store) UpsertWatch(ctx context.Context, userID, postID uint64, now time.Time) error {
	table := s.Table(models.TableWatchHistory)
	row := models.WatchHistory{
		UserID:        userID,
		PostID:        postID,
		LastWatchedAt: now,
		WatchCount:    1,
	}

	err := s.db.WithContext(ctx).Table(table).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"watch_count":     gorm.Expr(table + ".watch_count + 1"),
			"last_watched_at": now,
		}),
	}).Create(&row).Error
	return translate(err)
}

// FindWatch loads the watch row for (userID, postID)
func (s *Store) FindWatch(ctx context.Context, userID, postID uint64) (*models.WatchHistory, error) {
	var w models.WatchHistory
	err := s.table(ctx, models.TableWatchHistory).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&w).Error
	if err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

// ListWatchHistory returns userID's watch rows, most recently watched first
func (s *Store) ListWatchHistory(ctx context.Context, userID uint64, limit int) ([]models.WatchHistory, error) {
	var rows []models.WatchHistory
	err := s.table(ctx, models.TableWatchHistory).
		Where("user_id = ?", userID).
		Order("last_watched_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, translate(err)
}
