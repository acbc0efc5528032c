package store

import (
	"context"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
)

// InsertSubscription inserts sub. A duplicate (user, object, type) triple
// fails with ErrDuplicate.
func (s *Store) InsertSubscription(ctx context.Context, sub *models.Subscription) error {
	return translate(s.table(ctx, models.TableSubscriptions).Create(sub).Error)
}

// DeleteSubscription removes the subscription for the triple and reports
// whether a row was removed
func (s *Store) DeleteSubscription(ctx context.Context, userID, objectID uint64, objectType models.SubscriptionObjectType) (bool, error) {
	res := s.table(ctx, models.TableSubscriptions).
		Where("user_id = ? AND object_id = ? AND object_type = ?", userID, objectID, objectType).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SubscriptionExists reports whether userID follows the object
func (s *Store) SubscriptionExists(ctx context.Context, userID, objectID uint64, objectType models.SubscriptionObjectType) (bool, error) {
	var n int64
	err := s.table(ctx, models.TableSubscriptions).
		Where("user_id = ? AND object_id = ? AND object_type = ?", userID, objectID, objectType).
		Count(&n).Error
	return n > 0, translate(err)
}

// ListSubscriberIDs returns the users following the object in subscription
// order. emailOnly keeps only users who opted into email notification.
func (s *Store) ListSubscriberIDs(ctx context.Context, objectID uint64, objectType models.SubscriptionObjectType, emailOnly bool) ([]uint64, error) {
	query := s.table(ctx, models.TableSubscriptions).
		Where("object_id = ? AND object_type = ?", objectID, objectType)
	if emailOnly {
		query = query.Where("notify_email = ?", true)
	}

	var ids []uint64
	err := query.Order("id ASC").Pluck("user_id", &ids).Error
	return ids, translate(err)
}

// ListUserSubscriptions returns everything userID follows, newest first
func (s *Store) ListUserSubscriptions(ctx context.Context, userID uint64, limit int) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.table(ctx, models.TableSubscriptions).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&subs).Error
	return subs, translate(err)
}
