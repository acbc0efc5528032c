package engagement

import (
	"context"
	"errors"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/telemetry"
)

// SubscriptionResult is the state after a toggle
type SubscriptionResult struct {
	Subscribed bool `json:"subscribed"`
}

// ToggleSubscription follows or unfollows an object. The triple
// (user, object, type) is the unit: the same numeric id under another type
// is a different subscription.
func (s *Service) ToggleSubscription(ctx context.Context, userID, objectID uint64, objectType models.SubscriptionObjectType, notifyEmail bool) (result *SubscriptionResult, err error) {
	if userID == 0 || objectID == 0 {
		return nil, ErrValidation
	}
	if !objectType.IsValid() {
		return nil, ErrInvalidObjectType
	}

	ctx, span := telemetry.StartEngagementSpan(ctx, "subscription.toggle", userID, objectID, string(objectType))
	defer func() { telemetry.EndSpan(span, err) }()

	removed, err := s.store.DeleteSubscription(ctx, userID, objectID, objectType)
	if err != nil {
		return nil, storeFailure("delete_subscription", err, logger.WithUserID(userID), logger.WithObject(objectID, string(objectType)))
	}
	if removed {
		metrics.RecordEngagement("subscription", "unsubscribed")
		return &SubscriptionResult{Subscribed: false}, nil
	}

	err = s.store.InsertSubscription(ctx, &models.Subscription{
		UserID:      userID,
		ObjectID:    objectID,
		ObjectType:  objectType,
		NotifyEmail: notifyEmail,
		CreatedAt:   s.now(),
	})
	if err != nil && !errors.Is(err, store.ErrDuplicate) {
		return nil, storeFailure("insert_subscription", err, logger.WithUserID(userID), logger.WithObject(objectID, string(objectType)))
	}

	metrics.RecordEngagement("subscription", "subscribed")
	return &SubscriptionResult{Subscribed: true}, nil
}

// IsSubscribed reports whether userID follows the object. Anonymous viewers
// never do.
func (s *Service) IsSubscribed(ctx context.Context, userID, objectID uint64, objectType models.SubscriptionObjectType) (bool, error) {
	if !objectType.IsValid() {
		return false, ErrInvalidObjectType
	}
	if userID == 0 {
		return false, nil
	}
	ok, err := s.store.SubscriptionExists(ctx, userID, objectID, objectType)
	if err != nil {
		return false, storeFailure("subscription_exists", err, logger.WithUserID(userID), logger.WithObject(objectID, string(objectType)))
	}
	return ok, nil
}
