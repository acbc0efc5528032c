// Package subscriptions answers who follows an object so that notification
// dispatch, which lives elsewhere, knows whom to reach
package subscriptions

import (
	"context"
	"errors"
	"fmt"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/models"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"go.uber.org/zap"
)

// ErrInvalidObjectType is returned for object types nobody can follow
var ErrInvalidObjectType = errors.New("subscriptions: invalid object type")

// Fanout lists subscribers of an object
type Fanout struct {
	store *store.Store
}

// NewFanout creates a fan-out reader over st
func NewFanout(st *store.Store) *Fanout {
	return &Fanout{store: st}
}

// GetSubscribers returns the ids of users following (objectID, objectType)
// in the order they subscribed. With emailOnly set, only users who opted
// into email notification are returned.
func (f *Fanout) GetSubscribers(ctx context.Context, objectID uint64, objectType models.SubscriptionObjectType, emailOnly bool) ([]uint64, error) {
	if !objectType.IsValid() {
		return nil, ErrInvalidObjectType
	}

	ids, err := f.store.ListSubscriberIDs(ctx, objectID, objectType, emailOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	if ids == nil {
		ids = []uint64{}
	}

	logger.Log.Debug("Listed subscribers",
		logger.WithObject(objectID, string(objectType)),
		zap.Bool("email_only", emailOnly),
		zap.Int("count", len(ids)),
	)
	return ids, nil
}
