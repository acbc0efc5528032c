// Package engagement implements likes, comments, subscriptions, watch
// history and playback progress on top of the store, with read-through
// count caches that are invalidated on every write.
package engagement

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/cache"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"go.uber.org/zap"
)

var (
	ErrValidation        = errors.New("engagement: invalid input")
	ErrNotFound          = errors.New("engagement: not found")
	ErrForbidden         = errors.New("engagement: not allowed")
	ErrInvalidObjectType = errors.New("engagement: invalid object type")
	ErrInvalidSection    = errors.New("engagement: invalid library section")
	// ErrOperationFailed hides store failures from callers
	ErrOperationFailed = errors.New("engagement: operation failed")
)

// Continue-watching window: more than 10 seconds in and less than 90% through
var continueWindow = store.ContinueWindow{MinSeconds: 10, RatioNum: 9, RatioDen: 10}

const (
	likeCountKey    = "like_count"
	commentCountKey = "comment_count"
)

// Service is the engagement business layer
type Service struct {
	store *store.Store
	cache cache.Cache
	cfg   config.EngagementConfig
	now   func() time.Time
}

// NewService creates the engagement service. A nil cache disables caching.
func NewService(st *store.Store, c cache.Cache, cfg config.EngagementConfig) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if cfg.CountCacheTTL <= 0 {
		cfg.CountCacheTTL = time.Hour
	}
	if cfg.CommentsPerPage <= 0 {
		cfg.CommentsPerPage = 20
	}
	return &Service{
		store: st,
		cache: c,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source; used by tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Config returns the settings the service was built with
func (s *Service) Config() config.EngagementConfig {
	return s.cfg
}

func (s *Service) countKey(kind string, postID uint64) string {
	return cache.Key(s.cfg.CacheKeyPrefix, kind, strconv.FormatUint(postID, 10))
}

// cachedCount reads a count through the cache. Cache failures fall back to
// load and are never returned.
func (s *Service) cachedCount(ctx context.Context, kind string, postID uint64, load func() (int64, error)) (int64, error) {
	key := s.countKey(kind, postID)

	val, found, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheError(kind, "get")
		logger.Log.Debug("Count cache read failed, using database", zap.String("key", key), zap.Error(err))
	}
	if err == nil && found {
		if n, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil && n >= 0 {
			metrics.RecordCacheHit(kind)
			return n, nil
		}
	}
	metrics.RecordCacheMiss(kind)

	n, err := load()
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(ctx, key, strconv.FormatInt(n, 10), s.cfg.CountCacheTTL); err != nil {
		metrics.RecordCacheError(kind, "set")
		logger.Log.Debug("Count cache write failed", zap.String("key", key), zap.Error(err))
	}
	return n, nil
}

func (s *Service) invalidate(ctx context.Context, kind string, postID uint64) {
	key := s.countKey(kind, postID)
	if err := s.cache.Delete(ctx, key); err != nil {
		metrics.RecordCacheError(kind, "delete")
		logger.Log.Warn("Count cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// storeFailure logs err and replaces it with ErrOperationFailed
func storeFailure(op string, err error, fields ...zap.Field) error {
	logger.Log.Error("Engagement store operation failed",
		append(fields, zap.String("operation", op), zap.Error(err))...,
	)
	return ErrOperationFailed
}
